package pathutils

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// SourceRootSanitizerConfiguration controls source root sanitization behavior.
type SourceRootSanitizerConfiguration struct {
	// PruneNestedRoots removes roots that are nested within other provided roots.
	PruneNestedRoots bool
}

// SourceRootSanitizer normalizes documentation root inputs consistently across commands.
type SourceRootSanitizer struct {
	homeExpander  *HomeExpander
	configuration SourceRootSanitizerConfiguration
}

// NewSourceRootSanitizer constructs a SourceRootSanitizer with default behavior.
func NewSourceRootSanitizer() *SourceRootSanitizer {
	return NewSourceRootSanitizerWithConfiguration(nil, SourceRootSanitizerConfiguration{})
}

// NewSourceRootSanitizerWithConfiguration constructs a SourceRootSanitizer using the provided expander and configuration.
func NewSourceRootSanitizerWithConfiguration(homeExpander *HomeExpander, configuration SourceRootSanitizerConfiguration) *SourceRootSanitizer {
	resolvedExpander := homeExpander
	if resolvedExpander == nil {
		resolvedExpander = NewHomeExpander()
	}

	return &SourceRootSanitizer{
		homeExpander:  resolvedExpander,
		configuration: configuration,
	}
}

// SanitizeRoots trims whitespace, expands the user's home directory, and removes blank values.
func (sanitizer *SourceRootSanitizer) SanitizeRoots(candidateRoots []string) []string {
	if sanitizer == nil {
		return sanitizeRootsWithExpander(NewHomeExpander(), SourceRootSanitizerConfiguration{}, candidateRoots)
	}

	return sanitizeRootsWithExpander(sanitizer.homeExpander, sanitizer.configuration, candidateRoots)
}

func sanitizeRootsWithExpander(expander *HomeExpander, configuration SourceRootSanitizerConfiguration, candidateRoots []string) []string {
	sanitizedRoots := make([]string, 0, len(candidateRoots))
	for candidateIndex := range candidateRoots {
		trimmedCandidate := strings.TrimSpace(candidateRoots[candidateIndex])
		if len(trimmedCandidate) == 0 {
			continue
		}

		expandedRoot := expander.Expand(trimmedCandidate)
		if len(expandedRoot) == 0 {
			continue
		}

		sanitizedRoots = append(sanitizedRoots, expandedRoot)
	}

	if len(sanitizedRoots) == 0 {
		return nil
	}

	if configuration.PruneNestedRoots {
		return pruneNestedRoots(sanitizedRoots)
	}

	return sanitizedRoots
}

func pruneNestedRoots(candidateRoots []string) []string {
	if len(candidateRoots) == 0 {
		return nil
	}

	type rootDetails struct {
		originalIndex int
		value         string
		canonical     string
		comparison    string
	}

	roots := make([]rootDetails, 0, len(candidateRoots))
	for index := range candidateRoots {
		canonicalRoot := canonicalizeRoot(candidateRoots[index])
		comparisonRoot := comparisonRoot(canonicalRoot)
		roots = append(roots, rootDetails{
			originalIndex: index,
			value:         candidateRoots[index],
			canonical:     canonicalRoot,
			comparison:    comparisonRoot,
		})
	}

	sort.SliceStable(roots, func(first int, second int) bool {
		firstLength := len(roots[first].comparison)
		secondLength := len(roots[second].comparison)
		if firstLength == secondLength {
			return roots[first].comparison < roots[second].comparison
		}
		return firstLength < secondLength
	})

	selected := make([]rootDetails, 0, len(roots))
	for _, candidate := range roots {
		skip := false
		for _, existing := range selected {
			if candidate.comparison == existing.comparison {
				skip = true
				break
			}
			if isNestedRoot(existing.canonical, candidate.canonical) {
				skip = true
				break
			}
		}
		if !skip {
			selected = append(selected, candidate)
		}
	}

	sort.SliceStable(selected, func(first int, second int) bool {
		return selected[first].originalIndex < selected[second].originalIndex
	})

	pruned := make([]string, 0, len(selected))
	for _, candidate := range selected {
		pruned = append(pruned, candidate.value)
	}

	return pruned
}

func canonicalizeRoot(root string) string {
	cleanedRoot := filepath.Clean(root)
	absoluteRoot, absoluteError := filepath.Abs(cleanedRoot)
	if absoluteError == nil {
		return filepath.Clean(absoluteRoot)
	}
	return cleanedRoot
}

func comparisonRoot(root string) string {
	comparison := filepath.Clean(root)
	if runtime.GOOS == "windows" {
		comparison = strings.ToLower(comparison)
	}
	return comparison
}

func isNestedRoot(parent string, candidate string) bool {
	parentClean := comparisonRoot(parent)
	candidateClean := comparisonRoot(candidate)

	if candidateClean == parentClean {
		return true
	}

	if len(candidateClean) <= len(parentClean) {
		return false
	}

	if !strings.HasPrefix(candidateClean, parentClean) {
		return false
	}

	parentEndsWithSeparator := parentClean[len(parentClean)-1] == os.PathSeparator
	if parentEndsWithSeparator {
		return true
	}

	return candidateClean[len(parentClean)] == os.PathSeparator
}
