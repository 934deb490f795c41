package docgen

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

const (
	gitDirectoryNameConstant      = ".git"
	gitignoreFileNameConstant     = ".gitignore"
	extensionSeparatorConstant    = "."
	treeWalkErrorTemplateConstant = "walking %s failed: %s"
)

var defaultSourceExtensions = []string{".py", ".js", ".ts", ".java", ".go"}

var defaultExcludeMarkers = []string{"test", "fixture"}

var builtinIgnorePatterns = []string{"node_modules/", "vendor/"}

// TreeWalkError reports a source root that could not be traversed.
type TreeWalkError struct {
	Root  string
	Cause error
}

// Error describes the failed traversal.
func (walkError TreeWalkError) Error() string {
	return fmt.Sprintf(treeWalkErrorTemplateConstant, walkError.Root, walkError.Cause)
}

// Unwrap exposes the traversal failure.
func (walkError TreeWalkError) Unwrap() error {
	return walkError.Cause
}

// ScannerOptions configures source file discovery.
type ScannerOptions struct {
	Extensions      []string
	ExcludeMarkers  []string
	OutputDirectory string
}

// SourceScanner walks source roots and selects the files worth documenting.
// A file qualifies when its extension is configured and its lowercased
// root-relative path contains none of the exclusion markers, so an absolute
// root does not leak its own name into the exclusion check. The .git
// directory is always skipped, and each root's .gitignore patterns apply
// together with built-in ignores and the output directory itself.
type SourceScanner struct {
	extensionSet    map[string]struct{}
	excludeMarkers  []string
	outputDirectory string
}

// NewSourceScanner constructs a SourceScanner, falling back to the default
// extension and marker sets when the options leave them empty.
func NewSourceScanner(options ScannerOptions) *SourceScanner {
	configuredExtensions := options.Extensions
	if len(configuredExtensions) == 0 {
		configuredExtensions = defaultSourceExtensions
	}
	configuredMarkers := options.ExcludeMarkers
	if len(configuredMarkers) == 0 {
		configuredMarkers = defaultExcludeMarkers
	}

	extensionSet := make(map[string]struct{}, len(configuredExtensions))
	for _, configuredExtension := range configuredExtensions {
		normalizedExtension := strings.ToLower(strings.TrimSpace(configuredExtension))
		if len(normalizedExtension) == 0 {
			continue
		}
		if !strings.HasPrefix(normalizedExtension, extensionSeparatorConstant) {
			normalizedExtension = extensionSeparatorConstant + normalizedExtension
		}
		extensionSet[normalizedExtension] = struct{}{}
	}

	normalizedMarkers := make([]string, 0, len(configuredMarkers))
	for _, configuredMarker := range configuredMarkers {
		normalizedMarker := strings.ToLower(strings.TrimSpace(configuredMarker))
		if len(normalizedMarker) > 0 {
			normalizedMarkers = append(normalizedMarkers, normalizedMarker)
		}
	}

	return &SourceScanner{
		extensionSet:    extensionSet,
		excludeMarkers:  normalizedMarkers,
		outputDirectory: strings.TrimSpace(options.OutputDirectory),
	}
}

// ListSourceFiles walks every root and returns the selected files sorted and
// deduplicated.
func (scanner *SourceScanner) ListSourceFiles(roots []string) ([]string, error) {
	collectedFiles := make([]string, 0)
	seenFiles := map[string]struct{}{}
	for _, candidateRoot := range roots {
		trimmedRoot := strings.TrimSpace(candidateRoot)
		if len(trimmedRoot) == 0 {
			continue
		}
		ignoreMatcher := scanner.buildIgnoreMatcher(trimmedRoot)
		walkError := filepath.WalkDir(trimmedRoot, func(entryPath string, entry fs.DirEntry, entryError error) error {
			if entryError != nil {
				return entryError
			}
			relativePath, relativeError := filepath.Rel(trimmedRoot, entryPath)
			if relativeError != nil || relativePath == "." {
				return nil
			}
			if entry.IsDir() {
				if entry.Name() == gitDirectoryNameConstant {
					return filepath.SkipDir
				}
				if ignoreMatcher.MatchesPath(relativePath + string(filepath.Separator)) {
					return filepath.SkipDir
				}
				return nil
			}
			if ignoreMatcher.MatchesPath(relativePath) {
				return nil
			}
			if !scanner.selectsFile(relativePath) {
				return nil
			}
			if _, alreadySeen := seenFiles[entryPath]; alreadySeen {
				return nil
			}
			seenFiles[entryPath] = struct{}{}
			collectedFiles = append(collectedFiles, entryPath)
			return nil
		})
		if walkError != nil {
			return nil, TreeWalkError{Root: trimmedRoot, Cause: walkError}
		}
	}
	sort.Strings(collectedFiles)
	return collectedFiles, nil
}

func (scanner *SourceScanner) selectsFile(relativePath string) bool {
	if _, matchesExtension := scanner.extensionSet[strings.ToLower(filepath.Ext(relativePath))]; !matchesExtension {
		return false
	}
	loweredPath := strings.ToLower(relativePath)
	for _, excludeMarker := range scanner.excludeMarkers {
		if strings.Contains(loweredPath, excludeMarker) {
			return false
		}
	}
	return true
}

// buildIgnoreMatcher combines the built-in ignore patterns, the output
// directory, and the root's .gitignore when one exists.
func (scanner *SourceScanner) buildIgnoreMatcher(root string) *ignore.GitIgnore {
	ignorePatterns := append([]string{}, builtinIgnorePatterns...)
	if len(scanner.outputDirectory) > 0 {
		ignorePatterns = append(ignorePatterns, strings.TrimSuffix(filepath.ToSlash(scanner.outputDirectory), "/")+"/")
	}
	gitignoreContent, readError := os.ReadFile(filepath.Join(root, gitignoreFileNameConstant))
	if readError == nil {
		ignorePatterns = append(ignorePatterns, strings.Split(string(gitignoreContent), "\n")...)
	}
	return ignore.CompileIgnoreLines(ignorePatterns...)
}
