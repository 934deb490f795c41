package docgen

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	importClausePrefixConstant = "import "
	fromClausePrefixConstant   = "from "
)

// BuildDependencyMap relates every file to the files whose stem appears in
// an import or from clause of its content. The detector is a plain substring
// check over file stems, not a language-aware resolver, so it works the same
// across all supported extensions. Unreadable files keep an empty relation
// list. Related lists come back sorted.
func BuildDependencyMap(filePaths []string) map[string][]string {
	dependencyMap := make(map[string][]string, len(filePaths))
	for _, filePath := range filePaths {
		dependencyMap[filePath] = []string{}
	}
	for _, filePath := range filePaths {
		contentBytes, readError := os.ReadFile(filePath)
		if readError != nil {
			continue
		}
		fileContent := string(contentBytes)
		for _, otherPath := range filePaths {
			if otherPath == filePath {
				continue
			}
			otherStem := fileStem(otherPath)
			if len(otherStem) == 0 {
				continue
			}
			if strings.Contains(fileContent, importClausePrefixConstant+otherStem) ||
				strings.Contains(fileContent, fromClausePrefixConstant+otherStem) {
				dependencyMap[filePath] = append(dependencyMap[filePath], otherPath)
			}
		}
		sort.Strings(dependencyMap[filePath])
	}
	return dependencyMap
}

// fileStem returns the base name of a path without its extension.
func fileStem(filePath string) string {
	baseName := filepath.Base(filePath)
	return strings.TrimSuffix(baseName, filepath.Ext(baseName))
}
