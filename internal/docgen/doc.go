// Package docgen generates per-file Markdown documentation for a source tree.
//
// A scanner walks the configured roots and keeps files by extension while
// honoring exclusion markers and gitignore patterns. A naive dependency map
// relates files whose stems appear in import or from clauses of other files.
// The generator streams one chat completion per file, saves each document
// under the output directory with path separators flattened to underscores,
// and finishes with an index.yaml manifest of the run.
package docgen
