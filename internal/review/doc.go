// Package review analyzes pull requests with a chat model.
//
// The service fetches a pull request and its changed files, reads every
// file's base and head branch versions, asks the configured model for a
// detailed review, and prints one framed Markdown report per file. Reports
// are also saved under an output directory when one is configured.
package review
