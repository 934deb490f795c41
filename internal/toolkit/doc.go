// Package toolkit maintains the registry of GitHub tools the interactive
// menu and the non-interactive dispatcher run.
//
// Tools are registered once at startup in menu order. Each definition carries
// prompting metadata and a JSON Schema document; argument values collected as
// text are coerced to their declared kinds and validated against the schema
// before the tool runs. A Session tracks the repository slug and the active
// branch that file and branch operations default to.
package toolkit
