// Package githubcli wraps the GitHub CLI for repolens toolkit operations.
//
// It layers typed request and response structures over gh subcommands and
// the REST endpoints reached through gh api, exposes interfaces consumed by
// other packages, and integrates with execshell so interactions with GitHub
// can be mocked during testing.
package githubcli
