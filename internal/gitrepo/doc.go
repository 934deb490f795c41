// Package gitrepo contains helpers for interrogating Git repositories.
//
// It parses and formats remote URLs and exposes RepositoryResolver for
// deriving owner/repo slugs from the remotes of a local checkout.
package gitrepo
