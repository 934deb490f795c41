package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ravdin/repolens/internal/execshell"
)

const (
	gitRemoteSubcommandConstant               = "remote"
	gitGetURLSubcommandConstant               = "get-url"
	defaultRemoteNameConstant                 = "origin"
	requiredValueMessageConstant              = "value required"
	gitExecutorRequiredMessageConstant        = "git executor not configured"
	repositorySlugTemplateConstant            = "%s/%s"
	repositoryResolutionHintConstant          = "set GITHUB_REPOSITORY or configure github.repository"
	repositoryResolutionErrorTemplateConstant = "unable to resolve repository from %s remote: %s (%s)"
)

// ErrGitExecutorNotConfigured indicates the resolver was constructed without a git executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorRequiredMessageConstant)

// GitExecutor abstracts git invocation for repository resolution.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryResolutionError indicates the owner/repo slug could not be derived from a remote.
type RepositoryResolutionError struct {
	RemoteName string
	Cause      error
}

// Error describes the resolution failure and how to bypass it.
func (resolutionError RepositoryResolutionError) Error() string {
	return fmt.Sprintf(repositoryResolutionErrorTemplateConstant, resolutionError.RemoteName, resolutionError.Cause, repositoryResolutionHintConstant)
}

// Unwrap exposes the underlying cause.
func (resolutionError RepositoryResolutionError) Unwrap() error {
	return resolutionError.Cause
}

// RepositoryResolver derives owner/repo slugs from the remotes of a local checkout.
type RepositoryResolver struct {
	gitExecutor GitExecutor
}

// NewRepositoryResolver wires a resolver with its git executor.
func NewRepositoryResolver(gitExecutor GitExecutor) (*RepositoryResolver, error) {
	if gitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryResolver{gitExecutor: gitExecutor}, nil
}

// ResolveSlug reads the named remote of the checkout at workingDirectory and
// returns its owner/repo slug. An empty remote name defaults to origin.
func (resolver *RepositoryResolver) ResolveSlug(executionContext context.Context, workingDirectory string, remoteName string) (string, error) {
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		trimmedRemoteName = defaultRemoteNameConstant
	}

	executionResult, executionError := resolver.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitGetURLSubcommandConstant, trimmedRemoteName},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		return "", RepositoryResolutionError{RemoteName: trimmedRemoteName, Cause: executionError}
	}

	remoteURL, parseError := ParseRemoteURL(strings.TrimSpace(executionResult.StandardOutput))
	if parseError != nil {
		return "", RepositoryResolutionError{RemoteName: trimmedRemoteName, Cause: parseError}
	}

	return fmt.Sprintf(repositorySlugTemplateConstant, remoteURL.Owner, remoteURL.Repository), nil
}
