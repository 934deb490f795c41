package toolkit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ravdin/repolens/internal/githubcli"
)

const (
	sessionRepositoryRequiredMessageConstant   = "session repository required"
	sessionBranchListerRequiredMessageConstant = "session branch lister required"
	branchNameRequiredMessageConstant          = "branch name required"
	branchNotFoundErrorTemplateConstant        = "branch %s not found in %s"
	defaultActiveBranchNameConstant            = "main"
)

// ErrSessionRepositoryRequired indicates a session without a repository slug.
var ErrSessionRepositoryRequired = errors.New(sessionRepositoryRequiredMessageConstant)

// ErrSessionBranchListerRequired indicates a session without a branch lister.
var ErrSessionBranchListerRequired = errors.New(sessionBranchListerRequiredMessageConstant)

// ErrBranchNameRequired indicates a blank branch name.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// BranchNotFoundError indicates the requested active branch does not exist.
type BranchNotFoundError struct {
	Branch     string
	Repository string
}

// Error describes the missing branch.
func (notFoundError BranchNotFoundError) Error() string {
	return fmt.Sprintf(branchNotFoundErrorTemplateConstant, notFoundError.Branch, notFoundError.Repository)
}

// BranchLister enumerates repository branches for active-branch validation.
type BranchLister interface {
	ListBranches(executionContext context.Context, repository string) ([]githubcli.Branch, error)
}

// Session tracks the repository and active branch tool runs operate on.
// File reads and writes default to the active branch.
type Session struct {
	repositoryIdentifier string
	activeBranch         string
	branchLister         BranchLister
}

// NewSession creates a session for the repository. A blank initial branch
// falls back to main.
func NewSession(repositoryIdentifier string, initialBranch string, branchLister BranchLister) (*Session, error) {
	trimmedRepository := strings.TrimSpace(repositoryIdentifier)
	if len(trimmedRepository) == 0 {
		return nil, ErrSessionRepositoryRequired
	}
	if branchLister == nil {
		return nil, ErrSessionBranchListerRequired
	}
	trimmedBranch := strings.TrimSpace(initialBranch)
	if len(trimmedBranch) == 0 {
		trimmedBranch = defaultActiveBranchNameConstant
	}
	return &Session{
		repositoryIdentifier: trimmedRepository,
		activeBranch:         trimmedBranch,
		branchLister:         branchLister,
	}, nil
}

// Repository returns the owner/name slug the session operates on.
func (session *Session) Repository() string {
	return session.repositoryIdentifier
}

// ActiveBranch returns the branch file operations default to.
func (session *Session) ActiveBranch() string {
	return session.activeBranch
}

// SetActiveBranch switches the active branch after confirming it exists.
func (session *Session) SetActiveBranch(executionContext context.Context, branchName string) error {
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return ErrBranchNameRequired
	}
	branches, listError := session.branchLister.ListBranches(executionContext, session.repositoryIdentifier)
	if listError != nil {
		return listError
	}
	for _, branch := range branches {
		if branch.Name == trimmedBranch {
			session.activeBranch = trimmedBranch
			return nil
		}
	}
	return BranchNotFoundError{Branch: trimmedBranch, Repository: session.repositoryIdentifier}
}

// adoptBranch records a branch as active without revalidating it. Used after
// the session itself created the branch.
func (session *Session) adoptBranch(branchName string) {
	session.activeBranch = branchName
}
