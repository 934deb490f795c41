package toolkit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ravdin/repolens/internal/githubcli"
	"github.com/ravdin/repolens/internal/toolkit"
)

type stubBranchLister struct {
	branches             []githubcli.Branch
	listError            error
	recordedRepositories []string
}

func (lister *stubBranchLister) ListBranches(_ context.Context, repository string) ([]githubcli.Branch, error) {
	lister.recordedRepositories = append(lister.recordedRepositories, repository)
	if lister.listError != nil {
		return nil, lister.listError
	}
	return lister.branches, nil
}

func TestNewSessionValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		repository    string
		branchLister  toolkit.BranchLister
		expectedError error
	}{
		{
			name:          "blank_repository",
			repository:    "   ",
			branchLister:  &stubBranchLister{},
			expectedError: toolkit.ErrSessionRepositoryRequired,
		},
		{
			name:          "missing_branch_lister",
			repository:    "acme/widgets",
			expectedError: toolkit.ErrSessionBranchListerRequired,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			session, sessionError := toolkit.NewSession(testCase.repository, "", testCase.branchLister)

			require.Nil(subtestInstance, session)
			require.ErrorIs(subtestInstance, sessionError, testCase.expectedError)
		})
	}
}

func TestNewSessionBranchDefaults(testInstance *testing.T) {
	testCases := []struct {
		name           string
		initialBranch  string
		expectedBranch string
	}{
		{name: "blank_branch_falls_back_to_main", initialBranch: "   ", expectedBranch: "main"},
		{name: "configured_branch_trimmed", initialBranch: " develop ", expectedBranch: "develop"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			session, sessionError := toolkit.NewSession("acme/widgets", testCase.initialBranch, &stubBranchLister{})

			require.NoError(subtestInstance, sessionError)
			require.Equal(subtestInstance, "acme/widgets", session.Repository())
			require.Equal(subtestInstance, testCase.expectedBranch, session.ActiveBranch())
		})
	}
}

func TestSetActiveBranchSwitchesExistingBranch(testInstance *testing.T) {
	branchLister := &stubBranchLister{branches: []githubcli.Branch{{Name: "main"}, {Name: "develop"}}}
	session, sessionError := toolkit.NewSession("acme/widgets", "main", branchLister)
	require.NoError(testInstance, sessionError)

	switchError := session.SetActiveBranch(context.Background(), " develop ")

	require.NoError(testInstance, switchError)
	require.Equal(testInstance, "develop", session.ActiveBranch())
	require.Equal(testInstance, []string{"acme/widgets"}, branchLister.recordedRepositories)
}

func TestSetActiveBranchRejectsMissingBranch(testInstance *testing.T) {
	branchLister := &stubBranchLister{branches: []githubcli.Branch{{Name: "main"}}}
	session, sessionError := toolkit.NewSession("acme/widgets", "main", branchLister)
	require.NoError(testInstance, sessionError)

	switchError := session.SetActiveBranch(context.Background(), "develop")

	notFoundError := toolkit.BranchNotFoundError{}
	require.ErrorAs(testInstance, switchError, &notFoundError)
	require.Equal(testInstance, "develop", notFoundError.Branch)
	require.Equal(testInstance, "acme/widgets", notFoundError.Repository)
	require.Equal(testInstance, "main", session.ActiveBranch())
}

func TestSetActiveBranchRequiresName(testInstance *testing.T) {
	branchLister := &stubBranchLister{}
	session, sessionError := toolkit.NewSession("acme/widgets", "main", branchLister)
	require.NoError(testInstance, sessionError)

	switchError := session.SetActiveBranch(context.Background(), "   ")

	require.ErrorIs(testInstance, switchError, toolkit.ErrBranchNameRequired)
	require.Empty(testInstance, branchLister.recordedRepositories)
}

func TestSetActiveBranchPropagatesListFailures(testInstance *testing.T) {
	listFailure := errors.New("branch listing failed")
	session, sessionError := toolkit.NewSession("acme/widgets", "main", &stubBranchLister{listError: listFailure})
	require.NoError(testInstance, sessionError)

	switchError := session.SetActiveBranch(context.Background(), "develop")

	require.ErrorIs(testInstance, switchError, listFailure)
	require.Equal(testInstance, "main", session.ActiveBranch())
}
