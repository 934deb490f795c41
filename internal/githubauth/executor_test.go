package githubauth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ravdin/repolens/internal/execshell"
	"github.com/ravdin/repolens/internal/githubauth"
)

const (
	injectedTokenConstant         = "ghs_injected"
	preexistingTokenConstant      = "ghs_preexisting"
	unrelatedVariableNameConstant = "GH_PAGER"
	unrelatedVariableValue        = "cat"
)

type stubGitHubExecutor struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.CommandDetails
}

func (executor *stubGitHubExecutor) ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	return executor.executionResult, executor.executionError
}

func TestNewTokenInjectingExecutorValidatesInputs(testInstance *testing.T) {
	testCases := []struct {
		name          string
		delegate      githubauth.GitHubCommandExecutor
		token         string
		expectedError error
	}{
		{
			name:          "missing_delegate",
			delegate:      nil,
			token:         injectedTokenConstant,
			expectedError: githubauth.ErrDelegateExecutorNotConfigured,
		},
		{
			name:          "missing_token",
			delegate:      &stubGitHubExecutor{},
			token:         "",
			expectedError: githubauth.ErrInjectedTokenRequired,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			executor, creationError := githubauth.NewTokenInjectingExecutor(testCase.delegate, testCase.token)
			require.ErrorIs(subtest, creationError, testCase.expectedError)
			require.Nil(subtest, executor)
		})
	}
}

func TestTokenInjectingExecutorAddsToken(testInstance *testing.T) {
	delegate := &stubGitHubExecutor{executionResult: execshell.ExecutionResult{StandardOutput: "{}"}}
	executor, creationError := githubauth.NewTokenInjectingExecutor(delegate, injectedTokenConstant)
	require.NoError(testInstance, creationError)

	details := execshell.CommandDetails{
		Arguments:            []string{"api", "repos/acme/widgets"},
		EnvironmentVariables: map[string]string{unrelatedVariableNameConstant: unrelatedVariableValue},
	}

	result, executionError := executor.ExecuteGitHubCLI(context.Background(), details)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "{}", result.StandardOutput)

	require.Len(testInstance, delegate.recordedCommands, 1)
	forwardedDetails := delegate.recordedCommands[0]
	require.Equal(testInstance, injectedTokenConstant, forwardedDetails.EnvironmentVariables[githubauth.EnvGitHubCLIToken])
	require.Equal(testInstance, unrelatedVariableValue, forwardedDetails.EnvironmentVariables[unrelatedVariableNameConstant])
	require.Equal(testInstance, details.Arguments, forwardedDetails.Arguments)
}

func TestTokenInjectingExecutorPreservesExplicitToken(testInstance *testing.T) {
	delegate := &stubGitHubExecutor{}
	executor, creationError := githubauth.NewTokenInjectingExecutor(delegate, injectedTokenConstant)
	require.NoError(testInstance, creationError)

	details := execshell.CommandDetails{
		EnvironmentVariables: map[string]string{githubauth.EnvGitHubCLIToken: preexistingTokenConstant},
	}

	_, executionError := executor.ExecuteGitHubCLI(context.Background(), details)
	require.NoError(testInstance, executionError)

	require.Len(testInstance, delegate.recordedCommands, 1)
	require.Equal(testInstance, preexistingTokenConstant, delegate.recordedCommands[0].EnvironmentVariables[githubauth.EnvGitHubCLIToken])
}

func TestTokenInjectingExecutorLeavesOriginalDetailsUntouched(testInstance *testing.T) {
	delegate := &stubGitHubExecutor{}
	executor, creationError := githubauth.NewTokenInjectingExecutor(delegate, injectedTokenConstant)
	require.NoError(testInstance, creationError)

	details := execshell.CommandDetails{Arguments: []string{"api", "user"}}
	_, executionError := executor.ExecuteGitHubCLI(context.Background(), details)
	require.NoError(testInstance, executionError)

	require.Nil(testInstance, details.EnvironmentVariables)
}
