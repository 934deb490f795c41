package githubauth

import (
	"context"
	"errors"

	"github.com/ravdin/repolens/internal/execshell"
)

const (
	delegateExecutorRequiredMessageConstant = "delegate GitHub executor required"
	injectedTokenRequiredMessageConstant    = "authentication token required"
)

// ErrDelegateExecutorNotConfigured indicates construction without a delegate executor.
var ErrDelegateExecutorNotConfigured = errors.New(delegateExecutorRequiredMessageConstant)

// ErrInjectedTokenRequired indicates construction without a token to inject.
var ErrInjectedTokenRequired = errors.New(injectedTokenRequiredMessageConstant)

// GitHubCommandExecutor runs GitHub CLI commands.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// TokenInjectingExecutor decorates a GitHub CLI executor so every invocation
// carries the resolved authentication token. Environment variables already set
// on the command details win over the injected token.
type TokenInjectingExecutor struct {
	delegate GitHubCommandExecutor
	token    string
}

// NewTokenInjectingExecutor wraps the delegate executor with token injection.
func NewTokenInjectingExecutor(delegate GitHubCommandExecutor, token string) (*TokenInjectingExecutor, error) {
	if delegate == nil {
		return nil, ErrDelegateExecutorNotConfigured
	}
	if len(token) == 0 {
		return nil, ErrInjectedTokenRequired
	}
	return &TokenInjectingExecutor{delegate: delegate, token: token}, nil
}

// ExecuteGitHubCLI forwards the command with the token added to its environment.
func (executor *TokenInjectingExecutor) ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	injectedDetails := details
	injectedDetails.EnvironmentVariables = make(map[string]string, len(details.EnvironmentVariables)+1)
	for variableName, variableValue := range details.EnvironmentVariables {
		injectedDetails.EnvironmentVariables[variableName] = variableValue
	}
	if _, tokenAlreadySet := injectedDetails.EnvironmentVariables[EnvGitHubCLIToken]; !tokenAlreadySet {
		injectedDetails.EnvironmentVariables[EnvGitHubCLIToken] = executor.token
	}
	return executor.delegate.ExecuteGitHubCLI(executionContext, injectedDetails)
}
