package menu_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ravdin/repolens/internal/execshell"
	"github.com/ravdin/repolens/internal/llm"
	"github.com/ravdin/repolens/internal/menu"
	"github.com/ravdin/repolens/internal/review"
)

const (
	toolkitTestRepositoryConstant      = "acme/widgets"
	toolkitTestTokenConstant           = "ghp_toolkit_test"
	toolkitTestRepositoryJSONConstant  = `{"nameWithOwner":"acme/widgets","description":"Widget factory","defaultBranchRef":{"name":"main"}}`
	toolkitTestPullRequestJSONConstant = `{"number":7,"title":"Add parser","state":"OPEN","body":"","baseRefName":"main","headRefName":"feature/parser"}`
	toolkitTestPullFilesJSONConstant   = `[{"filename":"cmd/app.go","status":"modified","additions":3,"deletions":1}]`
)

type toolkitRoutingGitHubExecutor struct {
	recordedDetails []execshell.CommandDetails
}

func (executor *toolkitRoutingGitHubExecutor) ExecuteGitHubCLI(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	joinedArguments := strings.Join(details.Arguments, " ")
	switch {
	case strings.HasPrefix(joinedArguments, "repo view"):
		return execshell.ExecutionResult{StandardOutput: toolkitTestRepositoryJSONConstant}, nil
	case strings.HasPrefix(joinedArguments, "pr view"):
		return execshell.ExecutionResult{StandardOutput: toolkitTestPullRequestJSONConstant}, nil
	case strings.Contains(joinedArguments, "/pulls/7/files"):
		return execshell.ExecutionResult{StandardOutput: toolkitTestPullFilesJSONConstant}, nil
	case strings.Contains(joinedArguments, "ref=main"):
		return execshell.ExecutionResult{StandardOutput: "old contents"}, nil
	case strings.Contains(joinedArguments, "/contents/"):
		return execshell.ExecutionResult{StandardOutput: "new contents"}, nil
	default:
		return execshell.ExecutionResult{}, nil
	}
}

type toolkitStubChatClient struct {
	completionText   string
	recordedRequests []llm.ChatRequest
}

func (chatClient *toolkitStubChatClient) Complete(executionContext context.Context, request llm.ChatRequest) (string, error) {
	return chatClient.CompleteStreaming(executionContext, request, nil)
}

func (chatClient *toolkitStubChatClient) CompleteStreaming(_ context.Context, request llm.ChatRequest, _ llm.ChunkHandler) (string, error) {
	chatClient.recordedRequests = append(chatClient.recordedRequests, request)
	return chatClient.completionText, nil
}

func clearToolkitTokenEnvironment(testInstance *testing.T) {
	testInstance.Helper()
	testInstance.Setenv("GH_TOKEN", "")
	testInstance.Setenv("GITHUB_TOKEN", "")
	testInstance.Setenv("GITHUB_API_TOKEN", "")
}

func buildToolkitCommandBuilder(gitHubExecutor *toolkitRoutingGitHubExecutor, chatFactory menu.ChatClientFactory) menu.CommandBuilder {
	return menu.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		ReviewConfigurationProvider: func() review.CommandConfiguration {
			return review.CommandConfiguration{Provider: "xai", Model: "grok-2-1212", Temperature: 0.2}
		},
		RepositoryOptionsProvider: func() review.RepositoryOptions {
			return review.RepositoryOptions{Repository: toolkitTestRepositoryConstant}
		},
		GitHubExecutor:    gitHubExecutor,
		ChatClientFactory: chatFactory,
	}
}

func TestToolkitCommandRejectsPositionalArguments(testInstance *testing.T) {
	clearToolkitTokenEnvironment(testInstance)

	builder := buildToolkitCommandBuilder(&toolkitRoutingGitHubExecutor{}, nil)
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetArgs([]string{"unexpected"})
	command.SetOut(&strings.Builder{})
	command.SetErr(&strings.Builder{})

	executionError := command.Execute()
	require.Error(testInstance, executionError)
	require.Equal(testInstance, "toolkit does not accept positional arguments", executionError.Error())
}

func TestToolkitCommandRunsSingleTool(testInstance *testing.T) {
	clearToolkitTokenEnvironment(testInstance)

	gitHubExecutor := &toolkitRoutingGitHubExecutor{}
	builder := buildToolkitCommandBuilder(gitHubExecutor, nil)

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &strings.Builder{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetContext(context.Background())
	command.SetArgs([]string{"--tool", "get_repo_info"})

	executionError := command.Execute()
	require.NoError(testInstance, executionError)

	require.Contains(testInstance, outputBuffer.String(), "--- Output ---")
	require.Contains(testInstance, outputBuffer.String(), `"NameWithOwner": "acme/widgets"`)
	require.Contains(testInstance, outputBuffer.String(), `"DefaultBranch": "main"`)

	require.Len(testInstance, gitHubExecutor.recordedDetails, 1)
	require.Equal(testInstance, []string{"repo", "view", toolkitTestRepositoryConstant, "--json", "defaultBranchRef,nameWithOwner,description"}, gitHubExecutor.recordedDetails[0].Arguments)
}

func TestToolkitCommandUsesWorkBranchAsActiveBranch(testInstance *testing.T) {
	clearToolkitTokenEnvironment(testInstance)

	builder := buildToolkitCommandBuilder(&toolkitRoutingGitHubExecutor{}, nil)
	builder.RepositoryOptionsProvider = func() review.RepositoryOptions {
		return review.RepositoryOptions{Repository: toolkitTestRepositoryConstant, WorkBranch: "develop"}
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &strings.Builder{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetContext(context.Background())
	command.SetArgs([]string{"--tool", "get_active_branch"})

	executionError := command.Execute()
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, outputBuffer.String(), "develop")
}

func TestToolkitCommandInjectsEnvironmentToken(testInstance *testing.T) {
	clearToolkitTokenEnvironment(testInstance)
	testInstance.Setenv("GH_TOKEN", toolkitTestTokenConstant)

	gitHubExecutor := &toolkitRoutingGitHubExecutor{}
	builder := buildToolkitCommandBuilder(gitHubExecutor, nil)

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&strings.Builder{})
	command.SetErr(&strings.Builder{})
	command.SetContext(context.Background())
	command.SetArgs([]string{"--tool", "get_repo_info"})

	executionError := command.Execute()
	require.NoError(testInstance, executionError)

	require.NotEmpty(testInstance, gitHubExecutor.recordedDetails)
	for _, details := range gitHubExecutor.recordedDetails {
		require.Equal(testInstance, toolkitTestTokenConstant, details.EnvironmentVariables["GH_TOKEN"])
	}
}

func TestToolkitCommandReportsMalformedArguments(testInstance *testing.T) {
	clearToolkitTokenEnvironment(testInstance)

	builder := buildToolkitCommandBuilder(&toolkitRoutingGitHubExecutor{}, nil)
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&strings.Builder{})
	command.SetErr(&strings.Builder{})
	command.SetContext(context.Background())
	command.SetArgs([]string{"--tool", "get_issue", "--arg", "issue_number"})

	executionError := command.Execute()
	require.Error(testInstance, executionError)
	require.Equal(testInstance, `tool execution failed: argument "issue_number" must use key=value form`, executionError.Error())
}

func TestToolkitCommandDispatchesToolsWithoutChatCredentials(testInstance *testing.T) {
	clearToolkitTokenEnvironment(testInstance)

	factoryInvocations := 0
	builder := buildToolkitCommandBuilder(&toolkitRoutingGitHubExecutor{}, func(llm.ProviderSettings) (llm.ChatClient, error) {
		factoryInvocations++
		return nil, errors.New("missing credentials")
	})

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&strings.Builder{})
	command.SetErr(&strings.Builder{})
	command.SetContext(context.Background())
	command.SetArgs([]string{"--tool", "get_repo_info"})

	executionError := command.Execute()
	require.NoError(testInstance, executionError)
	require.Zero(testInstance, factoryInvocations)
}

func TestToolkitCommandRunsInteractiveMenu(testInstance *testing.T) {
	clearToolkitTokenEnvironment(testInstance)

	builder := buildToolkitCommandBuilder(&toolkitRoutingGitHubExecutor{}, nil)
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &strings.Builder{}
	command.SetIn(strings.NewReader("0\n"))
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetContext(context.Background())
	command.SetArgs([]string{})

	executionError := command.Execute()
	require.NoError(testInstance, executionError)

	require.Contains(testInstance, outputBuffer.String(), "===== GitHub Toolkit CLI =====")
	require.Contains(testInstance, outputBuffer.String(), "1. get_repo_info")
	require.Contains(testInstance, outputBuffer.String(), "21. Analyze pull request with grok-2-1212")
	require.Contains(testInstance, outputBuffer.String(), "0. Exit")
	require.Contains(testInstance, outputBuffer.String(), "Exiting... Goodbye!")
}

func TestToolkitCommandMenuRunsReviewOnDemand(testInstance *testing.T) {
	clearToolkitTokenEnvironment(testInstance)

	chatClient := &toolkitStubChatClient{completionText: "Looks solid."}
	factoryInvocations := 0
	builder := buildToolkitCommandBuilder(&toolkitRoutingGitHubExecutor{}, func(llm.ProviderSettings) (llm.ChatClient, error) {
		factoryInvocations++
		return chatClient, nil
	})

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &strings.Builder{}
	command.SetIn(strings.NewReader("21\n7\n0\n"))
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetContext(context.Background())
	command.SetArgs([]string{})

	executionError := command.Execute()
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, 1, factoryInvocations)
	require.Len(testInstance, chatClient.recordedRequests, 1)
	require.Contains(testInstance, outputBuffer.String(), "Analyzing 1 files in PR #7")
	require.Contains(testInstance, outputBuffer.String(), "=== Review for cmd/app.go ===")
	require.Contains(testInstance, outputBuffer.String(), "Looks solid.")
}
