package githubcli_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ravdin/repolens/internal/execshell"
	"github.com/ravdin/repolens/internal/githubcli"
)

func TestSearchIssues(testInstance *testing.T) {
	testInstance.Run("search_success_scopes_query", func(testInstance *testing.T) {
		executor := &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
			return execshell.ExecutionResult{StandardOutput: `{"total_count":1,"items":[{"number":7,"title":"Crash on startup","state":"open"}]}`}, nil
		}}
		client := newClientForTest(testInstance, executor)

		searchResult, searchError := client.SearchIssues(context.Background(), testRepositoryIdentifierConstant, "crash report")

		require.NoError(testInstance, searchError)
		require.Equal(testInstance, 1, searchResult.TotalCount)
		require.Len(testInstance, searchResult.Issues, 1)
		require.Equal(testInstance, "Crash on startup", searchResult.Issues[0].Title)
		require.Equal(testInstance, "search/issues?q=crash+report+repo%3Aowner%2Fexample", executor.recordedDetails[0].Arguments[1])
	})

	testInstance.Run("missing_query", func(testInstance *testing.T) {
		client := newClientForTest(testInstance, &stubGitHubExecutor{})

		_, searchError := client.SearchIssues(context.Background(), testRepositoryIdentifierConstant, "  ")

		require.Error(testInstance, searchError)
		require.IsType(testInstance, githubcli.InvalidInputError{}, searchError)
	})
}

func TestSearchCode(testInstance *testing.T) {
	testInstance.Run("search_success_scopes_query", func(testInstance *testing.T) {
		executor := &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
			return execshell.ExecutionResult{StandardOutput: `{"total_count":2,"items":[{"name":"app.py","path":"src/app.py"},{"name":"cli.py","path":"src/cli.py"}]}`}, nil
		}}
		client := newClientForTest(testInstance, executor)

		searchResult, searchError := client.SearchCode(context.Background(), testRepositoryIdentifierConstant, "def main")

		require.NoError(testInstance, searchError)
		require.Equal(testInstance, 2, searchResult.TotalCount)
		require.Len(testInstance, searchResult.Matches, 2)
		require.Equal(testInstance, "src/app.py", searchResult.Matches[0].Path)
		require.Equal(testInstance, "search/code?q=def+main+repo%3Aowner%2Fexample", executor.recordedDetails[0].Arguments[1])
	})

	testInstance.Run("repository_validation", func(testInstance *testing.T) {
		client := newClientForTest(testInstance, &stubGitHubExecutor{})

		_, searchError := client.SearchCode(context.Background(), " ", "def main")

		require.Error(testInstance, searchError)
		require.IsType(testInstance, githubcli.InvalidInputError{}, searchError)
	})
}
