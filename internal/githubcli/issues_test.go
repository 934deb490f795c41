package githubcli_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ravdin/repolens/internal/execshell"
	"github.com/ravdin/repolens/internal/githubcli"
)

const testIssueNumberConstant = 7

func TestListOpenIssues(testInstance *testing.T) {
	testInstance.Run("list_success", func(testInstance *testing.T) {
		executor := &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
			return execshell.ExecutionResult{StandardOutput: `[{"number":7,"title":"Crash on startup","state":"OPEN"}]`}, nil
		}}
		client := newClientForTest(testInstance, executor)

		issues, listError := client.ListOpenIssues(context.Background(), testRepositoryIdentifierConstant)

		require.NoError(testInstance, listError)
		require.Len(testInstance, issues, 1)
		require.Equal(testInstance, testIssueNumberConstant, issues[0].Number)
		require.Equal(testInstance, "Crash on startup", issues[0].Title)
		require.Equal(testInstance, []string{
			"issue", "list",
			"--repo", testRepositoryIdentifierConstant,
			"--state", "open",
			"--json", "number,title,state",
			"--limit", "100",
		}, executor.recordedDetails[0].Arguments)
	})

	testInstance.Run("repository_validation", func(testInstance *testing.T) {
		client := newClientForTest(testInstance, &stubGitHubExecutor{})

		_, listError := client.ListOpenIssues(context.Background(), " ")

		require.Error(testInstance, listError)
		require.IsType(testInstance, githubcli.InvalidInputError{}, listError)
	})
}

func TestGetIssue(testInstance *testing.T) {
	testInstance.Run("view_success_with_labels", func(testInstance *testing.T) {
		executor := &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
			return execshell.ExecutionResult{StandardOutput: `{"number":7,"title":"Crash on startup","state":"OPEN","body":"Stack trace attached","labels":[{"name":"bug"},{"name":"help wanted"}]}`}, nil
		}}
		client := newClientForTest(testInstance, executor)

		issueDetails, viewError := client.GetIssue(context.Background(), testRepositoryIdentifierConstant, testIssueNumberConstant)

		require.NoError(testInstance, viewError)
		require.Equal(testInstance, "Stack trace attached", issueDetails.Body)
		require.Equal(testInstance, []string{"bug", "help wanted"}, issueDetails.Labels)
		require.Equal(testInstance, []string{
			"issue", "view", "7",
			"--repo", testRepositoryIdentifierConstant,
			"--json", "number,title,state,body,labels",
		}, executor.recordedDetails[0].Arguments)
	})

	testInstance.Run("non_positive_number", func(testInstance *testing.T) {
		client := newClientForTest(testInstance, &stubGitHubExecutor{})

		_, viewError := client.GetIssue(context.Background(), testRepositoryIdentifierConstant, 0)

		require.Error(testInstance, viewError)
		require.IsType(testInstance, githubcli.InvalidInputError{}, viewError)
	})
}

func TestCommentOnIssue(testInstance *testing.T) {
	testInstance.Run("comment_success", func(testInstance *testing.T) {
		executor := &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
			return execshell.ExecutionResult{StandardOutput: `{"id":9001,"html_url":"https://github.com/owner/example/issues/7#issuecomment-9001","body":"Thanks for the report"}`}, nil
		}}
		client := newClientForTest(testInstance, executor)

		createdComment, commentError := client.CommentOnIssue(context.Background(), testRepositoryIdentifierConstant, testIssueNumberConstant, "Thanks for the report")

		require.NoError(testInstance, commentError)
		require.Equal(testInstance, int64(9001), createdComment.Identifier)
		require.Equal(testInstance, "Thanks for the report", createdComment.Body)
		require.Equal(testInstance, fmt.Sprintf("repos/%s/issues/%d/comments", testRepositoryIdentifierConstant, testIssueNumberConstant), executor.recordedDetails[0].Arguments[1])
		require.Contains(testInstance, executor.recordedDetails[0].Arguments, "POST")
		require.JSONEq(testInstance, `{"body":"Thanks for the report"}`, string(executor.recordedDetails[0].StandardInput))
	})

	testInstance.Run("missing_body", func(testInstance *testing.T) {
		client := newClientForTest(testInstance, &stubGitHubExecutor{})

		_, commentError := client.CommentOnIssue(context.Background(), testRepositoryIdentifierConstant, testIssueNumberConstant, "   ")

		require.Error(testInstance, commentError)
		require.IsType(testInstance, githubcli.InvalidInputError{}, commentError)
	})
}
