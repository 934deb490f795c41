package githubcli_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ravdin/repolens/internal/execshell"
	"github.com/ravdin/repolens/internal/githubcli"
)

const (
	testFilePathConstant      = "src/app.py"
	testWorkBranchConstant    = "feature/example"
	testCommitMessageConstant = "Update app module"
	testBlobSHAConstant       = "abc123"
	testCommitSHAConstant     = "def456"
)

func TestReadFile(testInstance *testing.T) {
	testInstance.Run("read_success", func(testInstance *testing.T) {
		executor := &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
			return execshell.ExecutionResult{StandardOutput: "print('hello')\n"}, nil
		}}
		client := newClientForTest(testInstance, executor)

		fileContent, readError := client.ReadFile(context.Background(), testRepositoryIdentifierConstant, testFilePathConstant, testWorkBranchConstant)

		require.NoError(testInstance, readError)
		require.Equal(testInstance, "print('hello')\n", fileContent)
		require.Equal(testInstance, []string{
			"api",
			"repos/owner/example/contents/src/app.py?ref=feature%2Fexample",
			"-H", "Accept: application/vnd.github.raw",
		}, executor.recordedDetails[0].Arguments)
	})

	testInstance.Run("read_without_branch_omits_ref", func(testInstance *testing.T) {
		executor := &stubGitHubExecutor{}
		client := newClientForTest(testInstance, executor)

		_, readError := client.ReadFile(context.Background(), testRepositoryIdentifierConstant, testFilePathConstant, "")

		require.NoError(testInstance, readError)
		require.Equal(testInstance, "repos/owner/example/contents/src/app.py", executor.recordedDetails[0].Arguments[1])
	})

	testInstance.Run("missing_path", func(testInstance *testing.T) {
		client := newClientForTest(testInstance, &stubGitHubExecutor{})

		_, readError := client.ReadFile(context.Background(), testRepositoryIdentifierConstant, "  ", testWorkBranchConstant)

		require.Error(testInstance, readError)
		require.IsType(testInstance, githubcli.InvalidInputError{}, readError)
	})
}

func TestCreateFile(testInstance *testing.T) {
	testInstance.Run("create_success", func(testInstance *testing.T) {
		executor := &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
			return execshell.ExecutionResult{StandardOutput: `{"content":{"sha":"abc123"},"commit":{"sha":"def456"}}`}, nil
		}}
		client := newClientForTest(testInstance, executor)

		mutationResult, createError := client.CreateFile(context.Background(), testRepositoryIdentifierConstant, githubcli.FileMutationInput{
			Path:          testFilePathConstant,
			Branch:        testWorkBranchConstant,
			CommitMessage: testCommitMessageConstant,
			Content:       "print('hello')\n",
		})

		require.NoError(testInstance, createError)
		require.Equal(testInstance, testBlobSHAConstant, mutationResult.ContentSHA)
		require.Equal(testInstance, testCommitSHAConstant, mutationResult.CommitSHA)
		require.Len(testInstance, executor.recordedDetails, 1)
		require.Contains(testInstance, executor.recordedDetails[0].Arguments, "PUT")

		var payload struct {
			Message string `json:"message"`
			Content string `json:"content"`
			Branch  string `json:"branch"`
		}
		require.NoError(testInstance, json.Unmarshal(executor.recordedDetails[0].StandardInput, &payload))
		require.Equal(testInstance, testCommitMessageConstant, payload.Message)
		require.Equal(testInstance, testWorkBranchConstant, payload.Branch)

		decodedContent, decodeError := base64.StdEncoding.DecodeString(payload.Content)
		require.NoError(testInstance, decodeError)
		require.Equal(testInstance, "print('hello')\n", string(decodedContent))
	})

	testInstance.Run("missing_commit_message", func(testInstance *testing.T) {
		client := newClientForTest(testInstance, &stubGitHubExecutor{})

		_, createError := client.CreateFile(context.Background(), testRepositoryIdentifierConstant, githubcli.FileMutationInput{Path: testFilePathConstant})

		require.Error(testInstance, createError)
		require.IsType(testInstance, githubcli.InvalidInputError{}, createError)
	})
}

func TestUpdateFile(testInstance *testing.T) {
	testInstance.Run("update_resolves_sha_first", func(testInstance *testing.T) {
		executor := &stubGitHubExecutor{executeFunc: func(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
			if len(details.StandardInput) == 0 {
				return execshell.ExecutionResult{StandardOutput: `{"sha":"abc123"}`}, nil
			}
			return execshell.ExecutionResult{StandardOutput: `{"content":{"sha":"abc124"},"commit":{"sha":"def457"}}`}, nil
		}}
		client := newClientForTest(testInstance, executor)

		mutationResult, updateError := client.UpdateFile(context.Background(), testRepositoryIdentifierConstant, githubcli.FileMutationInput{
			Path:          testFilePathConstant,
			Branch:        testWorkBranchConstant,
			CommitMessage: testCommitMessageConstant,
			Content:       "print('updated')\n",
		})

		require.NoError(testInstance, updateError)
		require.Equal(testInstance, "abc124", mutationResult.ContentSHA)
		require.Len(testInstance, executor.recordedDetails, 2)
		require.Contains(testInstance, executor.recordedDetails[0].Arguments[1], "?ref=")

		var payload struct {
			SHA string `json:"sha"`
		}
		require.NoError(testInstance, json.Unmarshal(executor.recordedDetails[1].StandardInput, &payload))
		require.Equal(testInstance, testBlobSHAConstant, payload.SHA)
	})
}

func TestDeleteFile(testInstance *testing.T) {
	testInstance.Run("delete_resolves_sha_first", func(testInstance *testing.T) {
		executor := &stubGitHubExecutor{executeFunc: func(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
			if len(details.StandardInput) == 0 {
				return execshell.ExecutionResult{StandardOutput: `{"sha":"abc123"}`}, nil
			}
			return execshell.ExecutionResult{StandardOutput: `{"content":null,"commit":{"sha":"def458"}}`}, nil
		}}
		client := newClientForTest(testInstance, executor)

		mutationResult, deleteError := client.DeleteFile(context.Background(), testRepositoryIdentifierConstant, githubcli.FileMutationInput{
			Path:          testFilePathConstant,
			Branch:        testWorkBranchConstant,
			CommitMessage: testCommitMessageConstant,
		})

		require.NoError(testInstance, deleteError)
		require.Equal(testInstance, "def458", mutationResult.CommitSHA)
		require.Len(testInstance, executor.recordedDetails, 2)
		require.Contains(testInstance, executor.recordedDetails[1].Arguments, "DELETE")

		var payload struct {
			Message string `json:"message"`
			SHA     string `json:"sha"`
		}
		require.NoError(testInstance, json.Unmarshal(executor.recordedDetails[1].StandardInput, &payload))
		require.Equal(testInstance, testBlobSHAConstant, payload.SHA)
		require.Equal(testInstance, testCommitMessageConstant, payload.Message)
	})
}

func TestListDirectory(testInstance *testing.T) {
	testInstance.Run("list_success", func(testInstance *testing.T) {
		executor := &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
			return execshell.ExecutionResult{StandardOutput: `[{"name":"app.py","path":"src/app.py","type":"file","size":120},{"name":"lib","path":"src/lib","type":"dir","size":0}]`}, nil
		}}
		client := newClientForTest(testInstance, executor)

		directoryEntries, listError := client.ListDirectory(context.Background(), testRepositoryIdentifierConstant, "src", testWorkBranchConstant)

		require.NoError(testInstance, listError)
		require.Len(testInstance, directoryEntries, 2)
		require.Equal(testInstance, "app.py", directoryEntries[0].Name)
		require.Equal(testInstance, "dir", directoryEntries[1].Type)
	})

	testInstance.Run("empty_path_lists_root", func(testInstance *testing.T) {
		executor := &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
			return execshell.ExecutionResult{StandardOutput: `[]`}, nil
		}}
		client := newClientForTest(testInstance, executor)

		_, listError := client.ListDirectory(context.Background(), testRepositoryIdentifierConstant, "", "")

		require.NoError(testInstance, listError)
		require.Equal(testInstance, "repos/owner/example/contents", executor.recordedDetails[0].Arguments[1])
	})
}
