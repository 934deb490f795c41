package toolkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ravdin/repolens/internal/githubcli"
)

const (
	getRepoInfoToolNameConstant          = "get_repo_info"
	listOpenIssuesToolNameConstant       = "list_open_issues"
	getIssueToolNameConstant             = "get_issue"
	commentOnIssueToolNameConstant       = "comment_on_issue"
	listOpenPullRequestsToolNameConstant = "list_open_pull_requests"
	getPullRequestToolNameConstant       = "get_pull_request"
	listPullRequestFilesToolNameConstant = "list_pull_request_files"
	createPullRequestToolNameConstant    = "create_pull_request"
	requestReviewToolNameConstant        = "request_review"
	readFileToolNameConstant             = "read_file"
	createFileToolNameConstant           = "create_file"
	updateFileToolNameConstant           = "update_file"
	deleteFileToolNameConstant           = "delete_file"
	listDirectoryToolNameConstant        = "list_directory"
	listBranchesToolNameConstant         = "list_branches"
	createBranchToolNameConstant         = "create_branch"
	setActiveBranchToolNameConstant      = "set_active_branch"
	getActiveBranchToolNameConstant      = "get_active_branch"
	searchIssuesToolNameConstant         = "search_issues"
	searchCodeToolNameConstant           = "search_code"
)

const (
	issueNumberArgumentNameConstant       = "issue_number"
	commentArgumentNameConstant           = "comment"
	pullRequestNumberArgumentNameConstant = "pr_number"
	titleArgumentNameConstant             = "title"
	bodyArgumentNameConstant              = "body"
	reviewerArgumentNameConstant          = "reviewer"
	filePathArgumentNameConstant          = "file_path"
	contentArgumentNameConstant           = "content"
	commitMessageArgumentNameConstant     = "commit_message"
	directoryPathArgumentNameConstant     = "directory_path"
	branchNameArgumentNameConstant        = "branch_name"
	queryArgumentNameConstant             = "query"
)

const (
	reviewRequestedOutputTemplateConstant = "review requested from %s on pull request #%d"
	activeBranchSetOutputTemplateConstant = "active branch set to %s"
	gatewayRequiredMessageConstant        = "github gateway required"
	sessionRequiredMessageConstant        = "session required"
)

// ErrGatewayNotConfigured indicates tool construction without a gateway.
var ErrGatewayNotConfigured = errors.New(gatewayRequiredMessageConstant)

// ErrSessionNotConfigured indicates tool construction without a session.
var ErrSessionNotConfigured = errors.New(sessionRequiredMessageConstant)

// GitHubGateway captures the githubcli client surface the tool set drives.
type GitHubGateway interface {
	ResolveRepoMetadata(executionContext context.Context, repository string) (githubcli.RepositoryMetadata, error)
	ListOpenIssues(executionContext context.Context, repository string) ([]githubcli.Issue, error)
	GetIssue(executionContext context.Context, repository string, issueNumber int) (githubcli.IssueDetails, error)
	CommentOnIssue(executionContext context.Context, repository string, issueNumber int, commentBody string) (githubcli.IssueComment, error)
	ListPullRequests(executionContext context.Context, repository string, options githubcli.PullRequestListOptions) ([]githubcli.PullRequest, error)
	GetPullRequest(executionContext context.Context, repository string, pullRequestNumber int) (githubcli.PullRequestDetails, error)
	ListPullRequestFiles(executionContext context.Context, repository string, pullRequestNumber int) ([]githubcli.PullRequestFile, error)
	CreatePullRequest(executionContext context.Context, repository string, input githubcli.CreatePullRequestInput) (string, error)
	CreateReviewRequest(executionContext context.Context, repository string, pullRequestNumber int, reviewer string) error
	ReadFile(executionContext context.Context, repository string, filePath string, branchName string) (string, error)
	CreateFile(executionContext context.Context, repository string, input githubcli.FileMutationInput) (githubcli.FileMutationResult, error)
	UpdateFile(executionContext context.Context, repository string, input githubcli.FileMutationInput) (githubcli.FileMutationResult, error)
	DeleteFile(executionContext context.Context, repository string, input githubcli.FileMutationInput) (githubcli.FileMutationResult, error)
	ListDirectory(executionContext context.Context, repository string, directoryPath string, branchName string) ([]githubcli.DirectoryEntry, error)
	ListBranches(executionContext context.Context, repository string) ([]githubcli.Branch, error)
	CreateBranch(executionContext context.Context, repository string, branchName string, sourceBranch string) (githubcli.BranchReference, error)
	SearchIssues(executionContext context.Context, repository string, searchQuery string) (githubcli.IssueSearchResult, error)
	SearchCode(executionContext context.Context, repository string, searchQuery string) (githubcli.CodeSearchResult, error)
}

type githubToolSet struct {
	gateway GitHubGateway
	session *Session
}

// NewGitHubRegistry builds the registry holding every GitHub tool.
func NewGitHubRegistry(gateway GitHubGateway, session *Session) (*Registry, error) {
	toolDefinitions, buildError := BuildGitHubTools(gateway, session)
	if buildError != nil {
		return nil, buildError
	}
	registry := NewRegistry()
	for _, toolDefinition := range toolDefinitions {
		if registerError := registry.Register(toolDefinition); registerError != nil {
			return nil, registerError
		}
	}
	return registry, nil
}

// BuildGitHubTools assembles the GitHub tool definitions in menu order.
// File and branch operations default to the session's active branch.
func BuildGitHubTools(gateway GitHubGateway, session *Session) ([]ToolDefinition, error) {
	if gateway == nil {
		return nil, ErrGatewayNotConfigured
	}
	if session == nil {
		return nil, ErrSessionNotConfigured
	}

	toolSet := &githubToolSet{gateway: gateway, session: session}
	return []ToolDefinition{
		{
			Name:        getRepoInfoToolNameConstant,
			Description: "Show repository metadata",
			Run:         toolSet.runGetRepoInfo,
		},
		{
			Name:        listOpenIssuesToolNameConstant,
			Description: "List open issues",
			Run:         toolSet.runListOpenIssues,
		},
		{
			Name:        getIssueToolNameConstant,
			Description: "Show one issue with body and labels",
			Arguments: []ArgumentField{
				{Name: issueNumberArgumentNameConstant, Description: "Issue number", Kind: ArgumentKindInt, Required: true},
			},
			Run: toolSet.runGetIssue,
		},
		{
			Name:        commentOnIssueToolNameConstant,
			Description: "Comment on an issue",
			Arguments: []ArgumentField{
				{Name: issueNumberArgumentNameConstant, Description: "Issue number", Kind: ArgumentKindInt, Required: true},
				{Name: commentArgumentNameConstant, Description: "Comment body", Kind: ArgumentKindString, Required: true},
			},
			Run: toolSet.runCommentOnIssue,
		},
		{
			Name:        listOpenPullRequestsToolNameConstant,
			Description: "List open pull requests",
			Run:         toolSet.runListOpenPullRequests,
		},
		{
			Name:        getPullRequestToolNameConstant,
			Description: "Show one pull request",
			Arguments: []ArgumentField{
				{Name: pullRequestNumberArgumentNameConstant, Description: "Pull request number", Kind: ArgumentKindInt, Required: true},
			},
			Run: toolSet.runGetPullRequest,
		},
		{
			Name:        listPullRequestFilesToolNameConstant,
			Description: "List files changed in a pull request",
			Arguments: []ArgumentField{
				{Name: pullRequestNumberArgumentNameConstant, Description: "Pull request number", Kind: ArgumentKindInt, Required: true},
			},
			Run: toolSet.runListPullRequestFiles,
		},
		{
			Name:        createPullRequestToolNameConstant,
			Description: "Open a pull request from the active branch",
			Arguments: []ArgumentField{
				{Name: titleArgumentNameConstant, Description: "Pull request title", Kind: ArgumentKindString, Required: true},
				{Name: bodyArgumentNameConstant, Description: "Pull request body", Kind: ArgumentKindString},
			},
			Run: toolSet.runCreatePullRequest,
		},
		{
			Name:        requestReviewToolNameConstant,
			Description: "Request a pull request review",
			Arguments: []ArgumentField{
				{Name: pullRequestNumberArgumentNameConstant, Description: "Pull request number", Kind: ArgumentKindInt, Required: true},
				{Name: reviewerArgumentNameConstant, Description: "Reviewer login", Kind: ArgumentKindString, Required: true},
			},
			Run: toolSet.runRequestReview,
		},
		{
			Name:        readFileToolNameConstant,
			Description: "Read a file from the active branch",
			Arguments: []ArgumentField{
				{Name: filePathArgumentNameConstant, Description: "File path", Kind: ArgumentKindString, Required: true},
			},
			Run: toolSet.runReadFile,
		},
		{
			Name:        createFileToolNameConstant,
			Description: "Create a file on the active branch",
			Arguments: []ArgumentField{
				{Name: filePathArgumentNameConstant, Description: "File path", Kind: ArgumentKindString, Required: true},
				{Name: contentArgumentNameConstant, Description: "File content", Kind: ArgumentKindString, Required: true},
				{Name: commitMessageArgumentNameConstant, Description: "Commit message", Kind: ArgumentKindString, Required: true},
			},
			Run: toolSet.runCreateFile,
		},
		{
			Name:        updateFileToolNameConstant,
			Description: "Update a file on the active branch",
			Arguments: []ArgumentField{
				{Name: filePathArgumentNameConstant, Description: "File path", Kind: ArgumentKindString, Required: true},
				{Name: contentArgumentNameConstant, Description: "Replacement content", Kind: ArgumentKindString, Required: true},
				{Name: commitMessageArgumentNameConstant, Description: "Commit message", Kind: ArgumentKindString, Required: true},
			},
			Run: toolSet.runUpdateFile,
		},
		{
			Name:        deleteFileToolNameConstant,
			Description: "Delete a file from the active branch",
			Arguments: []ArgumentField{
				{Name: filePathArgumentNameConstant, Description: "File path", Kind: ArgumentKindString, Required: true},
				{Name: commitMessageArgumentNameConstant, Description: "Commit message", Kind: ArgumentKindString, Required: true},
			},
			Run: toolSet.runDeleteFile,
		},
		{
			Name:        listDirectoryToolNameConstant,
			Description: "List a directory on the active branch",
			Arguments: []ArgumentField{
				{Name: directoryPathArgumentNameConstant, Description: "Directory path, blank for the repository root", Kind: ArgumentKindString},
			},
			Run: toolSet.runListDirectory,
		},
		{
			Name:        listBranchesToolNameConstant,
			Description: "List repository branches",
			Run:         toolSet.runListBranches,
		},
		{
			Name:        createBranchToolNameConstant,
			Description: "Create a branch from the active branch",
			Arguments: []ArgumentField{
				{Name: branchNameArgumentNameConstant, Description: "New branch name", Kind: ArgumentKindString, Required: true},
			},
			Run: toolSet.runCreateBranch,
		},
		{
			Name:        setActiveBranchToolNameConstant,
			Description: "Switch the active branch",
			Arguments: []ArgumentField{
				{Name: branchNameArgumentNameConstant, Description: "Existing branch name", Kind: ArgumentKindString, Required: true},
			},
			Run: toolSet.runSetActiveBranch,
		},
		{
			Name:        getActiveBranchToolNameConstant,
			Description: "Show the active branch",
			Run:         toolSet.runGetActiveBranch,
		},
		{
			Name:        searchIssuesToolNameConstant,
			Description: "Search issues and pull requests",
			Arguments: []ArgumentField{
				{Name: queryArgumentNameConstant, Description: "Search query", Kind: ArgumentKindString, Required: true},
			},
			Run: toolSet.runSearchIssues,
		},
		{
			Name:        searchCodeToolNameConstant,
			Description: "Search code",
			Arguments: []ArgumentField{
				{Name: queryArgumentNameConstant, Description: "Search query", Kind: ArgumentKindString, Required: true},
			},
			Run: toolSet.runSearchCode,
		},
	}, nil
}

func (toolSet *githubToolSet) runGetRepoInfo(executionContext context.Context, _ ArgumentValues) (string, error) {
	repositoryMetadata, metadataError := toolSet.gateway.ResolveRepoMetadata(executionContext, toolSet.session.Repository())
	if metadataError != nil {
		return "", metadataError
	}
	return renderJSONOutput(repositoryMetadata)
}

func (toolSet *githubToolSet) runListOpenIssues(executionContext context.Context, _ ArgumentValues) (string, error) {
	openIssues, listError := toolSet.gateway.ListOpenIssues(executionContext, toolSet.session.Repository())
	if listError != nil {
		return "", listError
	}
	return renderJSONOutput(openIssues)
}

func (toolSet *githubToolSet) runGetIssue(executionContext context.Context, argumentValues ArgumentValues) (string, error) {
	issueDetails, issueError := toolSet.gateway.GetIssue(
		executionContext,
		toolSet.session.Repository(),
		intArgument(argumentValues, issueNumberArgumentNameConstant),
	)
	if issueError != nil {
		return "", issueError
	}
	return renderJSONOutput(issueDetails)
}

func (toolSet *githubToolSet) runCommentOnIssue(executionContext context.Context, argumentValues ArgumentValues) (string, error) {
	issueComment, commentError := toolSet.gateway.CommentOnIssue(
		executionContext,
		toolSet.session.Repository(),
		intArgument(argumentValues, issueNumberArgumentNameConstant),
		stringArgument(argumentValues, commentArgumentNameConstant),
	)
	if commentError != nil {
		return "", commentError
	}
	return renderJSONOutput(issueComment)
}

func (toolSet *githubToolSet) runListOpenPullRequests(executionContext context.Context, _ ArgumentValues) (string, error) {
	openPullRequests, listError := toolSet.gateway.ListPullRequests(
		executionContext,
		toolSet.session.Repository(),
		githubcli.PullRequestListOptions{State: githubcli.PullRequestStateOpen},
	)
	if listError != nil {
		return "", listError
	}
	return renderJSONOutput(openPullRequests)
}

func (toolSet *githubToolSet) runGetPullRequest(executionContext context.Context, argumentValues ArgumentValues) (string, error) {
	pullRequestDetails, detailsError := toolSet.gateway.GetPullRequest(
		executionContext,
		toolSet.session.Repository(),
		intArgument(argumentValues, pullRequestNumberArgumentNameConstant),
	)
	if detailsError != nil {
		return "", detailsError
	}
	return renderJSONOutput(pullRequestDetails)
}

func (toolSet *githubToolSet) runListPullRequestFiles(executionContext context.Context, argumentValues ArgumentValues) (string, error) {
	changedFiles, listError := toolSet.gateway.ListPullRequestFiles(
		executionContext,
		toolSet.session.Repository(),
		intArgument(argumentValues, pullRequestNumberArgumentNameConstant),
	)
	if listError != nil {
		return "", listError
	}
	return renderJSONOutput(changedFiles)
}

func (toolSet *githubToolSet) runCreatePullRequest(executionContext context.Context, argumentValues ArgumentValues) (string, error) {
	pullRequestURL, createError := toolSet.gateway.CreatePullRequest(
		executionContext,
		toolSet.session.Repository(),
		githubcli.CreatePullRequestInput{
			Title:      stringArgument(argumentValues, titleArgumentNameConstant),
			Body:       stringArgument(argumentValues, bodyArgumentNameConstant),
			HeadBranch: toolSet.session.ActiveBranch(),
		},
	)
	if createError != nil {
		return "", createError
	}
	return pullRequestURL, nil
}

func (toolSet *githubToolSet) runRequestReview(executionContext context.Context, argumentValues ArgumentValues) (string, error) {
	pullRequestNumber := intArgument(argumentValues, pullRequestNumberArgumentNameConstant)
	reviewerLogin := stringArgument(argumentValues, reviewerArgumentNameConstant)
	requestError := toolSet.gateway.CreateReviewRequest(
		executionContext,
		toolSet.session.Repository(),
		pullRequestNumber,
		reviewerLogin,
	)
	if requestError != nil {
		return "", requestError
	}
	return fmt.Sprintf(reviewRequestedOutputTemplateConstant, reviewerLogin, pullRequestNumber), nil
}

func (toolSet *githubToolSet) runReadFile(executionContext context.Context, argumentValues ArgumentValues) (string, error) {
	return toolSet.gateway.ReadFile(
		executionContext,
		toolSet.session.Repository(),
		stringArgument(argumentValues, filePathArgumentNameConstant),
		toolSet.session.ActiveBranch(),
	)
}

func (toolSet *githubToolSet) runCreateFile(executionContext context.Context, argumentValues ArgumentValues) (string, error) {
	mutationResult, mutationError := toolSet.gateway.CreateFile(
		executionContext,
		toolSet.session.Repository(),
		toolSet.buildFileMutationInput(argumentValues),
	)
	if mutationError != nil {
		return "", mutationError
	}
	return renderJSONOutput(mutationResult)
}

func (toolSet *githubToolSet) runUpdateFile(executionContext context.Context, argumentValues ArgumentValues) (string, error) {
	mutationResult, mutationError := toolSet.gateway.UpdateFile(
		executionContext,
		toolSet.session.Repository(),
		toolSet.buildFileMutationInput(argumentValues),
	)
	if mutationError != nil {
		return "", mutationError
	}
	return renderJSONOutput(mutationResult)
}

func (toolSet *githubToolSet) runDeleteFile(executionContext context.Context, argumentValues ArgumentValues) (string, error) {
	mutationResult, mutationError := toolSet.gateway.DeleteFile(
		executionContext,
		toolSet.session.Repository(),
		toolSet.buildFileMutationInput(argumentValues),
	)
	if mutationError != nil {
		return "", mutationError
	}
	return renderJSONOutput(mutationResult)
}

func (toolSet *githubToolSet) buildFileMutationInput(argumentValues ArgumentValues) githubcli.FileMutationInput {
	return githubcli.FileMutationInput{
		Path:          stringArgument(argumentValues, filePathArgumentNameConstant),
		Branch:        toolSet.session.ActiveBranch(),
		CommitMessage: stringArgument(argumentValues, commitMessageArgumentNameConstant),
		Content:       stringArgument(argumentValues, contentArgumentNameConstant),
	}
}

func (toolSet *githubToolSet) runListDirectory(executionContext context.Context, argumentValues ArgumentValues) (string, error) {
	directoryEntries, listError := toolSet.gateway.ListDirectory(
		executionContext,
		toolSet.session.Repository(),
		stringArgument(argumentValues, directoryPathArgumentNameConstant),
		toolSet.session.ActiveBranch(),
	)
	if listError != nil {
		return "", listError
	}
	return renderJSONOutput(directoryEntries)
}

func (toolSet *githubToolSet) runListBranches(executionContext context.Context, _ ArgumentValues) (string, error) {
	branches, listError := toolSet.gateway.ListBranches(executionContext, toolSet.session.Repository())
	if listError != nil {
		return "", listError
	}
	return renderJSONOutput(branches)
}

func (toolSet *githubToolSet) runCreateBranch(executionContext context.Context, argumentValues ArgumentValues) (string, error) {
	branchName := strings.TrimSpace(stringArgument(argumentValues, branchNameArgumentNameConstant))
	branchReference, createError := toolSet.gateway.CreateBranch(
		executionContext,
		toolSet.session.Repository(),
		branchName,
		toolSet.session.ActiveBranch(),
	)
	if createError != nil {
		return "", createError
	}
	toolSet.session.adoptBranch(branchName)
	return renderJSONOutput(branchReference)
}

func (toolSet *githubToolSet) runSetActiveBranch(executionContext context.Context, argumentValues ArgumentValues) (string, error) {
	switchError := toolSet.session.SetActiveBranch(executionContext, stringArgument(argumentValues, branchNameArgumentNameConstant))
	if switchError != nil {
		return "", switchError
	}
	return fmt.Sprintf(activeBranchSetOutputTemplateConstant, toolSet.session.ActiveBranch()), nil
}

func (toolSet *githubToolSet) runGetActiveBranch(_ context.Context, _ ArgumentValues) (string, error) {
	return toolSet.session.ActiveBranch(), nil
}

func (toolSet *githubToolSet) runSearchIssues(executionContext context.Context, argumentValues ArgumentValues) (string, error) {
	searchResult, searchError := toolSet.gateway.SearchIssues(
		executionContext,
		toolSet.session.Repository(),
		stringArgument(argumentValues, queryArgumentNameConstant),
	)
	if searchError != nil {
		return "", searchError
	}
	return renderJSONOutput(searchResult)
}

func (toolSet *githubToolSet) runSearchCode(executionContext context.Context, argumentValues ArgumentValues) (string, error) {
	searchResult, searchError := toolSet.gateway.SearchCode(
		executionContext,
		toolSet.session.Repository(),
		stringArgument(argumentValues, queryArgumentNameConstant),
	)
	if searchError != nil {
		return "", searchError
	}
	return renderJSONOutput(searchResult)
}

func stringArgument(argumentValues ArgumentValues, argumentName string) string {
	stringValue, _ := argumentValues[argumentName].(string)
	return stringValue
}

func intArgument(argumentValues ArgumentValues, argumentName string) int {
	switch typedValue := argumentValues[argumentName].(type) {
	case int:
		return typedValue
	case float64:
		return int(typedValue)
	}
	return 0
}

func renderJSONOutput(payload any) (string, error) {
	encodedPayload, encodingError := json.Marshal(payload)
	if encodingError != nil {
		return "", encodingError
	}
	return string(encodedPayload), nil
}
