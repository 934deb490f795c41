package githubcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ravdin/repolens/internal/execshell"
)

const (
	repoSubcommandConstant                    = "repo"
	viewSubcommandConstant                    = "view"
	pullRequestSubcommandConstant             = "pr"
	issueSubcommandConstant                   = "issue"
	listSubcommandConstant                    = "list"
	createSubcommandConstant                  = "create"
	apiSubcommandConstant                     = "api"
	jsonFlagConstant                          = "--json"
	repoFlagConstant                          = "--repo"
	stateFlagConstant                         = "--state"
	baseFlagConstant                          = "--base"
	headFlagConstant                          = "--head"
	titleFlagConstant                         = "--title"
	bodyFlagConstant                          = "--body"
	limitFlagConstant                         = "--limit"
	methodFlagConstant                        = "-X"
	inputFlagConstant                         = "--input"
	stdinReferenceConstant                    = "-"
	acceptHeaderFlagConstant                  = "-H"
	acceptHeaderValueConstant                 = "Accept: application/vnd.github+json"
	httpMethodPostConstant                    = "POST"
	httpMethodPutConstant                     = "PUT"
	httpMethodDeleteConstant                  = "DELETE"
	repositoryFieldNameConstant               = "repository"
	stateFieldNameConstant                    = "state"
	issueNumberFieldNameConstant              = "issue_number"
	pullRequestNumberFieldNameConstant        = "pull_request_number"
	commentBodyFieldNameConstant              = "comment_body"
	titleFieldNameConstant                    = "title"
	headBranchFieldNameConstant               = "head_branch"
	reviewerFieldNameConstant                 = "reviewer"
	requiredValueMessageConstant              = "value required"
	positiveValueMessageConstant              = "must be a positive integer"
	executorNotConfiguredMessageConstant      = "github cli executor not configured"
	pullRequestLimitDefaultValueConstant      = 100
	pullRequestJSONFieldsConstant             = "number,title,headRefName"
	pullRequestViewJSONFieldsConstant         = "number,title,state,body,baseRefName,headRefName"
	repoViewJSONFieldsConstant                = "defaultBranchRef,nameWithOwner,description"
	operationErrorMessageTemplateConstant     = "%s operation failed"
	operationErrorWithCauseTemplateConstant   = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant     = "%s response decoding failed: %s"
	payloadEncodingErrorTemplateConstant      = "%s payload encoding failed: %s"
	invalidInputErrorTemplateConstant         = "%s: %s"
	pullFilesEndpointTemplateConstant         = "repos/%s/pulls/%d/files"
	reviewRequestEndpointTemplateConstant     = "repos/%s/pulls/%d/requested_reviewers"
	repositoryMetadataOperationNameConstant   = OperationName("ResolveRepoMetadata")
	listPullRequestsOperationNameConstant     = OperationName("ListPullRequests")
	getPullRequestOperationNameConstant       = OperationName("GetPullRequest")
	listPullRequestFilesOperationNameConstant = OperationName("ListPullRequestFiles")
	createPullRequestOperationNameConstant    = OperationName("CreatePullRequest")
	createReviewRequestOperationNameConstant  = OperationName("CreateReviewRequest")
)

// OperationName describes a named GitHub CLI workflow supported by the client.
type OperationName string

// PullRequestState describes acceptable GitHub pull request states.
type PullRequestState string

// Pull request state enumerations.
const (
	PullRequestStateOpen   PullRequestState = PullRequestState("open")
	PullRequestStateClosed PullRequestState = PullRequestState("closed")
	PullRequestStateMerged PullRequestState = PullRequestState("merged")
)

// RepositoryMetadata contains key details resolved from GitHub.
type RepositoryMetadata struct {
	NameWithOwner string
	Description   string
	DefaultBranch string
}

// PullRequest represents minimal PR details returned by GitHub CLI.
type PullRequest struct {
	Number      int
	Title       string
	HeadRefName string
}

// PullRequestDetails carries the full pull request view used by reviews.
type PullRequestDetails struct {
	Number      int
	Title       string
	State       string
	Body        string
	BaseRefName string
	HeadRefName string
}

// PullRequestFile describes one changed file inside a pull request.
type PullRequestFile struct {
	Filename  string
	Status    string
	Additions int
	Deletions int
}

// PullRequestListOptions configures ListPullRequests queries.
type PullRequestListOptions struct {
	State       PullRequestState
	BaseBranch  string
	ResultLimit int
}

// CreatePullRequestInput carries the fields required to open a pull request.
type CreatePullRequestInput struct {
	Title      string
	Body       string
	HeadBranch string
	BaseBranch string
}

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates GitHub CLI invocations through execshell.
type Client struct {
	executor GitHubCommandExecutor
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// PayloadEncodingError indicates JSON encoding issues.
type PayloadEncodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the encoding failure.
func (encodingError PayloadEncodingError) Error() string {
	return fmt.Sprintf(payloadEncodingErrorTemplateConstant, encodingError.Operation, encodingError.Cause)
}

// Unwrap exposes the underlying error.
func (encodingError PayloadEncodingError) Unwrap() error {
	return encodingError.Cause
}

// NewClient constructs a GitHub CLI client.
func NewClient(executor GitHubCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

func validateRepositoryIdentifier(repository string) (string, error) {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return "", InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	return repositoryIdentifier, nil
}

func validateRequiredField(fieldName string, fieldValue string) (string, error) {
	trimmedValue := strings.TrimSpace(fieldValue)
	if len(trimmedValue) == 0 {
		return "", InvalidInputError{FieldName: fieldName, Message: requiredValueMessageConstant}
	}
	return trimmedValue, nil
}

func validatePositiveNumber(fieldName string, fieldValue int) error {
	if fieldValue <= 0 {
		return InvalidInputError{FieldName: fieldName, Message: positiveValueMessageConstant}
	}
	return nil
}

func (client *Client) runGitHubCLI(executionContext context.Context, operation OperationName, commandDetails execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return execshell.ExecutionResult{}, OperationError{Operation: operation, Cause: executionError}
	}
	return executionResult, nil
}

func decodeJSONResponse(operation OperationName, payload string, target any) error {
	decodingError := json.Unmarshal([]byte(payload), target)
	if decodingError != nil {
		return ResponseDecodingError{Operation: operation, Cause: decodingError}
	}
	return nil
}

func encodeJSONPayload(operation OperationName, payload any) ([]byte, error) {
	payloadBytes, encodingError := json.Marshal(payload)
	if encodingError != nil {
		return nil, PayloadEncodingError{Operation: operation, Cause: encodingError}
	}
	return payloadBytes, nil
}

// ResolveRepoMetadata retrieves canonical metadata for a repository using gh repo view.
func (client *Client) ResolveRepoMetadata(executionContext context.Context, repository string) (RepositoryMetadata, error) {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return RepositoryMetadata{}, validationError
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			repoSubcommandConstant,
			viewSubcommandConstant,
			repositoryIdentifier,
			jsonFlagConstant,
			repoViewJSONFieldsConstant,
		},
	}

	executionResult, executionError := client.runGitHubCLI(executionContext, repositoryMetadataOperationNameConstant, commandDetails)
	if executionError != nil {
		return RepositoryMetadata{}, executionError
	}

	var response struct {
		NameWithOwner    string `json:"nameWithOwner"`
		Description      string `json:"description"`
		DefaultBranchRef struct {
			Name string `json:"name"`
		} `json:"defaultBranchRef"`
	}

	decodingError := decodeJSONResponse(repositoryMetadataOperationNameConstant, executionResult.StandardOutput, &response)
	if decodingError != nil {
		return RepositoryMetadata{}, decodingError
	}

	return RepositoryMetadata{
		NameWithOwner: response.NameWithOwner,
		Description:   response.Description,
		DefaultBranch: response.DefaultBranchRef.Name,
	}, nil
}

// ListPullRequests enumerates pull requests using gh pr list. An empty base
// branch leaves the base filter off so every pull request in the state shows.
func (client *Client) ListPullRequests(executionContext context.Context, repository string, options PullRequestListOptions) ([]PullRequest, error) {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return nil, validationError
	}

	if len(options.State) == 0 {
		return nil, InvalidInputError{FieldName: stateFieldNameConstant, Message: requiredValueMessageConstant}
	}

	resultLimit := options.ResultLimit
	if resultLimit <= 0 {
		resultLimit = pullRequestLimitDefaultValueConstant
	}

	arguments := []string{
		pullRequestSubcommandConstant,
		listSubcommandConstant,
		repoFlagConstant,
		repositoryIdentifier,
		stateFlagConstant,
		string(options.State),
	}
	trimmedBaseBranch := strings.TrimSpace(options.BaseBranch)
	if len(trimmedBaseBranch) > 0 {
		arguments = append(arguments, baseFlagConstant, trimmedBaseBranch)
	}
	arguments = append(arguments, jsonFlagConstant, pullRequestJSONFieldsConstant, limitFlagConstant, strconv.Itoa(resultLimit))

	executionResult, executionError := client.runGitHubCLI(executionContext, listPullRequestsOperationNameConstant, execshell.CommandDetails{Arguments: arguments})
	if executionError != nil {
		return nil, executionError
	}

	var response []struct {
		Number      int    `json:"number"`
		Title       string `json:"title"`
		HeadRefName string `json:"headRefName"`
	}

	decodingError := decodeJSONResponse(listPullRequestsOperationNameConstant, executionResult.StandardOutput, &response)
	if decodingError != nil {
		return nil, decodingError
	}

	pullRequests := make([]PullRequest, 0, len(response))
	for _, pullRequestEntry := range response {
		pullRequests = append(pullRequests, PullRequest{
			Number:      pullRequestEntry.Number,
			Title:       pullRequestEntry.Title,
			HeadRefName: pullRequestEntry.HeadRefName,
		})
	}

	return pullRequests, nil
}

// GetPullRequest retrieves the full pull request view using gh pr view.
func (client *Client) GetPullRequest(executionContext context.Context, repository string, pullRequestNumber int) (PullRequestDetails, error) {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return PullRequestDetails{}, validationError
	}
	if numberError := validatePositiveNumber(pullRequestNumberFieldNameConstant, pullRequestNumber); numberError != nil {
		return PullRequestDetails{}, numberError
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			pullRequestSubcommandConstant,
			viewSubcommandConstant,
			strconv.Itoa(pullRequestNumber),
			repoFlagConstant,
			repositoryIdentifier,
			jsonFlagConstant,
			pullRequestViewJSONFieldsConstant,
		},
	}

	executionResult, executionError := client.runGitHubCLI(executionContext, getPullRequestOperationNameConstant, commandDetails)
	if executionError != nil {
		return PullRequestDetails{}, executionError
	}

	var response struct {
		Number      int    `json:"number"`
		Title       string `json:"title"`
		State       string `json:"state"`
		Body        string `json:"body"`
		BaseRefName string `json:"baseRefName"`
		HeadRefName string `json:"headRefName"`
	}

	decodingError := decodeJSONResponse(getPullRequestOperationNameConstant, executionResult.StandardOutput, &response)
	if decodingError != nil {
		return PullRequestDetails{}, decodingError
	}

	return PullRequestDetails{
		Number:      response.Number,
		Title:       response.Title,
		State:       response.State,
		Body:        response.Body,
		BaseRefName: response.BaseRefName,
		HeadRefName: response.HeadRefName,
	}, nil
}

// ListPullRequestFiles enumerates the changed files of a pull request through the REST API.
func (client *Client) ListPullRequestFiles(executionContext context.Context, repository string, pullRequestNumber int) ([]PullRequestFile, error) {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return nil, validationError
	}
	if numberError := validatePositiveNumber(pullRequestNumberFieldNameConstant, pullRequestNumber); numberError != nil {
		return nil, numberError
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			fmt.Sprintf(pullFilesEndpointTemplateConstant, repositoryIdentifier, pullRequestNumber),
			acceptHeaderFlagConstant,
			acceptHeaderValueConstant,
		},
	}

	executionResult, executionError := client.runGitHubCLI(executionContext, listPullRequestFilesOperationNameConstant, commandDetails)
	if executionError != nil {
		return nil, executionError
	}

	var response []struct {
		Filename  string `json:"filename"`
		Status    string `json:"status"`
		Additions int    `json:"additions"`
		Deletions int    `json:"deletions"`
	}

	decodingError := decodeJSONResponse(listPullRequestFilesOperationNameConstant, executionResult.StandardOutput, &response)
	if decodingError != nil {
		return nil, decodingError
	}

	changedFiles := make([]PullRequestFile, 0, len(response))
	for _, fileEntry := range response {
		changedFiles = append(changedFiles, PullRequestFile{
			Filename:  fileEntry.Filename,
			Status:    fileEntry.Status,
			Additions: fileEntry.Additions,
			Deletions: fileEntry.Deletions,
		})
	}

	return changedFiles, nil
}

// CreatePullRequest opens a pull request using gh pr create and returns its URL.
func (client *Client) CreatePullRequest(executionContext context.Context, repository string, input CreatePullRequestInput) (string, error) {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return "", validationError
	}
	pullRequestTitle, titleError := validateRequiredField(titleFieldNameConstant, input.Title)
	if titleError != nil {
		return "", titleError
	}
	headBranch, headError := validateRequiredField(headBranchFieldNameConstant, input.HeadBranch)
	if headError != nil {
		return "", headError
	}

	arguments := []string{
		pullRequestSubcommandConstant,
		createSubcommandConstant,
		repoFlagConstant,
		repositoryIdentifier,
		titleFlagConstant,
		pullRequestTitle,
		bodyFlagConstant,
		input.Body,
		headFlagConstant,
		headBranch,
	}
	trimmedBaseBranch := strings.TrimSpace(input.BaseBranch)
	if len(trimmedBaseBranch) > 0 {
		arguments = append(arguments, baseFlagConstant, trimmedBaseBranch)
	}

	executionResult, executionError := client.runGitHubCLI(executionContext, createPullRequestOperationNameConstant, execshell.CommandDetails{Arguments: arguments})
	if executionError != nil {
		return "", executionError
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// CreateReviewRequest asks a reviewer for a pull request review through the REST API.
func (client *Client) CreateReviewRequest(executionContext context.Context, repository string, pullRequestNumber int, reviewer string) error {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return validationError
	}
	if numberError := validatePositiveNumber(pullRequestNumberFieldNameConstant, pullRequestNumber); numberError != nil {
		return numberError
	}
	reviewerLogin, reviewerError := validateRequiredField(reviewerFieldNameConstant, reviewer)
	if reviewerError != nil {
		return reviewerError
	}

	payload := struct {
		Reviewers []string `json:"reviewers"`
	}{Reviewers: []string{reviewerLogin}}

	payloadBytes, encodingError := encodeJSONPayload(createReviewRequestOperationNameConstant, payload)
	if encodingError != nil {
		return encodingError
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			fmt.Sprintf(reviewRequestEndpointTemplateConstant, repositoryIdentifier, pullRequestNumber),
			methodFlagConstant,
			httpMethodPostConstant,
			inputFlagConstant,
			stdinReferenceConstant,
			acceptHeaderFlagConstant,
			acceptHeaderValueConstant,
		},
		StandardInput: payloadBytes,
	}

	_, executionError := client.runGitHubCLI(executionContext, createReviewRequestOperationNameConstant, commandDetails)
	if executionError != nil {
		return executionError
	}

	return nil
}
