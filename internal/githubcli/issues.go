package githubcli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ravdin/repolens/internal/execshell"
)

const (
	openIssueStateConstant                = "open"
	issueListLimitValueConstant           = 100
	issueListJSONFieldsConstant           = "number,title,state"
	issueViewJSONFieldsConstant           = "number,title,state,body,labels"
	issueCommentsEndpointTemplateConstant = "repos/%s/issues/%d/comments"
	listOpenIssuesOperationNameConstant   = OperationName("ListOpenIssues")
	getIssueOperationNameConstant         = OperationName("GetIssue")
	commentOnIssueOperationNameConstant   = OperationName("CommentOnIssue")
)

// Issue represents minimal issue details returned by GitHub CLI.
type Issue struct {
	Number int
	Title  string
	State  string
}

// IssueDetails carries the full issue view including body and labels.
type IssueDetails struct {
	Number int
	Title  string
	State  string
	Body   string
	Labels []string
}

// IssueComment describes a comment created on an issue.
type IssueComment struct {
	Identifier int64
	URL        string
	Body       string
}

// ListOpenIssues enumerates open issues using gh issue list.
func (client *Client) ListOpenIssues(executionContext context.Context, repository string) ([]Issue, error) {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return nil, validationError
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			issueSubcommandConstant,
			listSubcommandConstant,
			repoFlagConstant,
			repositoryIdentifier,
			stateFlagConstant,
			openIssueStateConstant,
			jsonFlagConstant,
			issueListJSONFieldsConstant,
			limitFlagConstant,
			strconv.Itoa(issueListLimitValueConstant),
		},
	}

	executionResult, executionError := client.runGitHubCLI(executionContext, listOpenIssuesOperationNameConstant, commandDetails)
	if executionError != nil {
		return nil, executionError
	}

	var response []struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		State  string `json:"state"`
	}

	decodingError := decodeJSONResponse(listOpenIssuesOperationNameConstant, executionResult.StandardOutput, &response)
	if decodingError != nil {
		return nil, decodingError
	}

	issues := make([]Issue, 0, len(response))
	for _, issueEntry := range response {
		issues = append(issues, Issue{
			Number: issueEntry.Number,
			Title:  issueEntry.Title,
			State:  issueEntry.State,
		})
	}

	return issues, nil
}

// GetIssue retrieves the full issue view using gh issue view.
func (client *Client) GetIssue(executionContext context.Context, repository string, issueNumber int) (IssueDetails, error) {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return IssueDetails{}, validationError
	}
	if numberError := validatePositiveNumber(issueNumberFieldNameConstant, issueNumber); numberError != nil {
		return IssueDetails{}, numberError
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			issueSubcommandConstant,
			viewSubcommandConstant,
			strconv.Itoa(issueNumber),
			repoFlagConstant,
			repositoryIdentifier,
			jsonFlagConstant,
			issueViewJSONFieldsConstant,
		},
	}

	executionResult, executionError := client.runGitHubCLI(executionContext, getIssueOperationNameConstant, commandDetails)
	if executionError != nil {
		return IssueDetails{}, executionError
	}

	var response struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		State  string `json:"state"`
		Body   string `json:"body"`
		Labels []struct {
			Name string `json:"name"`
		} `json:"labels"`
	}

	decodingError := decodeJSONResponse(getIssueOperationNameConstant, executionResult.StandardOutput, &response)
	if decodingError != nil {
		return IssueDetails{}, decodingError
	}

	labelNames := make([]string, 0, len(response.Labels))
	for _, labelEntry := range response.Labels {
		labelNames = append(labelNames, labelEntry.Name)
	}

	return IssueDetails{
		Number: response.Number,
		Title:  response.Title,
		State:  response.State,
		Body:   response.Body,
		Labels: labelNames,
	}, nil
}

// CommentOnIssue posts a comment on an issue through the REST API.
func (client *Client) CommentOnIssue(executionContext context.Context, repository string, issueNumber int, commentBody string) (IssueComment, error) {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return IssueComment{}, validationError
	}
	if numberError := validatePositiveNumber(issueNumberFieldNameConstant, issueNumber); numberError != nil {
		return IssueComment{}, numberError
	}
	trimmedBody, bodyError := validateRequiredField(commentBodyFieldNameConstant, commentBody)
	if bodyError != nil {
		return IssueComment{}, bodyError
	}

	payload := struct {
		Body string `json:"body"`
	}{Body: trimmedBody}

	payloadBytes, encodingError := encodeJSONPayload(commentOnIssueOperationNameConstant, payload)
	if encodingError != nil {
		return IssueComment{}, encodingError
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			fmt.Sprintf(issueCommentsEndpointTemplateConstant, repositoryIdentifier, issueNumber),
			methodFlagConstant,
			httpMethodPostConstant,
			inputFlagConstant,
			stdinReferenceConstant,
			acceptHeaderFlagConstant,
			acceptHeaderValueConstant,
		},
		StandardInput: payloadBytes,
	}

	executionResult, executionError := client.runGitHubCLI(executionContext, commentOnIssueOperationNameConstant, commandDetails)
	if executionError != nil {
		return IssueComment{}, executionError
	}

	var response struct {
		Identifier int64  `json:"id"`
		URL        string `json:"html_url"`
		Body       string `json:"body"`
	}

	decodingError := decodeJSONResponse(commentOnIssueOperationNameConstant, executionResult.StandardOutput, &response)
	if decodingError != nil {
		return IssueComment{}, decodingError
	}

	return IssueComment{
		Identifier: response.Identifier,
		URL:        response.URL,
		Body:       response.Body,
	}, nil
}
