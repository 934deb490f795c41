package githubcli

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ravdin/repolens/internal/execshell"
)

const (
	issueSearchEndpointTemplateConstant = "search/issues?q=%s"
	codeSearchEndpointTemplateConstant  = "search/code?q=%s"
	repositoryQualifierTemplateConstant = "%s repo:%s"
	searchQueryFieldNameConstant        = "query"
	searchIssuesOperationNameConstant   = OperationName("SearchIssues")
	searchCodeOperationNameConstant     = OperationName("SearchCode")
)

// IssueSearchResult carries issue search hits scoped to one repository.
type IssueSearchResult struct {
	TotalCount int
	Issues     []Issue
}

// CodeMatch describes one code search hit.
type CodeMatch struct {
	Name string
	Path string
}

// CodeSearchResult carries code search hits scoped to one repository.
type CodeSearchResult struct {
	TotalCount int
	Matches    []CodeMatch
}

func buildScopedSearchQuery(searchQuery string, repositoryIdentifier string) string {
	return url.QueryEscape(fmt.Sprintf(repositoryQualifierTemplateConstant, searchQuery, repositoryIdentifier))
}

// SearchIssues runs an issue search restricted to the repository.
func (client *Client) SearchIssues(executionContext context.Context, repository string, searchQuery string) (IssueSearchResult, error) {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return IssueSearchResult{}, validationError
	}
	trimmedQuery, queryError := validateRequiredField(searchQueryFieldNameConstant, searchQuery)
	if queryError != nil {
		return IssueSearchResult{}, queryError
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			fmt.Sprintf(issueSearchEndpointTemplateConstant, buildScopedSearchQuery(trimmedQuery, repositoryIdentifier)),
			acceptHeaderFlagConstant,
			acceptHeaderValueConstant,
		},
	}

	executionResult, executionError := client.runGitHubCLI(executionContext, searchIssuesOperationNameConstant, commandDetails)
	if executionError != nil {
		return IssueSearchResult{}, executionError
	}

	var response struct {
		TotalCount int `json:"total_count"`
		Items      []struct {
			Number int    `json:"number"`
			Title  string `json:"title"`
			State  string `json:"state"`
		} `json:"items"`
	}

	decodingError := decodeJSONResponse(searchIssuesOperationNameConstant, executionResult.StandardOutput, &response)
	if decodingError != nil {
		return IssueSearchResult{}, decodingError
	}

	matchedIssues := make([]Issue, 0, len(response.Items))
	for _, issueEntry := range response.Items {
		matchedIssues = append(matchedIssues, Issue{
			Number: issueEntry.Number,
			Title:  issueEntry.Title,
			State:  issueEntry.State,
		})
	}

	return IssueSearchResult{TotalCount: response.TotalCount, Issues: matchedIssues}, nil
}

// SearchCode runs a code search restricted to the repository.
func (client *Client) SearchCode(executionContext context.Context, repository string, searchQuery string) (CodeSearchResult, error) {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return CodeSearchResult{}, validationError
	}
	trimmedQuery, queryError := validateRequiredField(searchQueryFieldNameConstant, searchQuery)
	if queryError != nil {
		return CodeSearchResult{}, queryError
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			fmt.Sprintf(codeSearchEndpointTemplateConstant, buildScopedSearchQuery(trimmedQuery, repositoryIdentifier)),
			acceptHeaderFlagConstant,
			acceptHeaderValueConstant,
		},
	}

	executionResult, executionError := client.runGitHubCLI(executionContext, searchCodeOperationNameConstant, commandDetails)
	if executionError != nil {
		return CodeSearchResult{}, executionError
	}

	var response struct {
		TotalCount int `json:"total_count"`
		Items      []struct {
			Name string `json:"name"`
			Path string `json:"path"`
		} `json:"items"`
	}

	decodingError := decodeJSONResponse(searchCodeOperationNameConstant, executionResult.StandardOutput, &response)
	if decodingError != nil {
		return CodeSearchResult{}, decodingError
	}

	codeMatches := make([]CodeMatch, 0, len(response.Items))
	for _, matchEntry := range response.Items {
		codeMatches = append(codeMatches, CodeMatch{
			Name: matchEntry.Name,
			Path: matchEntry.Path,
		})
	}

	return CodeSearchResult{TotalCount: response.TotalCount, Matches: codeMatches}, nil
}
