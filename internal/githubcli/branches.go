package githubcli

import (
	"context"
	"fmt"

	"github.com/ravdin/repolens/internal/execshell"
)

const (
	branchesEndpointTemplateConstant        = "repos/%s/branches"
	branchReferenceEndpointTemplateConstant = "repos/%s/git/ref/heads/%s"
	referencesEndpointTemplateConstant      = "repos/%s/git/refs"
	headsReferencePrefixConstant            = "refs/heads/"
	branchNameFieldNameConstant             = "branch_name"
	sourceBranchFieldNameConstant           = "source_branch"
	listBranchesOperationNameConstant       = OperationName("ListBranches")
	createBranchOperationNameConstant       = OperationName("CreateBranch")
)

// Branch describes one repository branch.
type Branch struct {
	Name      string
	Protected bool
}

// BranchReference describes a git reference created for a branch.
type BranchReference struct {
	Ref string
	SHA string
}

// ListBranches enumerates repository branches through the REST API.
func (client *Client) ListBranches(executionContext context.Context, repository string) ([]Branch, error) {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return nil, validationError
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			fmt.Sprintf(branchesEndpointTemplateConstant, repositoryIdentifier),
			acceptHeaderFlagConstant,
			acceptHeaderValueConstant,
		},
	}

	executionResult, executionError := client.runGitHubCLI(executionContext, listBranchesOperationNameConstant, commandDetails)
	if executionError != nil {
		return nil, executionError
	}

	var response []struct {
		Name      string `json:"name"`
		Protected bool   `json:"protected"`
	}

	decodingError := decodeJSONResponse(listBranchesOperationNameConstant, executionResult.StandardOutput, &response)
	if decodingError != nil {
		return nil, decodingError
	}

	branches := make([]Branch, 0, len(response))
	for _, branchEntry := range response {
		branches = append(branches, Branch{
			Name:      branchEntry.Name,
			Protected: branchEntry.Protected,
		})
	}

	return branches, nil
}

// CreateBranch creates a branch from a source branch. The source SHA is
// resolved first because git reference creation requires an explicit object.
func (client *Client) CreateBranch(executionContext context.Context, repository string, branchName string, sourceBranch string) (BranchReference, error) {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return BranchReference{}, validationError
	}
	trimmedBranchName, branchError := validateRequiredField(branchNameFieldNameConstant, branchName)
	if branchError != nil {
		return BranchReference{}, branchError
	}
	trimmedSourceBranch, sourceError := validateRequiredField(sourceBranchFieldNameConstant, sourceBranch)
	if sourceError != nil {
		return BranchReference{}, sourceError
	}

	referenceLookupDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			fmt.Sprintf(branchReferenceEndpointTemplateConstant, repositoryIdentifier, trimmedSourceBranch),
			acceptHeaderFlagConstant,
			acceptHeaderValueConstant,
		},
	}

	lookupResult, lookupError := client.runGitHubCLI(executionContext, createBranchOperationNameConstant, referenceLookupDetails)
	if lookupError != nil {
		return BranchReference{}, lookupError
	}

	var lookupResponse struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}

	lookupDecodingError := decodeJSONResponse(createBranchOperationNameConstant, lookupResult.StandardOutput, &lookupResponse)
	if lookupDecodingError != nil {
		return BranchReference{}, lookupDecodingError
	}

	payload := struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	}{
		Ref: headsReferencePrefixConstant + trimmedBranchName,
		SHA: lookupResponse.Object.SHA,
	}

	payloadBytes, encodingError := encodeJSONPayload(createBranchOperationNameConstant, payload)
	if encodingError != nil {
		return BranchReference{}, encodingError
	}

	creationDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			fmt.Sprintf(referencesEndpointTemplateConstant, repositoryIdentifier),
			methodFlagConstant,
			httpMethodPostConstant,
			inputFlagConstant,
			stdinReferenceConstant,
			acceptHeaderFlagConstant,
			acceptHeaderValueConstant,
		},
		StandardInput: payloadBytes,
	}

	creationResult, creationError := client.runGitHubCLI(executionContext, createBranchOperationNameConstant, creationDetails)
	if creationError != nil {
		return BranchReference{}, creationError
	}

	var creationResponse struct {
		Ref    string `json:"ref"`
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}

	creationDecodingError := decodeJSONResponse(createBranchOperationNameConstant, creationResult.StandardOutput, &creationResponse)
	if creationDecodingError != nil {
		return BranchReference{}, creationDecodingError
	}

	return BranchReference{
		Ref: creationResponse.Ref,
		SHA: creationResponse.Object.SHA,
	}, nil
}
