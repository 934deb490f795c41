package githubcli

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/ravdin/repolens/internal/execshell"
)

const (
	contentsRootEndpointTemplateConstant = "repos/%s/contents"
	endpointPathSeparatorConstant        = "/"
	referenceQuerySuffixTemplateConstant = "?ref=%s"
	rawAcceptHeaderValueConstant         = "Accept: application/vnd.github.raw"
	filePathFieldNameConstant            = "path"
	commitMessageFieldNameConstant       = "commit_message"
	readFileOperationNameConstant        = OperationName("ReadFile")
	createFileOperationNameConstant      = OperationName("CreateFile")
	updateFileOperationNameConstant      = OperationName("UpdateFile")
	deleteFileOperationNameConstant      = OperationName("DeleteFile")
	listDirectoryOperationNameConstant   = OperationName("ListDirectory")
)

// FileMutationInput carries the fields shared by contents API writes.
type FileMutationInput struct {
	Path          string
	Branch        string
	CommitMessage string
	Content       string
}

// FileMutationResult reports the blob and commit produced by a contents API write.
type FileMutationResult struct {
	ContentSHA string
	CommitSHA  string
}

// DirectoryEntry describes one entry of a repository directory listing.
type DirectoryEntry struct {
	Name string
	Path string
	Type string
	Size int64
}

func buildContentsEndpoint(repositoryIdentifier string, filePath string, branchName string) string {
	endpoint := fmt.Sprintf(contentsRootEndpointTemplateConstant, repositoryIdentifier)
	trimmedPath := strings.TrimPrefix(strings.TrimSpace(filePath), endpointPathSeparatorConstant)
	if len(trimmedPath) > 0 {
		endpoint = endpoint + endpointPathSeparatorConstant + trimmedPath
	}
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) > 0 {
		endpoint = endpoint + fmt.Sprintf(referenceQuerySuffixTemplateConstant, url.QueryEscape(trimmedBranch))
	}
	return endpoint
}

// ReadFile fetches raw file content from a repository branch through the contents API.
func (client *Client) ReadFile(executionContext context.Context, repository string, filePath string, branchName string) (string, error) {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return "", validationError
	}
	trimmedPath, pathError := validateRequiredField(filePathFieldNameConstant, filePath)
	if pathError != nil {
		return "", pathError
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			buildContentsEndpoint(repositoryIdentifier, trimmedPath, branchName),
			acceptHeaderFlagConstant,
			rawAcceptHeaderValueConstant,
		},
	}

	executionResult, executionError := client.runGitHubCLI(executionContext, readFileOperationNameConstant, commandDetails)
	if executionError != nil {
		return "", executionError
	}

	return executionResult.StandardOutput, nil
}

func (client *Client) lookupFileSHA(executionContext context.Context, operation OperationName, repositoryIdentifier string, filePath string, branchName string) (string, error) {
	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			buildContentsEndpoint(repositoryIdentifier, filePath, branchName),
			acceptHeaderFlagConstant,
			acceptHeaderValueConstant,
		},
	}

	executionResult, executionError := client.runGitHubCLI(executionContext, operation, commandDetails)
	if executionError != nil {
		return "", executionError
	}

	var response struct {
		SHA string `json:"sha"`
	}

	decodingError := decodeJSONResponse(operation, executionResult.StandardOutput, &response)
	if decodingError != nil {
		return "", decodingError
	}

	return response.SHA, nil
}

func (client *Client) mutateContents(executionContext context.Context, operation OperationName, repositoryIdentifier string, filePath string, httpMethod string, payload any) (FileMutationResult, error) {
	payloadBytes, encodingError := encodeJSONPayload(operation, payload)
	if encodingError != nil {
		return FileMutationResult{}, encodingError
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			buildContentsEndpoint(repositoryIdentifier, filePath, ""),
			methodFlagConstant,
			httpMethod,
			inputFlagConstant,
			stdinReferenceConstant,
			acceptHeaderFlagConstant,
			acceptHeaderValueConstant,
		},
		StandardInput: payloadBytes,
	}

	executionResult, executionError := client.runGitHubCLI(executionContext, operation, commandDetails)
	if executionError != nil {
		return FileMutationResult{}, executionError
	}

	var response struct {
		Content struct {
			SHA string `json:"sha"`
		} `json:"content"`
		Commit struct {
			SHA string `json:"sha"`
		} `json:"commit"`
	}

	decodingError := decodeJSONResponse(operation, executionResult.StandardOutput, &response)
	if decodingError != nil {
		return FileMutationResult{}, decodingError
	}

	return FileMutationResult{ContentSHA: response.Content.SHA, CommitSHA: response.Commit.SHA}, nil
}

// CreateFile adds a new file on a branch through the contents API.
func (client *Client) CreateFile(executionContext context.Context, repository string, input FileMutationInput) (FileMutationResult, error) {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return FileMutationResult{}, validationError
	}
	trimmedPath, pathError := validateRequiredField(filePathFieldNameConstant, input.Path)
	if pathError != nil {
		return FileMutationResult{}, pathError
	}
	commitMessage, messageError := validateRequiredField(commitMessageFieldNameConstant, input.CommitMessage)
	if messageError != nil {
		return FileMutationResult{}, messageError
	}

	payload := struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch,omitempty"`
	}{
		Message: commitMessage,
		Content: base64.StdEncoding.EncodeToString([]byte(input.Content)),
		Branch:  strings.TrimSpace(input.Branch),
	}

	return client.mutateContents(executionContext, createFileOperationNameConstant, repositoryIdentifier, trimmedPath, httpMethodPutConstant, payload)
}

// UpdateFile replaces file content on a branch. The current blob SHA is
// resolved first because the contents API rejects blind overwrites.
func (client *Client) UpdateFile(executionContext context.Context, repository string, input FileMutationInput) (FileMutationResult, error) {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return FileMutationResult{}, validationError
	}
	trimmedPath, pathError := validateRequiredField(filePathFieldNameConstant, input.Path)
	if pathError != nil {
		return FileMutationResult{}, pathError
	}
	commitMessage, messageError := validateRequiredField(commitMessageFieldNameConstant, input.CommitMessage)
	if messageError != nil {
		return FileMutationResult{}, messageError
	}

	currentSHA, lookupError := client.lookupFileSHA(executionContext, updateFileOperationNameConstant, repositoryIdentifier, trimmedPath, input.Branch)
	if lookupError != nil {
		return FileMutationResult{}, lookupError
	}

	payload := struct {
		Message string `json:"message"`
		Content string `json:"content"`
		SHA     string `json:"sha"`
		Branch  string `json:"branch,omitempty"`
	}{
		Message: commitMessage,
		Content: base64.StdEncoding.EncodeToString([]byte(input.Content)),
		SHA:     currentSHA,
		Branch:  strings.TrimSpace(input.Branch),
	}

	return client.mutateContents(executionContext, updateFileOperationNameConstant, repositoryIdentifier, trimmedPath, httpMethodPutConstant, payload)
}

// DeleteFile removes a file from a branch. The current blob SHA is resolved
// first because the contents API requires it for deletions.
func (client *Client) DeleteFile(executionContext context.Context, repository string, input FileMutationInput) (FileMutationResult, error) {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return FileMutationResult{}, validationError
	}
	trimmedPath, pathError := validateRequiredField(filePathFieldNameConstant, input.Path)
	if pathError != nil {
		return FileMutationResult{}, pathError
	}
	commitMessage, messageError := validateRequiredField(commitMessageFieldNameConstant, input.CommitMessage)
	if messageError != nil {
		return FileMutationResult{}, messageError
	}

	currentSHA, lookupError := client.lookupFileSHA(executionContext, deleteFileOperationNameConstant, repositoryIdentifier, trimmedPath, input.Branch)
	if lookupError != nil {
		return FileMutationResult{}, lookupError
	}

	payload := struct {
		Message string `json:"message"`
		SHA     string `json:"sha"`
		Branch  string `json:"branch,omitempty"`
	}{
		Message: commitMessage,
		SHA:     currentSHA,
		Branch:  strings.TrimSpace(input.Branch),
	}

	return client.mutateContents(executionContext, deleteFileOperationNameConstant, repositoryIdentifier, trimmedPath, httpMethodDeleteConstant, payload)
}

// ListDirectory enumerates a repository directory through the contents API.
// An empty path lists the repository root.
func (client *Client) ListDirectory(executionContext context.Context, repository string, directoryPath string, branchName string) ([]DirectoryEntry, error) {
	repositoryIdentifier, validationError := validateRepositoryIdentifier(repository)
	if validationError != nil {
		return nil, validationError
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			buildContentsEndpoint(repositoryIdentifier, directoryPath, branchName),
			acceptHeaderFlagConstant,
			acceptHeaderValueConstant,
		},
	}

	executionResult, executionError := client.runGitHubCLI(executionContext, listDirectoryOperationNameConstant, commandDetails)
	if executionError != nil {
		return nil, executionError
	}

	var response []struct {
		Name string `json:"name"`
		Path string `json:"path"`
		Type string `json:"type"`
		Size int64  `json:"size"`
	}

	decodingError := decodeJSONResponse(listDirectoryOperationNameConstant, executionResult.StandardOutput, &response)
	if decodingError != nil {
		return nil, decodingError
	}

	directoryEntries := make([]DirectoryEntry, 0, len(response))
	for _, directoryEntry := range response {
		directoryEntries = append(directoryEntries, DirectoryEntry{
			Name: directoryEntry.Name,
			Path: directoryEntry.Path,
			Type: directoryEntry.Type,
			Size: directoryEntry.Size,
		})
	}

	return directoryEntries, nil
}
