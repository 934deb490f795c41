package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ravdin/repolens/internal/githubcli"
	"github.com/ravdin/repolens/internal/llm"
)

const (
	defaultBranchNameConstant                = "main"
	defaultTemperatureConstant               = 0.2
	fetchFailureTemplateConstant             = "Failed to fetch PR details or file list: %s\n"
	emptyPullRequestMessageConstant          = "PR found, but it contains no files to analyze.\n"
	noFilesMessageConstant                   = "No files to analyze or PR not found.\n"
	analysisProgressTemplateConstant         = "\nAnalyzing %d files in PR #%d...\n\n"
	reviewHeaderTemplateConstant             = "\n=== Review for %s ===\n"
	reviewSeparatorConstant                  = "\n-------------------------------------\n\n"
	reviewFileSuffixConstant                 = "_review.md"
	reviewDirectoryPermissionsConstant       = 0o755
	reviewFilePermissionsConstant            = 0o644
	saveFailureLogMessageConstant            = "saving pull request review failed"
	reviewFileLogFieldConstant               = "file"
	githubGatewayRequiredMessageConstant     = "github gateway required"
	chatClientRequiredMessageConstant        = "chat client required"
	outputWriterRequiredMessageConstant      = "output writer required"
	loggerRequiredMessageConstant            = "logger required"
	repositoryRequiredMessageConstant        = "repository required"
	modelRequiredMessageConstant             = "chat model required"
	invalidPullRequestNumberTemplateConstant = "pull request number %d must be positive"
)

const reviewPromptTemplateConstant = `
You are a senior code reviewer. Analyze the changes made to %s.
Provide a detailed review.

--- ORIGINAL ---
%s

--- CHANGED ---
%s

Provide a markdown report with:
1. Summary of Changes
2. Technical Review (Pros/Cons)
3. Suggestions for Improvement
`

// ErrGitHubGatewayNotConfigured indicates service construction without a GitHub gateway.
var ErrGitHubGatewayNotConfigured = errors.New(githubGatewayRequiredMessageConstant)

// ErrChatClientNotConfigured indicates service construction without a chat client.
var ErrChatClientNotConfigured = errors.New(chatClientRequiredMessageConstant)

// ErrOutputWriterNotConfigured indicates service construction without an output writer.
var ErrOutputWriterNotConfigured = errors.New(outputWriterRequiredMessageConstant)

// ErrLoggerNotConfigured indicates service construction without a logger.
var ErrLoggerNotConfigured = errors.New(loggerRequiredMessageConstant)

// ErrRepositoryNotConfigured indicates service construction without a repository slug.
var ErrRepositoryNotConfigured = errors.New(repositoryRequiredMessageConstant)

// ErrModelNotConfigured indicates service construction without a chat model.
var ErrModelNotConfigured = errors.New(modelRequiredMessageConstant)

// InvalidPullRequestNumberError reports a pull request number that cannot identify a pull request.
type InvalidPullRequestNumberError struct {
	Number int
}

// Error describes the invalid pull request number.
func (invalidError InvalidPullRequestNumberError) Error() string {
	return fmt.Sprintf(invalidPullRequestNumberTemplateConstant, invalidError.Number)
}

// GitHubGateway captures the GitHub operations pull request analysis depends on.
type GitHubGateway interface {
	ResolveRepoMetadata(executionContext context.Context, repository string) (githubcli.RepositoryMetadata, error)
	GetPullRequest(executionContext context.Context, repository string, pullRequestNumber int) (githubcli.PullRequestDetails, error)
	ListPullRequestFiles(executionContext context.Context, repository string, pullRequestNumber int) ([]githubcli.PullRequestFile, error)
	ReadFile(executionContext context.Context, repository string, filePath string, branchName string) (string, error)
}

// ServiceOptions carries the tunable settings for pull request analysis.
type ServiceOptions struct {
	Repository      string
	Model           string
	Temperature     float64
	BaseBranch      string
	WorkBranch      string
	OutputDirectory string
}

// ServiceDependencies lists the collaborators a review service requires.
type ServiceDependencies struct {
	GitHub  GitHubGateway
	Chat    llm.ChatClient
	Output  io.Writer
	Logger  *zap.Logger
	Options ServiceOptions
}

// Service analyzes pull requests file by file with a chat model.
type Service struct {
	githubGateway   GitHubGateway
	chatClient      llm.ChatClient
	writer          io.Writer
	logger          *zap.Logger
	repository      string
	model           string
	temperature     float64
	baseBranch      string
	workBranch      string
	outputDirectory string
}

// NewService validates the dependencies and assembles a review service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.GitHub == nil {
		return nil, ErrGitHubGatewayNotConfigured
	}
	if dependencies.Chat == nil {
		return nil, ErrChatClientNotConfigured
	}
	if dependencies.Output == nil {
		return nil, ErrOutputWriterNotConfigured
	}
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	repositoryIdentifier := strings.TrimSpace(dependencies.Options.Repository)
	if len(repositoryIdentifier) == 0 {
		return nil, ErrRepositoryNotConfigured
	}
	modelName := strings.TrimSpace(dependencies.Options.Model)
	if len(modelName) == 0 {
		return nil, ErrModelNotConfigured
	}
	temperature := dependencies.Options.Temperature
	if temperature <= 0 {
		temperature = defaultTemperatureConstant
	}
	return &Service{
		githubGateway:   dependencies.GitHub,
		chatClient:      dependencies.Chat,
		writer:          dependencies.Output,
		logger:          dependencies.Logger,
		repository:      repositoryIdentifier,
		model:           modelName,
		temperature:     temperature,
		baseBranch:      strings.TrimSpace(dependencies.Options.BaseBranch),
		workBranch:      strings.TrimSpace(dependencies.Options.WorkBranch),
		outputDirectory: strings.TrimSpace(dependencies.Options.OutputDirectory),
	}, nil
}

type fileReviewContext struct {
	path            string
	originalContent string
	changedContent  string
}

// AnalyzePullRequest reviews every changed file of the pull request and
// prints one Markdown report per file. Chat failures surface in the report
// body so one broken completion does not abort the remaining files.
func (service *Service) AnalyzePullRequest(executionContext context.Context, pullRequestNumber int) error {
	if pullRequestNumber <= 0 {
		return InvalidPullRequestNumberError{Number: pullRequestNumber}
	}
	fileContexts := service.collectFileContexts(executionContext, pullRequestNumber)
	if len(fileContexts) == 0 {
		fmt.Fprint(service.writer, noFilesMessageConstant)
		return nil
	}
	fmt.Fprintf(service.writer, analysisProgressTemplateConstant, len(fileContexts), pullRequestNumber)
	for _, fileContext := range fileContexts {
		reviewText, completionError := service.chatClient.Complete(executionContext, llm.ChatRequest{
			Model:       service.model,
			Prompt:      buildReviewPrompt(fileContext),
			Temperature: service.temperature,
		})
		if completionError != nil {
			reviewText = completionError.Error()
		}
		fmt.Fprintf(service.writer, reviewHeaderTemplateConstant, fileContext.path)
		fmt.Fprintln(service.writer, reviewText)
		fmt.Fprint(service.writer, reviewSeparatorConstant)
		if len(service.outputDirectory) > 0 {
			service.saveReview(fileContext.path, reviewText)
		}
	}
	return nil
}

// collectFileContexts fetches the pull request and pairs every changed file
// with its base and head contents. Reads that fail degrade to empty content
// so new and deleted files still produce a review.
func (service *Service) collectFileContexts(executionContext context.Context, pullRequestNumber int) []fileReviewContext {
	pullRequestDetails, detailsError := service.githubGateway.GetPullRequest(executionContext, service.repository, pullRequestNumber)
	if detailsError != nil {
		fmt.Fprintf(service.writer, fetchFailureTemplateConstant, detailsError)
		return nil
	}
	changedFiles, filesError := service.githubGateway.ListPullRequestFiles(executionContext, service.repository, pullRequestNumber)
	if filesError != nil {
		fmt.Fprintf(service.writer, fetchFailureTemplateConstant, filesError)
		return nil
	}
	if len(changedFiles) == 0 {
		fmt.Fprint(service.writer, emptyPullRequestMessageConstant)
		return nil
	}
	baseReference := service.resolveBaseReference(executionContext, pullRequestDetails)
	headReference := service.resolveHeadReference(pullRequestDetails)
	fileContexts := make([]fileReviewContext, 0, len(changedFiles))
	for _, changedFile := range changedFiles {
		if len(strings.TrimSpace(changedFile.Filename)) == 0 {
			continue
		}
		originalContent, originalError := service.githubGateway.ReadFile(executionContext, service.repository, changedFile.Filename, baseReference)
		if originalError != nil {
			originalContent = ""
		}
		changedContent, changedError := service.githubGateway.ReadFile(executionContext, service.repository, changedFile.Filename, headReference)
		if changedError != nil {
			changedContent = ""
		}
		fileContexts = append(fileContexts, fileReviewContext{
			path:            changedFile.Filename,
			originalContent: originalContent,
			changedContent:  changedContent,
		})
	}
	return fileContexts
}

// resolveBaseReference prefers the pull request's base branch, then the
// configured base branch, then the repository default branch, then main.
func (service *Service) resolveBaseReference(executionContext context.Context, pullRequestDetails githubcli.PullRequestDetails) string {
	if len(strings.TrimSpace(pullRequestDetails.BaseRefName)) > 0 {
		return pullRequestDetails.BaseRefName
	}
	if len(service.baseBranch) > 0 {
		return service.baseBranch
	}
	repositoryMetadata, metadataError := service.githubGateway.ResolveRepoMetadata(executionContext, service.repository)
	if metadataError == nil && len(strings.TrimSpace(repositoryMetadata.DefaultBranch)) > 0 {
		return repositoryMetadata.DefaultBranch
	}
	return defaultBranchNameConstant
}

func (service *Service) resolveHeadReference(pullRequestDetails githubcli.PullRequestDetails) string {
	if len(strings.TrimSpace(pullRequestDetails.HeadRefName)) > 0 {
		return pullRequestDetails.HeadRefName
	}
	if len(service.workBranch) > 0 {
		return service.workBranch
	}
	return defaultBranchNameConstant
}

func (service *Service) saveReview(filePath string, reviewText string) {
	if makeDirectoryError := os.MkdirAll(service.outputDirectory, reviewDirectoryPermissionsConstant); makeDirectoryError != nil {
		service.logger.Warn(saveFailureLogMessageConstant, zap.String(reviewFileLogFieldConstant, filePath), zap.Error(makeDirectoryError))
		return
	}
	outputPath := filepath.Join(service.outputDirectory, flattenReviewPath(filePath))
	if writeError := os.WriteFile(outputPath, []byte(reviewText), reviewFilePermissionsConstant); writeError != nil {
		service.logger.Warn(saveFailureLogMessageConstant, zap.String(reviewFileLogFieldConstant, filePath), zap.Error(writeError))
	}
}

func buildReviewPrompt(fileContext fileReviewContext) string {
	return fmt.Sprintf(reviewPromptTemplateConstant, fileContext.path, fileContext.originalContent, fileContext.changedContent)
}

// flattenReviewPath turns a repository file path into a single file name by
// replacing path separators with underscores.
func flattenReviewPath(filePath string) string {
	flattenedName := strings.ReplaceAll(filePath, "/", "_")
	flattenedName = strings.ReplaceAll(flattenedName, "\\", "_")
	return flattenedName + reviewFileSuffixConstant
}
