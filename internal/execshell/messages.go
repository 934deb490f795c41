package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitRemoteSubcommandNameConstant       = "remote"
	gitRemoteGetURLSubcommandNameConstant = "get-url"
)

const (
	gitRemoteLookupStartTemplateConstant            = "Checking %s remote for %s"
	gitRemoteLookupSuccessTemplateConstant          = "%s remote for %s points to %s"
	gitRemoteLookupFailureTemplateConstant          = "Failed to read %s remote for %s (exit code %d%s)"
	gitRemoteLookupExecutionFailureTemplateConstant = "Unable to read %s remote for %s: %s"
)

const (
	githubRepoSubcommandNameConstant                  = "repo"
	githubViewSubcommandNameConstant                  = "view"
	githubIssueSubcommandNameConstant                 = "issue"
	githubPullRequestSubcommandNameConstant           = "pr"
	githubListSubcommandNameConstant                  = "list"
	githubCreateSubcommandNameConstant                = "create"
	githubAPICommandNameConstant                      = "api"
	githubStateFlagConstant                           = "--state"
	githubHeadFlagConstant                            = "--head"
	githubBaseFlagConstant                            = "--base"
	githubMethodFlagConstant                          = "-X"
	repoFlagNameConstant                              = "--repo"
	inputFlagNameConstant                             = "--input"
	headerFlagNameConstant                            = "-H"
	githubContentsEndpointSubstringConstant           = "/contents/"
	githubCommentsEndpointSuffixConstant              = "/comments"
	githubPullFilesEndpointSuffixConstant             = "/files"
	githubReviewersEndpointSuffixConstant             = "/requested_reviewers"
	githubBranchesEndpointSuffixConstant              = "/branches"
	githubReferenceReadEndpointSubstringConstant      = "/git/ref/"
	githubReferenceWriteEndpointSuffixConstant        = "/git/refs"
	githubPullsEndpointSubstringConstant              = "/pulls/"
	githubIssuesEndpointSubstringConstant             = "/issues/"
	githubSearchEndpointPrefixConstant                = "search/"
	githubSearchIssuesEndpointPrefixConstant          = "search/issues"
	githubSearchCodeEndpointPrefixConstant            = "search/code"
	githubSearchIssuesScopeLabelConstant              = "issue"
	githubSearchCodeScopeLabelConstant                = "code"
	githubWriteMethodConstant                         = "PUT"
	githubDeleteMethodConstant                        = "DELETE"
	githubCurrentRepositoryLabelConstant              = "current repository"
	githubReposEndpointPrefixConstant                 = "repos/"
	githubRepoViewIdentificationArgumentCountConstant = 2
	githubRepositorySegmentCountConstant              = 2
)

const (
	githubRepoViewStartTemplateConstant                       = "Retrieving repository details for %s"
	githubRepoViewSuccessTemplateConstant                     = "Retrieved repository details for %s"
	githubRepoViewFailureTemplateConstant                     = "Failed to retrieve repository details for %s (exit code %d%s)"
	githubRepoViewExecutionFailureTemplateConstant            = "Unable to retrieve repository details for %s: %s"
	githubIssueListStartTemplateConstant                      = "Listing %s issues for %s"
	githubIssueListSuccessTemplateConstant                    = "Listed %s issues for %s"
	githubIssueListFailureTemplateConstant                    = "Failed to list %s issues for %s (exit code %d%s)"
	githubIssueListExecutionFailureTemplateConstant           = "Unable to list %s issues for %s: %s"
	githubIssueViewStartTemplateConstant                      = "Retrieving issue #%s for %s"
	githubIssueViewSuccessTemplateConstant                    = "Retrieved issue #%s for %s"
	githubIssueViewFailureTemplateConstant                    = "Failed to retrieve issue #%s for %s (exit code %d%s)"
	githubIssueViewExecutionFailureTemplateConstant           = "Unable to retrieve issue #%s for %s: %s"
	githubPullRequestListStartTemplateConstant                = "Listing %s pull requests for %s"
	githubPullRequestListSuccessTemplateConstant              = "Listed %s pull requests for %s"
	githubPullRequestListFailureTemplateConstant              = "Failed to list %s pull requests for %s (exit code %d%s)"
	githubPullRequestListExecutionFailureTemplateConstant     = "Unable to list %s pull requests for %s: %s"
	githubPullRequestViewStartTemplateConstant                = "Retrieving pull request #%s for %s"
	githubPullRequestViewSuccessTemplateConstant              = "Retrieved pull request #%s for %s"
	githubPullRequestViewFailureTemplateConstant              = "Failed to retrieve pull request #%s for %s (exit code %d%s)"
	githubPullRequestViewExecutionFailureTemplateConstant     = "Unable to retrieve pull request #%s for %s: %s"
	githubPullRequestCreateStartTemplateConstant              = "Creating pull request in %s merging %s into %s"
	githubPullRequestCreateSuccessTemplateConstant            = "Created pull request in %s merging %s into %s"
	githubPullRequestCreateFailureTemplateConstant            = "Failed to create pull request in %s merging %s into %s (exit code %d%s)"
	githubPullRequestCreateExecutionFailureTemplateConstant   = "Unable to create pull request in %s merging %s into %s: %s"
	githubContentsReadStartTemplateConstant                   = "Reading %s from %s"
	githubContentsReadSuccessTemplateConstant                 = "Read %s from %s"
	githubContentsReadFailureTemplateConstant                 = "Failed to read %s from %s (exit code %d%s)"
	githubContentsReadExecutionFailureTemplateConstant        = "Unable to read %s from %s: %s"
	githubContentsWriteStartTemplateConstant                  = "Writing %s in %s"
	githubContentsWriteSuccessTemplateConstant                = "Wrote %s in %s"
	githubContentsWriteFailureTemplateConstant                = "Failed to write %s in %s (exit code %d%s)"
	githubContentsWriteExecutionFailureTemplateConstant       = "Unable to write %s in %s: %s"
	githubContentsDeleteStartTemplateConstant                 = "Deleting %s from %s"
	githubContentsDeleteSuccessTemplateConstant               = "Deleted %s from %s"
	githubContentsDeleteFailureTemplateConstant               = "Failed to delete %s from %s (exit code %d%s)"
	githubContentsDeleteExecutionFailureTemplateConstant      = "Unable to delete %s from %s: %s"
	githubIssueCommentStartTemplateConstant                   = "Adding comment to issue #%s in %s"
	githubIssueCommentSuccessTemplateConstant                 = "Added comment to issue #%s in %s"
	githubIssueCommentFailureTemplateConstant                 = "Failed to add comment to issue #%s in %s (exit code %d%s)"
	githubIssueCommentExecutionFailureTemplateConstant        = "Unable to add comment to issue #%s in %s: %s"
	githubPullFilesStartTemplateConstant                      = "Listing changed files for pull request #%s in %s"
	githubPullFilesSuccessTemplateConstant                    = "Listed changed files for pull request #%s in %s"
	githubPullFilesFailureTemplateConstant                    = "Failed to list changed files for pull request #%s in %s (exit code %d%s)"
	githubPullFilesExecutionFailureTemplateConstant           = "Unable to list changed files for pull request #%s in %s: %s"
	githubReviewRequestStartTemplateConstant                  = "Requesting review on pull request #%s in %s"
	githubReviewRequestSuccessTemplateConstant                = "Requested review on pull request #%s in %s"
	githubReviewRequestFailureTemplateConstant                = "Failed to request review on pull request #%s in %s (exit code %d%s)"
	githubReviewRequestExecutionFailureTemplateConstant       = "Unable to request review on pull request #%s in %s: %s"
	githubBranchesListStartTemplateConstant                   = "Listing branches for %s"
	githubBranchesListSuccessTemplateConstant                 = "Listed branches for %s"
	githubBranchesListFailureTemplateConstant                 = "Failed to list branches for %s (exit code %d%s)"
	githubBranchesListExecutionFailureTemplateConstant        = "Unable to list branches for %s: %s"
	githubReferenceResolveStartTemplateConstant               = "Resolving reference %s in %s"
	githubReferenceResolveSuccessTemplateConstant             = "Resolved reference %s in %s"
	githubReferenceResolveFailureTemplateConstant             = "Failed to resolve reference %s in %s (exit code %d%s)"
	githubReferenceResolveExecutionFailureTemplateConstant    = "Unable to resolve reference %s in %s: %s"
	githubReferenceCreateStartTemplateConstant                = "Creating branch reference in %s"
	githubReferenceCreateSuccessTemplateConstant              = "Created branch reference in %s"
	githubReferenceCreateFailureTemplateConstant              = "Failed to create branch reference in %s (exit code %d%s)"
	githubReferenceCreateExecutionFailureTemplateConstant     = "Unable to create branch reference in %s: %s"
	githubSearchStartTemplateConstant                         = "Running %s search"
	githubSearchSuccessTemplateConstant                       = "Completed %s search"
	githubSearchFailureTemplateConstant                       = "Failed to run %s search (exit code %d%s)"
	githubSearchExecutionFailureTemplateConstant              = "Unable to run %s search: %s"
	appInstallationTokenStartTemplateConstant                 = "Requesting installation token for GitHub App installation %s"
	appInstallationTokenSuccessTemplateConstant               = "Received installation token for GitHub App installation %s"
	appInstallationTokenFailureTemplateConstant               = "Failed to request installation token for GitHub App installation %s (exit code %d%s)"
	appInstallationTokenExecutionFailureTemplateConstant      = "Unable to request installation token for GitHub App installation %s: %s"
	appInstallationTokenEndpointSubstringConstant             = "/app/installations/"
	appInstallationTokenEndpointSuffixConstant                = "/access_tokens"
	appInstallationTokenEndpointInstallationSegmentOffsetLast = 2
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

// ShouldLogStartMessage reports whether a start notification adds value for the supplied command.
func (formatter CommandMessageFormatter) ShouldLogStartMessage(command ShellCommand) bool {
	if command.Name != CommandGitHub {
		return true
	}
	if formatter.isGitHubRepoViewCommand(command.Details.Arguments) {
		return false
	}
	return true
}

func (formatter CommandMessageFormatter) isGitHubRepoViewCommand(arguments []string) bool {
	if len(arguments) < githubRepoViewIdentificationArgumentCountConstant {
		return false
	}
	primaryArgument := strings.TrimSpace(arguments[0])
	secondaryArgument := strings.TrimSpace(arguments[1])
	return primaryArgument == githubRepoSubcommandNameConstant && secondaryArgument == githubViewSubcommandNameConstant
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandGitHub:
		return formatter.describeGitHubMessage(command, result, failure, stage)
	case CommandCurl:
		return formatter.describeCurlMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 2 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	if strings.TrimSpace(arguments[0]) != gitRemoteSubcommandNameConstant || strings.TrimSpace(arguments[1]) != gitRemoteGetURLSubcommandNameConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRemoteLookupStartTemplateConstant, remoteName, workingDirectory)
	case messageStageSuccess:
		remoteURL := formatter.ensureValue(strings.TrimSpace(result.StandardOutput))
		return fmt.Sprintf(gitRemoteLookupSuccessTemplateConstant, remoteName, workingDirectory, remoteURL)
	case messageStageFailure:
		return fmt.Sprintf(gitRemoteLookupFailureTemplateConstant, remoteName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitRemoteLookupExecutionFailureTemplateConstant, remoteName, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHubMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch strings.TrimSpace(arguments[0]) {
	case githubRepoSubcommandNameConstant:
		return formatter.describeGitHubRepoMessage(command, result, failure, stage)
	case githubIssueSubcommandNameConstant:
		return formatter.describeGitHubIssueMessage(command, result, failure, stage)
	case githubPullRequestSubcommandNameConstant:
		return formatter.describeGitHubPullRequestMessage(command, result, failure, stage)
	case githubAPICommandNameConstant:
		return formatter.describeGitHubAPIMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHubRepoMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if !formatter.isGitHubRepoViewCommand(arguments) {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	repository := formatter.ensureRepositoryLabel(formatter.argumentAtIndex(arguments, 2))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(githubRepoViewStartTemplateConstant, repository)
	case messageStageSuccess:
		return fmt.Sprintf(githubRepoViewSuccessTemplateConstant, repository)
	case messageStageFailure:
		return fmt.Sprintf(githubRepoViewFailureTemplateConstant, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(githubRepoViewExecutionFailureTemplateConstant, repository, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHubIssueMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 2 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	repository := formatter.ensureRepositoryLabel(findFlagValue(arguments, repoFlagNameConstant))

	switch strings.TrimSpace(arguments[1]) {
	case githubListSubcommandNameConstant:
		issueState := formatter.ensureValue(findFlagValue(arguments, githubStateFlagConstant))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubIssueListStartTemplateConstant, issueState, repository)
		case messageStageSuccess:
			return fmt.Sprintf(githubIssueListSuccessTemplateConstant, issueState, repository)
		case messageStageFailure:
			return fmt.Sprintf(githubIssueListFailureTemplateConstant, issueState, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubIssueListExecutionFailureTemplateConstant, issueState, repository, formatter.describeFailure(failure))
		}
	case githubViewSubcommandNameConstant:
		issueNumber := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubIssueViewStartTemplateConstant, issueNumber, repository)
		case messageStageSuccess:
			return fmt.Sprintf(githubIssueViewSuccessTemplateConstant, issueNumber, repository)
		case messageStageFailure:
			return fmt.Sprintf(githubIssueViewFailureTemplateConstant, issueNumber, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubIssueViewExecutionFailureTemplateConstant, issueNumber, repository, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitHubPullRequestMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 2 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	repository := formatter.ensureRepositoryLabel(findFlagValue(arguments, repoFlagNameConstant))

	switch strings.TrimSpace(arguments[1]) {
	case githubListSubcommandNameConstant:
		pullRequestState := formatter.ensureValue(findFlagValue(arguments, githubStateFlagConstant))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubPullRequestListStartTemplateConstant, pullRequestState, repository)
		case messageStageSuccess:
			return fmt.Sprintf(githubPullRequestListSuccessTemplateConstant, pullRequestState, repository)
		case messageStageFailure:
			return fmt.Sprintf(githubPullRequestListFailureTemplateConstant, pullRequestState, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubPullRequestListExecutionFailureTemplateConstant, pullRequestState, repository, formatter.describeFailure(failure))
		}
	case githubViewSubcommandNameConstant:
		pullRequestNumber := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubPullRequestViewStartTemplateConstant, pullRequestNumber, repository)
		case messageStageSuccess:
			return fmt.Sprintf(githubPullRequestViewSuccessTemplateConstant, pullRequestNumber, repository)
		case messageStageFailure:
			return fmt.Sprintf(githubPullRequestViewFailureTemplateConstant, pullRequestNumber, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubPullRequestViewExecutionFailureTemplateConstant, pullRequestNumber, repository, formatter.describeFailure(failure))
		}
	case githubCreateSubcommandNameConstant:
		headBranch := formatter.ensureValue(findFlagValue(arguments, githubHeadFlagConstant))
		baseBranch := formatter.ensureValue(findFlagValue(arguments, githubBaseFlagConstant))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubPullRequestCreateStartTemplateConstant, repository, headBranch, baseBranch)
		case messageStageSuccess:
			return fmt.Sprintf(githubPullRequestCreateSuccessTemplateConstant, repository, headBranch, baseBranch)
		case messageStageFailure:
			return fmt.Sprintf(githubPullRequestCreateFailureTemplateConstant, repository, headBranch, baseBranch, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubPullRequestCreateExecutionFailureTemplateConstant, repository, headBranch, baseBranch, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitHubAPIMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	endpoint := formatter.extractAPIEndpoint(arguments)
	if len(endpoint) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	method := strings.TrimSpace(findFlagValue(arguments, githubMethodFlagConstant))
	trimmedEndpoint := formatter.trimEndpointQuery(endpoint)

	switch {
	case strings.HasPrefix(endpoint, githubSearchEndpointPrefixConstant):
		return formatter.describeSearchMessage(endpoint, result, failure, stage)
	case strings.Contains(trimmedEndpoint, githubContentsEndpointSubstringConstant):
		return formatter.describeContentsMessage(trimmedEndpoint, method, result, failure, stage)
	case strings.Contains(trimmedEndpoint, githubIssuesEndpointSubstringConstant) && strings.HasSuffix(trimmedEndpoint, githubCommentsEndpointSuffixConstant):
		return formatter.describeIssueCommentMessage(trimmedEndpoint, result, failure, stage)
	case strings.Contains(trimmedEndpoint, githubPullsEndpointSubstringConstant) && strings.HasSuffix(trimmedEndpoint, githubPullFilesEndpointSuffixConstant):
		return formatter.describePullFilesMessage(trimmedEndpoint, result, failure, stage)
	case strings.Contains(trimmedEndpoint, githubPullsEndpointSubstringConstant) && strings.HasSuffix(trimmedEndpoint, githubReviewersEndpointSuffixConstant):
		return formatter.describeReviewRequestMessage(trimmedEndpoint, result, failure, stage)
	case strings.HasSuffix(trimmedEndpoint, githubBranchesEndpointSuffixConstant):
		return formatter.describeBranchesListMessage(trimmedEndpoint, result, failure, stage)
	case strings.Contains(trimmedEndpoint, githubReferenceReadEndpointSubstringConstant):
		return formatter.describeReferenceResolveMessage(trimmedEndpoint, result, failure, stage)
	case strings.HasSuffix(trimmedEndpoint, githubReferenceWriteEndpointSuffixConstant):
		return formatter.describeReferenceCreateMessage(trimmedEndpoint, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeContentsMessage(endpoint string, method string, result ExecutionResult, failure error, stage messageStage) string {
	repository, contentPath := formatter.splitContentsEndpoint(endpoint)

	startTemplate := githubContentsReadStartTemplateConstant
	successTemplate := githubContentsReadSuccessTemplateConstant
	failureTemplate := githubContentsReadFailureTemplateConstant
	executionFailureTemplate := githubContentsReadExecutionFailureTemplateConstant

	switch method {
	case githubWriteMethodConstant:
		startTemplate = githubContentsWriteStartTemplateConstant
		successTemplate = githubContentsWriteSuccessTemplateConstant
		failureTemplate = githubContentsWriteFailureTemplateConstant
		executionFailureTemplate = githubContentsWriteExecutionFailureTemplateConstant
	case githubDeleteMethodConstant:
		startTemplate = githubContentsDeleteStartTemplateConstant
		successTemplate = githubContentsDeleteSuccessTemplateConstant
		failureTemplate = githubContentsDeleteFailureTemplateConstant
		executionFailureTemplate = githubContentsDeleteExecutionFailureTemplateConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, contentPath, repository)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, contentPath, repository)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, contentPath, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(executionFailureTemplate, contentPath, repository, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeIssueCommentMessage(endpoint string, result ExecutionResult, failure error, stage messageStage) string {
	repository := formatter.extractRepositoryFromEndpoint(endpoint)
	issueNumber := formatter.extractNumberSegment(endpoint, githubIssuesEndpointSubstringConstant)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(githubIssueCommentStartTemplateConstant, issueNumber, repository)
	case messageStageSuccess:
		return fmt.Sprintf(githubIssueCommentSuccessTemplateConstant, issueNumber, repository)
	case messageStageFailure:
		return fmt.Sprintf(githubIssueCommentFailureTemplateConstant, issueNumber, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(githubIssueCommentExecutionFailureTemplateConstant, issueNumber, repository, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describePullFilesMessage(endpoint string, result ExecutionResult, failure error, stage messageStage) string {
	repository := formatter.extractRepositoryFromEndpoint(endpoint)
	pullRequestNumber := formatter.extractNumberSegment(endpoint, githubPullsEndpointSubstringConstant)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(githubPullFilesStartTemplateConstant, pullRequestNumber, repository)
	case messageStageSuccess:
		return fmt.Sprintf(githubPullFilesSuccessTemplateConstant, pullRequestNumber, repository)
	case messageStageFailure:
		return fmt.Sprintf(githubPullFilesFailureTemplateConstant, pullRequestNumber, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(githubPullFilesExecutionFailureTemplateConstant, pullRequestNumber, repository, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeReviewRequestMessage(endpoint string, result ExecutionResult, failure error, stage messageStage) string {
	repository := formatter.extractRepositoryFromEndpoint(endpoint)
	pullRequestNumber := formatter.extractNumberSegment(endpoint, githubPullsEndpointSubstringConstant)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(githubReviewRequestStartTemplateConstant, pullRequestNumber, repository)
	case messageStageSuccess:
		return fmt.Sprintf(githubReviewRequestSuccessTemplateConstant, pullRequestNumber, repository)
	case messageStageFailure:
		return fmt.Sprintf(githubReviewRequestFailureTemplateConstant, pullRequestNumber, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(githubReviewRequestExecutionFailureTemplateConstant, pullRequestNumber, repository, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeBranchesListMessage(endpoint string, result ExecutionResult, failure error, stage messageStage) string {
	repository := formatter.extractRepositoryFromEndpoint(endpoint)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(githubBranchesListStartTemplateConstant, repository)
	case messageStageSuccess:
		return fmt.Sprintf(githubBranchesListSuccessTemplateConstant, repository)
	case messageStageFailure:
		return fmt.Sprintf(githubBranchesListFailureTemplateConstant, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(githubBranchesListExecutionFailureTemplateConstant, repository, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeReferenceResolveMessage(endpoint string, result ExecutionResult, failure error, stage messageStage) string {
	repository := formatter.extractRepositoryFromEndpoint(endpoint)
	reference := formatter.ensureValue(formatter.segmentAfter(endpoint, githubReferenceReadEndpointSubstringConstant))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(githubReferenceResolveStartTemplateConstant, reference, repository)
	case messageStageSuccess:
		return fmt.Sprintf(githubReferenceResolveSuccessTemplateConstant, reference, repository)
	case messageStageFailure:
		return fmt.Sprintf(githubReferenceResolveFailureTemplateConstant, reference, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(githubReferenceResolveExecutionFailureTemplateConstant, reference, repository, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeReferenceCreateMessage(endpoint string, result ExecutionResult, failure error, stage messageStage) string {
	repository := formatter.extractRepositoryFromEndpoint(endpoint)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(githubReferenceCreateStartTemplateConstant, repository)
	case messageStageSuccess:
		return fmt.Sprintf(githubReferenceCreateSuccessTemplateConstant, repository)
	case messageStageFailure:
		return fmt.Sprintf(githubReferenceCreateFailureTemplateConstant, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(githubReferenceCreateExecutionFailureTemplateConstant, repository, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeSearchMessage(endpoint string, result ExecutionResult, failure error, stage messageStage) string {
	searchScope := fallbackUnknownValueLabelConstant
	switch {
	case strings.HasPrefix(endpoint, githubSearchIssuesEndpointPrefixConstant):
		searchScope = githubSearchIssuesScopeLabelConstant
	case strings.HasPrefix(endpoint, githubSearchCodeEndpointPrefixConstant):
		searchScope = githubSearchCodeScopeLabelConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(githubSearchStartTemplateConstant, searchScope)
	case messageStageSuccess:
		return fmt.Sprintf(githubSearchSuccessTemplateConstant, searchScope)
	case messageStageFailure:
		return fmt.Sprintf(githubSearchFailureTemplateConstant, searchScope, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(githubSearchExecutionFailureTemplateConstant, searchScope, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeCurlMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	installationIdentifier := formatter.extractInstallationIdentifier(command.Details.Arguments)
	if len(installationIdentifier) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(appInstallationTokenStartTemplateConstant, installationIdentifier)
	case messageStageSuccess:
		return fmt.Sprintf(appInstallationTokenSuccessTemplateConstant, installationIdentifier)
	case messageStageFailure:
		return fmt.Sprintf(appInstallationTokenFailureTemplateConstant, installationIdentifier, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(appInstallationTokenExecutionFailureTemplateConstant, installationIdentifier, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatGenericCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatGenericCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) ensureRepositoryLabel(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return githubCurrentRepositoryLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractAPIEndpoint(arguments []string) string {
	for argumentIndex := 1; argumentIndex < len(arguments); argumentIndex++ {
		trimmedArgument := strings.TrimSpace(arguments[argumentIndex])
		if len(trimmedArgument) == 0 {
			continue
		}
		if strings.HasPrefix(trimmedArgument, "-") {
			if trimmedArgument == githubMethodFlagConstant || trimmedArgument == inputFlagNameConstant || trimmedArgument == headerFlagNameConstant {
				argumentIndex++
			}
			continue
		}
		return trimmedArgument
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) trimEndpointQuery(endpoint string) string {
	queryIndex := strings.Index(endpoint, "?")
	if queryIndex < 0 {
		return endpoint
	}
	return endpoint[:queryIndex]
}

func (formatter CommandMessageFormatter) splitContentsEndpoint(endpoint string) (string, string) {
	separatorIndex := strings.Index(endpoint, githubContentsEndpointSubstringConstant)
	if separatorIndex < 0 {
		return formatter.extractRepositoryFromEndpoint(endpoint), fallbackUnknownValueLabelConstant
	}

	repository := formatter.extractRepositoryFromEndpoint(endpoint[:separatorIndex])
	contentPath := strings.TrimSpace(endpoint[separatorIndex+len(githubContentsEndpointSubstringConstant):])
	if len(contentPath) == 0 {
		contentPath = fallbackUnknownValueLabelConstant
	}
	return repository, contentPath
}

func (formatter CommandMessageFormatter) extractRepositoryFromEndpoint(endpoint string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(endpoint), githubReposEndpointPrefixConstant)
	if len(trimmed) == 0 {
		return githubCurrentRepositoryLabelConstant
	}

	segments := strings.Split(trimmed, "/")
	if len(segments) < githubRepositorySegmentCountConstant {
		return githubCurrentRepositoryLabelConstant
	}
	return strings.Join(segments[:githubRepositorySegmentCountConstant], "/")
}

func (formatter CommandMessageFormatter) extractNumberSegment(endpoint string, precedingSubstring string) string {
	remainder := formatter.segmentAfter(endpoint, precedingSubstring)
	if len(remainder) == 0 {
		return fallbackUnknownValueLabelConstant
	}

	separatorIndex := strings.Index(remainder, "/")
	if separatorIndex < 0 {
		return remainder
	}
	return remainder[:separatorIndex]
}

func (formatter CommandMessageFormatter) segmentAfter(endpoint string, substring string) string {
	substringIndex := strings.Index(endpoint, substring)
	if substringIndex < 0 {
		return emptyStringConstant
	}
	return strings.TrimSpace(endpoint[substringIndex+len(substring):])
}

func (formatter CommandMessageFormatter) extractInstallationIdentifier(arguments []string) string {
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		tokenEndpointIndex := strings.Index(trimmedArgument, appInstallationTokenEndpointSubstringConstant)
		if tokenEndpointIndex < 0 {
			continue
		}
		if !strings.HasSuffix(trimmedArgument, appInstallationTokenEndpointSuffixConstant) {
			continue
		}

		remainder := trimmedArgument[tokenEndpointIndex+len(appInstallationTokenEndpointSubstringConstant):]
		segments := strings.Split(remainder, "/")
		if len(segments) < appInstallationTokenEndpointInstallationSegmentOffsetLast {
			continue
		}
		return strings.TrimSpace(segments[0])
	}
	return emptyStringConstant
}

func findFlagValue(arguments []string, flag string) string {
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		if strings.TrimSpace(arguments[argumentIndex]) == flag && argumentIndex+1 < len(arguments) {
			return strings.TrimSpace(arguments[argumentIndex+1])
		}
	}
	return emptyStringConstant
}
