package review

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ravdin/repolens/internal/execshell"
	"github.com/ravdin/repolens/internal/githubauth"
	"github.com/ravdin/repolens/internal/githubcli"
	"github.com/ravdin/repolens/internal/gitrepo"
	"github.com/ravdin/repolens/internal/llm"
	"github.com/ravdin/repolens/internal/ui"
	flagutils "github.com/ravdin/repolens/internal/utils/flags"
)

const (
	commandUseConstant                          = "review"
	commandShortDescriptionConstant             = "Analyze a pull request with a chat model"
	commandLongDescriptionConstant              = "review fetches the files of a pull request through the GitHub CLI and asks the configured chat model for a file-by-file code review."
	commandExecutionErrorTemplateConstant       = "pull request review failed: %w"
	unexpectedArgumentsMessageConstant          = "review does not accept positional arguments"
	missingPullRequestNumberMessageConstant     = "a positive --pr value is required"
	flagPullRequestNameConstant                 = "pr"
	flagPullRequestDescriptionConstant          = "Pull request number to analyze"
	flagProviderNameConstant                    = "provider"
	flagProviderDescriptionConstant             = "Chat completion provider"
	flagModelNameConstant                       = "model"
	flagModelDescriptionConstant                = "Chat model identifier"
	flagOutputDirectoryNameConstant             = "output-dir"
	flagOutputDirectoryDescriptionConstant      = "Directory where review reports are saved"
	installationTokenErrorTemplateConstant      = "unable to mint GitHub App installation token: %w"
	repositoryResolutionErrorTemplateConstant   = "unable to determine repository: %w"
	chatClientCreationErrorTemplateConstant     = "unable to create chat client: %w"
	githubClientCreationErrorTemplateConstant   = "unable to create GitHub client: %w"
	shellExecutorCreationErrorTemplateConstant  = "unable to create shell executor: %w"
	tokenInjectionCreationErrorTemplateConstant = "unable to wrap GitHub executor with token: %w"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)
var errMissingPullRequestNumber = errors.New(missingPullRequestNumberMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the review command configuration.
type ConfigurationProvider func() CommandConfiguration

// RepositoryOptionsProvider supplies the shared GitHub repository context.
type RepositoryOptionsProvider func() RepositoryOptions

// ChatClientFactory builds chat clients from provider settings.
type ChatClientFactory func(llm.ProviderSettings) (llm.ChatClient, error)

// CommandBuilder assembles the review command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	RepositoryOptionsProvider    RepositoryOptionsProvider
	HumanReadableLoggingProvider func() bool
	GitHubExecutor               githubcli.GitHubCommandExecutor
	GitExecutor                  gitrepo.GitExecutor
	CurlExecutor                 githubauth.CurlCommandExecutor
	ChatClientFactory            ChatClientFactory
	WorkingDirectory             string
}

// Build constructs the review command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	providerUsage := flagutils.FormatChoiceUsage(defaults.Provider, llm.ProviderChoices(), flagProviderDescriptionConstant)

	command.Flags().Int(flagPullRequestNameConstant, 0, flagPullRequestDescriptionConstant)
	command.Flags().String(flagProviderNameConstant, defaults.Provider, providerUsage)
	command.Flags().String(flagModelNameConstant, defaults.Model, flagModelDescriptionConstant)
	command.Flags().String(flagOutputDirectoryNameConstant, "", flagOutputDirectoryDescriptionConstant)
	flagutils.BindRepositoryFlag(command, flagutils.RepositoryFlagValues{}, flagutils.RepositoryFlagDefinition{Enabled: true})
	flagutils.EnsureRemoteFlag(command, "", flagutils.RemoteFlagUsage)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	pullRequestNumber, _ := command.Flags().GetInt(flagPullRequestNameConstant)
	if pullRequestNumber <= 0 {
		_ = command.Help()
		return errMissingPullRequestNumber
	}

	configuration := builder.resolveConfiguration(command)
	repositoryOptions := builder.resolveRepositoryOptions(command)

	logger := builder.resolveLogger()
	shellExecutor, executorError := builder.resolveShellExecutor(logger)
	if executorError != nil {
		return fmt.Errorf(shellExecutorCreationErrorTemplateConstant, executorError)
	}

	repositoryIdentifier, repositoryError := builder.resolveRepositoryIdentifier(command, repositoryOptions, shellExecutor)
	if repositoryError != nil {
		return fmt.Errorf(repositoryResolutionErrorTemplateConstant, repositoryError)
	}

	gitHubExecutor, tokenError := builder.resolveGitHubExecutor(command, repositoryOptions, shellExecutor)
	if tokenError != nil {
		return tokenError
	}

	gitHubClient, clientError := githubcli.NewClient(gitHubExecutor)
	if clientError != nil {
		return fmt.Errorf(githubClientCreationErrorTemplateConstant, clientError)
	}

	chatClient, chatError := builder.resolveChatClient(configuration)
	if chatError != nil {
		return fmt.Errorf(chatClientCreationErrorTemplateConstant, chatError)
	}

	service, serviceError := NewService(ServiceDependencies{
		GitHub: gitHubClient,
		Chat:   chatClient,
		Output: command.OutOrStdout(),
		Logger: logger,
		Options: ServiceOptions{
			Repository:      repositoryIdentifier,
			Model:           configuration.Model,
			Temperature:     configuration.Temperature,
			BaseBranch:      repositoryOptions.BaseBranch,
			WorkBranch:      repositoryOptions.WorkBranch,
			OutputDirectory: configuration.OutputDirectory,
		},
	})
	if serviceError != nil {
		return serviceError
	}

	if analysisError := service.AnalyzePullRequest(command.Context(), pullRequestNumber); analysisError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, analysisError)
	}

	return nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	configuration = configuration.Sanitize()

	if command.Flags().Changed(flagProviderNameConstant) {
		providerValue, _ := command.Flags().GetString(flagProviderNameConstant)
		configuration.Provider = strings.ToLower(strings.TrimSpace(providerValue))
	}
	if command.Flags().Changed(flagModelNameConstant) {
		modelValue, _ := command.Flags().GetString(flagModelNameConstant)
		configuration.Model = strings.TrimSpace(modelValue)
	}
	if command.Flags().Changed(flagOutputDirectoryNameConstant) {
		outputDirectoryValue, _ := command.Flags().GetString(flagOutputDirectoryNameConstant)
		configuration.OutputDirectory = strings.TrimSpace(outputDirectoryValue)
	}

	return configuration
}

func (builder *CommandBuilder) resolveRepositoryOptions(command *cobra.Command) RepositoryOptions {
	options := RepositoryOptions{}
	if builder.RepositoryOptionsProvider != nil {
		options = builder.RepositoryOptionsProvider()
	}
	options = options.Sanitize()

	if command.Flags().Changed(flagutils.RepositoryFlagName) {
		repositoryValue, _ := command.Flags().GetString(flagutils.RepositoryFlagName)
		options.Repository = strings.TrimSpace(repositoryValue)
	}
	if command.Flags().Changed(flagutils.RemoteFlagName) {
		remoteValue, _ := command.Flags().GetString(flagutils.RemoteFlagName)
		options.Remote = strings.TrimSpace(remoteValue)
	}

	return options
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) humanReadableLogging() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}

func (builder *CommandBuilder) resolveShellExecutor(logger *zap.Logger) (*execshell.ShellExecutor, error) {
	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner)
	if creationError != nil {
		return nil, creationError
	}
	if builder.humanReadableLogging() {
		shellExecutor.SetCommandEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}
	return shellExecutor, nil
}

func (builder *CommandBuilder) resolveRepositoryIdentifier(command *cobra.Command, options RepositoryOptions, shellExecutor *execshell.ShellExecutor) (string, error) {
	if len(options.Repository) > 0 {
		return options.Repository, nil
	}

	gitExecutor := builder.resolveGitExecutor(shellExecutor)
	repositoryResolver, resolverError := gitrepo.NewRepositoryResolver(gitExecutor)
	if resolverError != nil {
		return "", resolverError
	}

	return repositoryResolver.ResolveSlug(command.Context(), builder.WorkingDirectory, options.Remote)
}

func (builder *CommandBuilder) resolveGitExecutor(shellExecutor *execshell.ShellExecutor) gitrepo.GitExecutor {
	if builder.GitExecutor != nil {
		return builder.GitExecutor
	}
	return shellExecutor
}

func (builder *CommandBuilder) resolveGitHubExecutor(command *cobra.Command, options RepositoryOptions, shellExecutor *execshell.ShellExecutor) (githubcli.GitHubCommandExecutor, error) {
	baseExecutor := githubcli.GitHubCommandExecutor(shellExecutor)
	if builder.GitHubExecutor != nil {
		baseExecutor = builder.GitHubExecutor
	}

	authenticationToken, tokenError := builder.resolveAuthenticationToken(command, options, shellExecutor)
	if tokenError != nil {
		return nil, tokenError
	}
	if len(authenticationToken) == 0 {
		return baseExecutor, nil
	}

	injectingExecutor, injectionError := githubauth.NewTokenInjectingExecutor(baseExecutor, authenticationToken)
	if injectionError != nil {
		return nil, fmt.Errorf(tokenInjectionCreationErrorTemplateConstant, injectionError)
	}
	return injectingExecutor, nil
}

// resolveAuthenticationToken prefers a GitHub App installation token when App
// credentials are fully configured and falls back to the token environment
// variables otherwise. A missing token is not an error; the GitHub CLI may
// carry its own authentication.
func (builder *CommandBuilder) resolveAuthenticationToken(command *cobra.Command, options RepositoryOptions, shellExecutor *execshell.ShellExecutor) (string, error) {
	if options.App.Complete() {
		curlExecutor := builder.resolveCurlExecutor(shellExecutor)
		appTokenSource, sourceError := githubauth.NewAppTokenSource(curlExecutor)
		if sourceError != nil {
			return "", sourceError
		}
		installationToken, exchangeError := appTokenSource.ResolveInstallationToken(command.Context(), options.App)
		if exchangeError != nil {
			return "", fmt.Errorf(installationTokenErrorTemplateConstant, exchangeError)
		}
		return installationToken, nil
	}

	if environmentToken, tokenFound := githubauth.ResolveToken(nil); tokenFound {
		return environmentToken, nil
	}
	return "", nil
}

func (builder *CommandBuilder) resolveCurlExecutor(shellExecutor *execshell.ShellExecutor) githubauth.CurlCommandExecutor {
	if builder.CurlExecutor != nil {
		return builder.CurlExecutor
	}
	return shellExecutor
}

func (builder *CommandBuilder) resolveChatClient(configuration CommandConfiguration) (llm.ChatClient, error) {
	settings := llm.ProviderSettings{
		Provider: llm.ProviderName(configuration.Provider),
		APIKey:   configuration.APIKey,
		BaseURL:  configuration.BaseURL,
	}
	if builder.ChatClientFactory != nil {
		return builder.ChatClientFactory(settings)
	}
	return llm.NewChatClient(settings)
}
