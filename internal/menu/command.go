package menu

import (
	"context"
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
	"github.com/ravdin/repolens/internal/review"
	"github.com/ravdin/repolens/internal/toolkit"
	"github.com/ravdin/repolens/internal/ui"
	"github.com/ravdin/repolens/internal/utils"
	flagutils "github.com/ravdin/repolens/internal/utils/flags"
)

const (
	commandUseConstant                          = "toolkit"
	commandShortDescriptionConstant             = "Run GitHub repository tools from a numbered menu"
	commandLongDescriptionConstant              = "toolkit presents the GitHub repository tools as a numbered menu, prompts for tool arguments, and prints each result. The --tool flag dispatches a single tool without the menu."
	unexpectedArgumentsMessageConstant          = "toolkit does not accept positional arguments"
	flagToolNameConstant                        = "tool"
	flagToolDescriptionConstant                 = "Tool name to run without the interactive menu"
	flagArgumentNameConstant                    = "arg"
	flagArgumentDescriptionConstant             = "Tool argument in key=value form (repeatable)"
	toolExecutionErrorTemplateConstant          = "tool execution failed: %w"
	menuSessionErrorTemplateConstant            = "toolkit session failed: %w"
	installationTokenErrorTemplateConstant      = "unable to mint GitHub App installation token: %w"
	repositoryResolutionErrorTemplateConstant   = "unable to determine repository: %w"
	chatClientCreationErrorTemplateConstant     = "unable to create chat client: %w"
	githubClientCreationErrorTemplateConstant   = "unable to create GitHub client: %w"
	shellExecutorCreationErrorTemplateConstant  = "unable to create shell executor: %w"
	tokenInjectionCreationErrorTemplateConstant = "unable to wrap GitHub executor with token: %w"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ReviewConfigurationProvider supplies the review settings backing the
// analyze menu entry.
type ReviewConfigurationProvider func() review.CommandConfiguration

// RepositoryOptionsProvider supplies the shared GitHub repository context.
type RepositoryOptionsProvider func() review.RepositoryOptions

// ChatClientFactory builds chat clients from provider settings.
type ChatClientFactory func(llm.ProviderSettings) (llm.ChatClient, error)

// CommandBuilder assembles the toolkit command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ReviewConfigurationProvider  ReviewConfigurationProvider
	RepositoryOptionsProvider    RepositoryOptionsProvider
	HumanReadableLoggingProvider func() bool
	GitHubExecutor               githubcli.GitHubCommandExecutor
	GitExecutor                  gitrepo.GitExecutor
	CurlExecutor                 githubauth.CurlCommandExecutor
	ChatClientFactory            ChatClientFactory
	WorkingDirectory             string
}

// Build constructs the toolkit command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagToolNameConstant, "", flagToolDescriptionConstant)
	command.Flags().StringSlice(flagArgumentNameConstant, nil, flagArgumentDescriptionConstant)
	flagutils.BindRepositoryFlag(command, flagutils.RepositoryFlagValues{}, flagutils.RepositoryFlagDefinition{Enabled: true})
	flagutils.EnsureRemoteFlag(command, "", flagutils.RemoteFlagUsage)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	reviewConfiguration := builder.resolveReviewConfiguration()
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

	session, sessionError := toolkit.NewSession(repositoryIdentifier, repositoryOptions.WorkBranch, gitHubClient)
	if sessionError != nil {
		return sessionError
	}
	registry, registryError := toolkit.NewGitHubRegistry(gitHubClient, session)
	if registryError != nil {
		return registryError
	}

	reviewRunner := &deferredReviewRunner{
		buildService: func() (*review.Service, error) {
			return builder.buildReviewService(command, reviewConfiguration, repositoryOptions, repositoryIdentifier, gitHubClient, logger)
		},
	}

	service, serviceError := NewService(ServiceDependencies{
		Input:        command.InOrStdin(),
		Output:       utils.NewFlushingWriter(command.OutOrStdout()),
		Registry:     registry,
		ReviewRunner: reviewRunner,
		ReviewModel:  reviewConfiguration.Model,
		Logger:       logger,
	})
	if serviceError != nil {
		return serviceError
	}

	if command.Flags().Changed(flagToolNameConstant) {
		toolName, _ := command.Flags().GetString(flagToolNameConstant)
		argumentPairs, _ := command.Flags().GetStringSlice(flagArgumentNameConstant)
		if runError := service.RunTool(command.Context(), toolName, argumentPairs); runError != nil {
			return fmt.Errorf(toolExecutionErrorTemplateConstant, runError)
		}
		return nil
	}

	if runError := service.Run(command.Context()); runError != nil {
		return fmt.Errorf(menuSessionErrorTemplateConstant, runError)
	}
	return nil
}

// deferredReviewRunner builds the review service on first use. Chat client
// construction needs provider credentials, so plain tool runs stay available
// without chat configuration.
type deferredReviewRunner struct {
	buildService func() (*review.Service, error)
	service      *review.Service
}

func (runner *deferredReviewRunner) AnalyzePullRequest(executionContext context.Context, pullRequestNumber int) error {
	if runner.service == nil {
		service, buildError := runner.buildService()
		if buildError != nil {
			return buildError
		}
		runner.service = service
	}
	return runner.service.AnalyzePullRequest(executionContext, pullRequestNumber)
}

func (builder *CommandBuilder) buildReviewService(command *cobra.Command, configuration review.CommandConfiguration, options review.RepositoryOptions, repositoryIdentifier string, gitHubClient *githubcli.Client, logger *zap.Logger) (*review.Service, error) {
	chatClient, chatError := builder.resolveChatClient(configuration)
	if chatError != nil {
		return nil, fmt.Errorf(chatClientCreationErrorTemplateConstant, chatError)
	}

	return review.NewService(review.ServiceDependencies{
		GitHub: gitHubClient,
		Chat:   chatClient,
		Output: command.OutOrStdout(),
		Logger: logger,
		Options: review.ServiceOptions{
			Repository:      repositoryIdentifier,
			Model:           configuration.Model,
			Temperature:     configuration.Temperature,
			BaseBranch:      options.BaseBranch,
			WorkBranch:      options.WorkBranch,
			OutputDirectory: configuration.OutputDirectory,
		},
	})
}

func (builder *CommandBuilder) resolveReviewConfiguration() review.CommandConfiguration {
	configuration := review.DefaultCommandConfiguration()
	if builder.ReviewConfigurationProvider != nil {
		configuration = builder.ReviewConfigurationProvider()
	}
	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveRepositoryOptions(command *cobra.Command) review.RepositoryOptions {
	options := review.RepositoryOptions{}
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

func (builder *CommandBuilder) resolveRepositoryIdentifier(command *cobra.Command, options review.RepositoryOptions, shellExecutor *execshell.ShellExecutor) (string, error) {
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

func (builder *CommandBuilder) resolveGitHubExecutor(command *cobra.Command, options review.RepositoryOptions, shellExecutor *execshell.ShellExecutor) (githubcli.GitHubCommandExecutor, error) {
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

func (builder *CommandBuilder) resolveAuthenticationToken(command *cobra.Command, options review.RepositoryOptions, shellExecutor *execshell.ShellExecutor) (string, error) {
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

func (builder *CommandBuilder) resolveChatClient(configuration review.CommandConfiguration) (llm.ChatClient, error) {
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
