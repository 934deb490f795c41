package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ravdin/repolens/internal/docgen"
	"github.com/ravdin/repolens/internal/githubauth"
	"github.com/ravdin/repolens/internal/menu"
	"github.com/ravdin/repolens/internal/review"
	"github.com/ravdin/repolens/internal/utils"
)

const (
	applicationNameConstant                 = "repolens"
	applicationShortDescriptionConstant     = "Command-line interface for GitHub repository exploration"
	applicationLongDescriptionConstant      = "repolens bundles a GitHub repository tool menu, a chat-model pull request reviewer, and a source documentation generator on top of the GitHub CLI."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	versionFlagArgumentConstant             = "--version"
	versionOutputTemplateConstant           = "repolens version: %s\n"
	developmentVersionConstant              = "development"
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant               = "REPOLENS"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	rootCommandInfoMessageConstant          = "repolens CLI executed"
	rootCommandDebugMessageConstant         = "repolens CLI diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentCountConstant           = "argument_count"
	logFieldArgumentsConstant               = "arguments"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	defaultConfigurationSearchPathConstant  = "."
	searchPathEnvironmentNameConstant       = "REPOLENS_CONFIG_SEARCH_PATH"
	userConfigurationDirectoryNameConstant  = ".repolens"
	configurationFileNameConstant           = configurationNameConstant + "." + configurationTypeConstant
	initializeFlagNameConstant              = "init"
	initializeFlagUsageConstant             = "Write the default configuration file (local scope, or --init=user for the home directory)."
	initializeScopeLocalConstant            = "local"
	initializeScopeUserConstant             = "user"
	forceFlagNameConstant                   = "force"
	forceFlagUsageConstant                  = "Overwrite an existing configuration file when used with --init."
	unknownInitializeScopeTemplateConstant  = "unknown --init scope %q (expected local or user)"
	homeDirectoryErrorTemplateConstant      = "unable to resolve home directory: %w"
	configurationDirectoryErrorTemplate     = "unable to create configuration directory %s: %w"
	configurationExistsTemplateConstant     = "configuration file %s already exists (use --force to overwrite)"
	configurationWriteErrorTemplateConstant = "unable to write configuration file %s: %w"
	configurationWrittenTemplateConstant    = "Wrote %s\n"
	configurationWrittenMessageConstant     = "configuration file written"
	toolsConfigurationKeyConstant           = "tools"
	reviewConfigurationKeyConstant          = toolsConfigurationKeyConstant + ".review"
	docsConfigurationKeyConstant            = toolsConfigurationKeyConstant + ".docs"
	githubRepositoryConfigKeyConstant       = "github.repository"
	githubRemoteConfigKeyConstant           = "github.remote"
	githubBaseBranchConfigKeyConstant       = "github.base_branch"
	githubWorkBranchConfigKeyConstant       = "github.work_branch"
	githubAppIdentifierConfigKeyConstant    = "github.app.identifier"
	githubAppInstallationConfigKeyConstant  = "github.app.installation"
	githubAppPrivateKeyConfigKeyConstant    = "github.app.private_key_path"
	defaultGitHubRemoteConstant             = "origin"
	defaultGitHubBaseBranchConstant         = "main"
	defaultGitHubWorkBranchConstant         = "main"
)

// environmentAliasNames maps configuration keys to the conventional GitHub
// environment variables bound without the REPOLENS prefix.
var environmentAliasNames = map[string][]string{
	githubRepositoryConfigKeyConstant:      {"GITHUB_REPOSITORY"},
	githubBaseBranchConfigKeyConstant:      {"GITHUB_BASE_BRANCH"},
	githubWorkBranchConfigKeyConstant:      {"GITHUB_BRANCH"},
	githubAppIdentifierConfigKeyConstant:   {"GITHUB_APP_ID"},
	githubAppInstallationConfigKeyConstant: {"GITHUB_APP_INSTALLATION_ID"},
	githubAppPrivateKeyConfigKeyConstant:   {"GITHUB_APP_PRIVATE_KEY"},
}

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	GitHub ApplicationGitHubConfiguration `mapstructure:"github"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationGitHubConfiguration stores the repository context shared by GitHub-backed commands.
type ApplicationGitHubConfiguration struct {
	Repository string                            `mapstructure:"repository"`
	Remote     string                            `mapstructure:"remote"`
	BaseBranch string                            `mapstructure:"base_branch"`
	WorkBranch string                            `mapstructure:"work_branch"`
	App        ApplicationGitHubAppConfiguration `mapstructure:"app"`
}

// ApplicationGitHubAppConfiguration stores GitHub App installation credentials.
type ApplicationGitHubAppConfiguration struct {
	Identifier     string `mapstructure:"identifier"`
	Installation   string `mapstructure:"installation"`
	PrivateKeyPath string `mapstructure:"private_key_path"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands grouped by tool family.
type ApplicationToolsConfiguration struct {
	Review review.CommandConfiguration `mapstructure:"review"`
	Docs   docgen.CommandConfiguration `mapstructure:"docs"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	initializeScopeValue   string
	forceOverwriteValue    bool
	commandContextAccessor utils.CommandContextAccessor
	versionResolver        func(context.Context) string
	exitFunction           func(int)
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)
	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfiguration, embeddedConfigurationType)
	configurationLoader.SetEnvironmentAliases(environmentAliasNames)

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		versionResolver:        resolveVersionFromBuildInformation,
		exitFunction:           os.Exit,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.Flags().StringVar(&application.initializeScopeValue, initializeFlagNameConstant, "", initializeFlagUsageConstant)
	cobraCommand.Flags().Lookup(initializeFlagNameConstant).NoOptDefVal = initializeScopeLocalConstant
	cobraCommand.Flags().BoolVar(&application.forceOverwriteValue, forceFlagNameConstant, false, forceFlagUsageConstant)

	workingDirectory := ""
	if resolvedDirectory, workingDirectoryError := os.Getwd(); workingDirectoryError == nil {
		workingDirectory = resolvedDirectory
	}

	toolkitBuilder := menu.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ReviewConfigurationProvider: func() review.CommandConfiguration {
			return application.configuration.Tools.Review
		},
		RepositoryOptionsProvider: application.repositoryOptions,
		WorkingDirectory:          workingDirectory,
	}
	toolkitCommand, toolkitBuildError := toolkitBuilder.Build()
	if toolkitBuildError == nil {
		cobraCommand.AddCommand(toolkitCommand)
	}

	reviewBuilder := review.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() review.CommandConfiguration {
			return application.configuration.Tools.Review
		},
		RepositoryOptionsProvider: application.repositoryOptions,
		WorkingDirectory:          workingDirectory,
	}
	reviewCommand, reviewBuildError := reviewBuilder.Build()
	if reviewBuildError == nil {
		cobraCommand.AddCommand(reviewCommand)
	}

	docsBuilder := docgen.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() docgen.CommandConfiguration {
			return application.configuration.Tools.Docs
		},
	}
	docsCommand, docsBuildError := docsBuilder.Build()
	if docsBuildError == nil {
		cobraCommand.AddCommand(docsCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	if versionRequested(os.Args[1:]) {
		fmt.Fprintf(os.Stdout, versionOutputTemplateConstant, application.versionResolver(application.rootCommand.Context()))
		application.exitFunction(0)
		return nil
	}

	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:   string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:  string(utils.LogFormatStructured),
		githubRemoteConfigKeyConstant:     defaultGitHubRemoteConstant,
		githubBaseBranchConfigKeyConstant: defaultGitHubBaseBranchConstant,
		githubWorkBranchConfigKeyConstant: defaultGitHubWorkBranchConstant,
	}
	for configurationKey, configurationValue := range review.DefaultConfigurationValues(reviewConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range docgen.DefaultConfigurationValues(docsConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

// repositoryOptions converts the loaded GitHub configuration into the
// repository context shared by the toolkit and review commands.
func (application *Application) repositoryOptions() review.RepositoryOptions {
	gitHubConfiguration := application.configuration.GitHub
	return review.RepositoryOptions{
		Repository: gitHubConfiguration.Repository,
		Remote:     gitHubConfiguration.Remote,
		BaseBranch: gitHubConfiguration.BaseBranch,
		WorkBranch: gitHubConfiguration.WorkBranch,
		App: githubauth.AppCredentials{
			Identifier:     gitHubConfiguration.App.Identifier,
			Installation:   gitHubConfiguration.App.Installation,
			PrivateKeyPath: gitHubConfiguration.App.PrivateKeyPath,
		},
	}
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if command.Flags().Changed(initializeFlagNameConstant) {
		return application.initializeConfigurationFile(command)
	}

	if len(arguments) == 0 {
		return command.Help()
	}

	return nil
}

// initializeConfigurationFile writes the embedded default configuration to the
// requested scope. Existing files are preserved unless --force is given.
func (application *Application) initializeConfigurationFile(command *cobra.Command) error {
	scopeValue := strings.ToLower(strings.TrimSpace(application.initializeScopeValue))

	targetDirectory := defaultConfigurationSearchPathConstant
	switch scopeValue {
	case initializeScopeLocalConstant:
	case initializeScopeUserConstant:
		homeDirectory, homeError := os.UserHomeDir()
		if homeError != nil {
			return fmt.Errorf(homeDirectoryErrorTemplateConstant, homeError)
		}
		targetDirectory = filepath.Join(homeDirectory, userConfigurationDirectoryNameConstant)
	default:
		return fmt.Errorf(unknownInitializeScopeTemplateConstant, scopeValue)
	}

	if directoryError := os.MkdirAll(targetDirectory, 0o755); directoryError != nil {
		return fmt.Errorf(configurationDirectoryErrorTemplate, targetDirectory, directoryError)
	}

	configurationPath := filepath.Join(targetDirectory, configurationFileNameConstant)
	if _, statError := os.Stat(configurationPath); statError == nil && !application.forceOverwriteValue {
		return fmt.Errorf(configurationExistsTemplateConstant, configurationPath)
	}

	configurationData, _ := EmbeddedDefaultConfiguration()
	if writeError := os.WriteFile(configurationPath, configurationData, 0o644); writeError != nil {
		return fmt.Errorf(configurationWriteErrorTemplateConstant, configurationPath, writeError)
	}

	application.logger.Info(
		configurationWrittenMessageConstant,
		zap.String(configurationFileFieldConstant, configurationPath),
	)
	fmt.Fprintf(command.OutOrStdout(), configurationWrittenTemplateConstant, configurationPath)
	return nil
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

// configurationSearchPaths lists the directories probed for a configuration
// file: the working directory, then the user scope directory. The
// REPOLENS_CONFIG_SEARCH_PATH environment variable replaces the list entirely.
func configurationSearchPaths() []string {
	if overridePath, overrideSet := os.LookupEnv(searchPathEnvironmentNameConstant); overrideSet {
		trimmedOverridePath := strings.TrimSpace(overridePath)
		if len(trimmedOverridePath) > 0 {
			return []string{trimmedOverridePath}
		}
	}

	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil {
		searchPaths = append(searchPaths, filepath.Join(homeDirectory, userConfigurationDirectoryNameConstant))
	}
	return searchPaths
}

func versionRequested(arguments []string) bool {
	for _, argument := range arguments {
		if argument == versionFlagArgumentConstant {
			return true
		}
	}
	return false
}

func resolveVersionFromBuildInformation(context.Context) string {
	buildInformation, buildInformationAvailable := debug.ReadBuildInfo()
	if !buildInformationAvailable {
		return developmentVersionConstant
	}
	moduleVersion := strings.TrimSpace(buildInformation.Main.Version)
	if len(moduleVersion) == 0 || moduleVersion == "(devel)" {
		return developmentVersionConstant
	}
	return moduleVersion
}
