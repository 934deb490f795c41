package docgen

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ravdin/repolens/internal/llm"
	flagutils "github.com/ravdin/repolens/internal/utils/flags"
)

const (
	commandUseConstant                      = "docs [root ...]"
	commandShortDescriptionConstant         = "Generate Markdown documentation for a source tree"
	commandLongDescriptionConstant          = "docs scans the configured source roots, maps related files by import mentions, and asks the configured chat model to write one Markdown document per source file."
	commandExecutionErrorTemplateConstant   = "documentation generation failed: %w"
	chatClientCreationErrorTemplateConstant = "unable to create chat client: %w"
	flagProviderNameConstant                = "provider"
	flagProviderDescriptionConstant         = "Chat completion provider"
	flagModelNameConstant                   = "model"
	flagModelDescriptionConstant            = "Chat model identifier"
	flagOutputDirectoryNameConstant         = "output-dir"
	flagOutputDirectoryDescriptionConstant  = "Directory where generated documents are saved"
	flagIndexNameConstant                   = "index"
	flagIndexDescriptionConstant            = "Write an index.yaml manifest of the generated documents"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the documentation command configuration.
type ConfigurationProvider func() CommandConfiguration

// ChatClientFactory builds chat clients from provider settings.
type ChatClientFactory func(llm.ProviderSettings) (llm.ChatClient, error)

// CommandBuilder assembles the docs command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	ChatClientFactory     ChatClientFactory
}

// Build constructs the docs command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	writeIndexManifest := true

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
	}
	command.RunE = func(command *cobra.Command, arguments []string) error {
		return builder.run(command, arguments, writeIndexManifest)
	}

	defaults := DefaultCommandConfiguration()
	providerUsage := flagutils.FormatChoiceUsage(defaults.Provider, llm.ProviderChoices(), flagProviderDescriptionConstant)

	command.Flags().String(flagProviderNameConstant, defaults.Provider, providerUsage)
	command.Flags().String(flagModelNameConstant, defaults.Model, flagModelDescriptionConstant)
	command.Flags().String(flagOutputDirectoryNameConstant, "", flagOutputDirectoryDescriptionConstant)
	flagutils.AddToggleFlag(command.Flags(), &writeIndexManifest, flagIndexNameConstant, "", true, flagIndexDescriptionConstant)
	flagutils.BindRootFlags(command, flagutils.RootFlagValues{}, flagutils.RootFlagDefinition{Enabled: true})

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string, writeIndexManifest bool) error {
	configuration := builder.resolveConfiguration(command, arguments)
	logger := builder.resolveLogger()

	chatClient, chatError := builder.resolveChatClient(configuration)
	if chatError != nil {
		return fmt.Errorf(chatClientCreationErrorTemplateConstant, chatError)
	}

	service, serviceError := NewService(ServiceDependencies{
		Chat:   chatClient,
		Output: command.OutOrStdout(),
		Logger: logger,
		Options: ServiceOptions{
			Roots:           configuration.Roots,
			OutputDirectory: configuration.OutputDirectory,
			Model:           configuration.Model,
			Extensions:      configuration.Extensions,
			ExcludeMarkers:  configuration.ExcludeMarkers,
			SkipManifest:    !writeIndexManifest,
		},
	})
	if serviceError != nil {
		return serviceError
	}

	if generationError := service.GenerateDocumentation(command.Context()); generationError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, generationError)
	}

	return nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command, arguments []string) CommandConfiguration {
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

	requestedRoots := append([]string(nil), arguments...)
	if command.Flags().Changed(flagutils.DefaultRootFlagName) {
		flagRoots, _ := command.Flags().GetStringSlice(flagutils.DefaultRootFlagName)
		requestedRoots = append(requestedRoots, flagRoots...)
	}
	if len(requestedRoots) > 0 {
		configuration.Roots = documentationRootSanitizer.SanitizeRoots(requestedRoots)
	}

	return configuration
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
