package review

import (
	"strings"

	"github.com/ravdin/repolens/internal/githubauth"
	"github.com/ravdin/repolens/internal/llm"
	pathutils "github.com/ravdin/repolens/internal/utils/path"
)

const (
	defaultReviewModelConstant              = "grok-2-1212"
	configurationProviderKeyConstant        = "provider"
	configurationModelKeyConstant           = "model"
	configurationTemperatureKeyConstant     = "temperature"
	configurationAPIKeyKeyConstant          = "api_key"
	configurationBaseURLKeyConstant         = "base_url"
	configurationOutputDirectoryKeyConstant = "output_dir"
	configurationKeySeparatorConstant       = "."
)

var reviewConfigurationHomeDirectoryExpander = pathutils.NewHomeExpander()

// CommandConfiguration captures configuration values for pull request review.
type CommandConfiguration struct {
	Provider        string  `mapstructure:"provider"`
	Model           string  `mapstructure:"model"`
	Temperature     float64 `mapstructure:"temperature"`
	APIKey          string  `mapstructure:"api_key"`
	BaseURL         string  `mapstructure:"base_url"`
	OutputDirectory string  `mapstructure:"output_dir"`
}

// RepositoryOptions carries the GitHub repository context shared by review
// and toolkit runs.
type RepositoryOptions struct {
	Repository string
	Remote     string
	BaseBranch string
	WorkBranch string
	App        githubauth.AppCredentials
}

// DefaultCommandConfiguration provides default review command settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Provider:    string(llm.ProviderXAI),
		Model:       defaultReviewModelConstant,
		Temperature: defaultTemperatureConstant,
	}
}

// DefaultConfigurationValues exposes review defaults keyed beneath the provided root key.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationProviderKeyConstant:    defaults.Provider,
		rootKey + configurationKeySeparatorConstant + configurationModelKeyConstant:       defaults.Model,
		rootKey + configurationKeySeparatorConstant + configurationTemperatureKeyConstant: defaults.Temperature,
	}
}

// Sanitize normalizes configuration values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Provider = strings.ToLower(strings.TrimSpace(configuration.Provider))
	sanitized.Model = strings.TrimSpace(configuration.Model)
	sanitized.APIKey = strings.TrimSpace(configuration.APIKey)
	sanitized.BaseURL = strings.TrimSpace(configuration.BaseURL)
	sanitized.OutputDirectory = sanitizeDirectory(configuration.OutputDirectory)
	if len(sanitized.Provider) == 0 {
		sanitized.Provider = string(llm.ProviderXAI)
	}
	if len(sanitized.Model) == 0 {
		sanitized.Model = defaultReviewModelConstant
	}
	if sanitized.Temperature <= 0 {
		sanitized.Temperature = defaultTemperatureConstant
	}
	return sanitized
}

// Sanitize normalizes repository context values.
func (options RepositoryOptions) Sanitize() RepositoryOptions {
	sanitized := options
	sanitized.Repository = strings.TrimSpace(options.Repository)
	sanitized.Remote = strings.TrimSpace(options.Remote)
	sanitized.BaseBranch = strings.TrimSpace(options.BaseBranch)
	sanitized.WorkBranch = strings.TrimSpace(options.WorkBranch)
	sanitized.App.Identifier = strings.TrimSpace(options.App.Identifier)
	sanitized.App.Installation = strings.TrimSpace(options.App.Installation)
	sanitized.App.PrivateKeyPath = sanitizeDirectory(options.App.PrivateKeyPath)
	return sanitized
}

func sanitizeDirectory(candidatePath string) string {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		return ""
	}
	return reviewConfigurationHomeDirectoryExpander.Expand(trimmedPath)
}
