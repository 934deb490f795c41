package docgen

import (
	"strings"

	"github.com/ravdin/repolens/internal/llm"
	pathutils "github.com/ravdin/repolens/internal/utils/path"
)

const (
	defaultDocumentationModelConstant             = "gpt-oss:120b-cloud"
	defaultDocumentationOutputDirectoryConstant   = "docs/generated"
	documentationProviderKeyConstant              = "provider"
	documentationModelKeyConstant                 = "model"
	documentationBaseURLKeyConstant               = "base_url"
	documentationOutputDirectoryKeyConstant       = "output_dir"
	documentationRootsKeyConstant                 = "roots"
	documentationExtensionsKeyConstant            = "extensions"
	documentationExcludeMarkersKeyConstant        = "exclude_markers"
	documentationConfigurationSeparatorConstant   = "."
	documentationDefaultOllamaBaseAddressConstant = "http://localhost:11434/v1"
)

var documentationRootSanitizer = pathutils.NewSourceRootSanitizer()

// CommandConfiguration captures configuration values for documentation generation.
type CommandConfiguration struct {
	Provider        string   `mapstructure:"provider"`
	Model           string   `mapstructure:"model"`
	BaseURL         string   `mapstructure:"base_url"`
	APIKey          string   `mapstructure:"api_key"`
	Roots           []string `mapstructure:"roots"`
	OutputDirectory string   `mapstructure:"output_dir"`
	Extensions      []string `mapstructure:"extensions"`
	ExcludeMarkers  []string `mapstructure:"exclude_markers"`
}

// DefaultCommandConfiguration provides default documentation command settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Provider:        string(llm.ProviderOllama),
		Model:           defaultDocumentationModelConstant,
		BaseURL:         documentationDefaultOllamaBaseAddressConstant,
		Roots:           []string{defaultRootConstant},
		OutputDirectory: defaultDocumentationOutputDirectoryConstant,
		Extensions:      append([]string(nil), defaultSourceExtensions...),
		ExcludeMarkers:  append([]string(nil), defaultExcludeMarkers...),
	}
}

// DefaultConfigurationValues exposes documentation defaults keyed beneath the provided root key.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + documentationConfigurationSeparatorConstant + documentationProviderKeyConstant:        defaults.Provider,
		rootKey + documentationConfigurationSeparatorConstant + documentationModelKeyConstant:           defaults.Model,
		rootKey + documentationConfigurationSeparatorConstant + documentationBaseURLKeyConstant:         defaults.BaseURL,
		rootKey + documentationConfigurationSeparatorConstant + documentationRootsKeyConstant:           defaults.Roots,
		rootKey + documentationConfigurationSeparatorConstant + documentationOutputDirectoryKeyConstant: defaults.OutputDirectory,
		rootKey + documentationConfigurationSeparatorConstant + documentationExtensionsKeyConstant:      defaults.Extensions,
		rootKey + documentationConfigurationSeparatorConstant + documentationExcludeMarkersKeyConstant:  defaults.ExcludeMarkers,
	}
}

// Sanitize normalizes configuration values. Extension and marker
// normalization stays with the scanner so flag and configuration inputs go
// through the same path.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Provider = strings.ToLower(strings.TrimSpace(configuration.Provider))
	sanitized.Model = strings.TrimSpace(configuration.Model)
	sanitized.BaseURL = strings.TrimSpace(configuration.BaseURL)
	sanitized.APIKey = strings.TrimSpace(configuration.APIKey)
	sanitized.Roots = documentationRootSanitizer.SanitizeRoots(configuration.Roots)
	sanitized.OutputDirectory = strings.TrimSpace(configuration.OutputDirectory)
	if len(sanitized.Provider) == 0 {
		sanitized.Provider = string(llm.ProviderOllama)
	}
	if len(sanitized.Model) == 0 {
		sanitized.Model = defaultDocumentationModelConstant
	}
	if len(sanitized.Roots) == 0 {
		sanitized.Roots = []string{defaultRootConstant}
	}
	if len(sanitized.OutputDirectory) == 0 {
		sanitized.OutputDirectory = defaultDocumentationOutputDirectoryConstant
	}
	return sanitized
}
