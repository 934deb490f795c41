package docgen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCommandConfigurationProvidesDocumentationDefaults(testInstance *testing.T) {
	configuration := DefaultCommandConfiguration()

	require.Equal(testInstance, "ollama", configuration.Provider)
	require.Equal(testInstance, "gpt-oss:120b-cloud", configuration.Model)
	require.Equal(testInstance, "http://localhost:11434/v1", configuration.BaseURL)
	require.Equal(testInstance, []string{"."}, configuration.Roots)
	require.Equal(testInstance, "docs/generated", configuration.OutputDirectory)
	require.Equal(testInstance, []string{".py", ".js", ".ts", ".java", ".go"}, configuration.Extensions)
	require.Equal(testInstance, []string{"test", "fixture"}, configuration.ExcludeMarkers)
}

func TestDocumentationDefaultConfigurationValuesKeyedUnderRoot(testInstance *testing.T) {
	values := DefaultConfigurationValues("tools.docs")

	require.Equal(testInstance, "ollama", values["tools.docs.provider"])
	require.Equal(testInstance, "gpt-oss:120b-cloud", values["tools.docs.model"])
	require.Equal(testInstance, "http://localhost:11434/v1", values["tools.docs.base_url"])
	require.Equal(testInstance, []string{"."}, values["tools.docs.roots"])
	require.Equal(testInstance, "docs/generated", values["tools.docs.output_dir"])
}

func TestDocumentationCommandConfigurationSanitize(testInstance *testing.T) {
	sanitized := CommandConfiguration{
		Provider:        " OLLAMA ",
		Model:           " llama3 ",
		BaseURL:         " http://localhost:11434/v1 ",
		APIKey:          " key ",
		Roots:           []string{" src ", "", "lib"},
		OutputDirectory: " build/docs ",
	}.Sanitize()

	require.Equal(testInstance, "ollama", sanitized.Provider)
	require.Equal(testInstance, "llama3", sanitized.Model)
	require.Equal(testInstance, "http://localhost:11434/v1", sanitized.BaseURL)
	require.Equal(testInstance, "key", sanitized.APIKey)
	require.Equal(testInstance, []string{"src", "lib"}, sanitized.Roots)
	require.Equal(testInstance, "build/docs", sanitized.OutputDirectory)
}

func TestDocumentationCommandConfigurationSanitizeFillsBlankValues(testInstance *testing.T) {
	sanitized := CommandConfiguration{Roots: []string{"  "}}.Sanitize()

	require.Equal(testInstance, "ollama", sanitized.Provider)
	require.Equal(testInstance, "gpt-oss:120b-cloud", sanitized.Model)
	require.Equal(testInstance, []string{"."}, sanitized.Roots)
	require.Equal(testInstance, "docs/generated", sanitized.OutputDirectory)
}
