package cli_test

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/ravdin/repolens/cmd/cli"
	"github.com/ravdin/repolens/internal/docgen"
	"github.com/ravdin/repolens/internal/review"
)

const (
	embeddedDefaultLogLevelConstant        = "info"
	embeddedDefaultLogFormatConstant       = "structured"
	embeddedDefaultRemoteNameConstant      = "origin"
	embeddedDefaultBranchNameConstant      = "main"
	embeddedDefaultReviewProviderConstant  = "xai"
	embeddedDefaultReviewModelConstant     = "grok-2-1212"
	embeddedDefaultDocsProviderConstant    = "ollama"
	embeddedDefaultDocsModelConstant       = "gpt-oss:120b-cloud"
	embeddedDefaultDocsBaseURLConstant     = "http://localhost:11434/v1"
	embeddedDefaultDocsOutputConstant      = "docs/generated"
	embeddedDefaultRootPathConstant        = "."
	embeddedDefaultReviewTemperatureValue  = 0.2
	embeddedTemperatureComparisonTolerance = 0.0001
)

func TestEmbeddedDefaultConfigurationProvidesToolDefaults(testInstance *testing.T) {
	configuration := decodeEmbeddedApplicationConfiguration(testInstance)

	assertions := require.New(testInstance)
	assertions.Equal(embeddedDefaultLogLevelConstant, configuration.Common.LogLevel)
	assertions.Equal(embeddedDefaultLogFormatConstant, configuration.Common.LogFormat)
	assertions.Equal(embeddedDefaultRemoteNameConstant, configuration.GitHub.Remote)
	assertions.Equal(embeddedDefaultBranchNameConstant, configuration.GitHub.BaseBranch)
	assertions.Equal(embeddedDefaultBranchNameConstant, configuration.GitHub.WorkBranch)
	assertions.Empty(configuration.GitHub.Repository)
	assertions.Equal(embeddedDefaultReviewProviderConstant, configuration.Tools.Review.Provider)
	assertions.Equal(embeddedDefaultReviewModelConstant, configuration.Tools.Review.Model)
	assertions.InDelta(embeddedDefaultReviewTemperatureValue, configuration.Tools.Review.Temperature, embeddedTemperatureComparisonTolerance)
	assertions.Equal(embeddedDefaultDocsProviderConstant, configuration.Tools.Docs.Provider)
	assertions.Equal(embeddedDefaultDocsModelConstant, configuration.Tools.Docs.Model)
	assertions.Equal(embeddedDefaultDocsBaseURLConstant, configuration.Tools.Docs.BaseURL)
	assertions.Equal(embeddedDefaultDocsOutputConstant, configuration.Tools.Docs.OutputDirectory)
	assertions.Equal([]string{embeddedDefaultRootPathConstant}, configuration.Tools.Docs.Roots)
	assertions.NotEmpty(configuration.Tools.Docs.Extensions)
	assertions.NotEmpty(configuration.Tools.Docs.ExcludeMarkers)
}

func TestEmbeddedDefaultConfigurationMatchesCommandDefaults(testInstance *testing.T) {
	configuration := decodeEmbeddedApplicationConfiguration(testInstance)

	reviewDefaults := review.DefaultCommandConfiguration()
	docsDefaults := docgen.DefaultCommandConfiguration()

	assertions := require.New(testInstance)
	assertions.Equal(reviewDefaults.Provider, configuration.Tools.Review.Provider)
	assertions.Equal(reviewDefaults.Model, configuration.Tools.Review.Model)
	assertions.InDelta(reviewDefaults.Temperature, configuration.Tools.Review.Temperature, embeddedTemperatureComparisonTolerance)
	assertions.Equal(docsDefaults.Provider, configuration.Tools.Docs.Provider)
	assertions.Equal(docsDefaults.Model, configuration.Tools.Docs.Model)
	assertions.Equal(docsDefaults.BaseURL, configuration.Tools.Docs.BaseURL)
	assertions.Equal(docsDefaults.OutputDirectory, configuration.Tools.Docs.OutputDirectory)
	assertions.Equal(docsDefaults.Roots, configuration.Tools.Docs.Roots)
	assertions.Equal(docsDefaults.Extensions, configuration.Tools.Docs.Extensions)
	assertions.Equal(docsDefaults.ExcludeMarkers, configuration.Tools.Docs.ExcludeMarkers)
}

func decodeEmbeddedApplicationConfiguration(testingInstance testing.TB) cli.ApplicationConfiguration {
	testingInstance.Helper()

	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)

	readError := viperInstance.ReadConfig(bytes.NewReader(configurationData))
	require.NoError(testingInstance, readError)

	var configuration cli.ApplicationConfiguration
	unmarshalError := viperInstance.Unmarshal(&configuration)
	require.NoError(testingInstance, unmarshalError)

	return configuration
}
