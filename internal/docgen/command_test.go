package docgen_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ravdin/repolens/internal/docgen"
	"github.com/ravdin/repolens/internal/llm"
)

func buildDocsCommandTestTree(testInstance *testing.T) (string, string) {
	testInstance.Helper()
	rootDirectory := testInstance.TempDir()
	writeTestFile(testInstance, rootDirectory, "alpha.py", "print()\n")
	outputDirectory := filepath.Join(testInstance.TempDir(), "generated")
	return rootDirectory, outputDirectory
}

func TestDocsCommandGeneratesDocumentation(testInstance *testing.T) {
	rootDirectory, outputDirectory := buildDocsCommandTestTree(testInstance)

	chatClient := &stubChatClient{completionText: "# Doc\n"}
	var recordedSettings llm.ProviderSettings

	builder := docgen.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() docgen.CommandConfiguration {
			return docgen.CommandConfiguration{
				Provider:        "ollama",
				Model:           "gpt-oss:120b-cloud",
				BaseURL:         "http://localhost:11434/v1",
				Roots:           []string{rootDirectory},
				OutputDirectory: outputDirectory,
			}
		},
		ChatClientFactory: func(settings llm.ProviderSettings) (llm.ChatClient, error) {
			recordedSettings = settings
			return chatClient, nil
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &strings.Builder{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetContext(context.Background())
	command.SetArgs([]string{})

	executionError := command.Execute()
	require.NoError(testInstance, executionError)

	require.Contains(testInstance, outputBuffer.String(), "Found 1 source files to document.")
	require.Contains(testInstance, outputBuffer.String(), "Documentation generation complete!")
	require.Equal(testInstance, llm.ProviderOllama, recordedSettings.Provider)
	require.Equal(testInstance, "http://localhost:11434/v1", recordedSettings.BaseURL)

	require.Len(testInstance, chatClient.recordedRequests, 1)
	require.Equal(testInstance, "gpt-oss:120b-cloud", chatClient.recordedRequests[0].Model)

	sourcePath := filepath.Join(rootDirectory, "alpha.py")
	documentBytes, documentReadError := os.ReadFile(filepath.Join(outputDirectory, flattenedDocumentName(sourcePath)))
	require.NoError(testInstance, documentReadError)
	require.Equal(testInstance, "# Doc\n", string(documentBytes))

	manifestBytes, manifestReadError := os.ReadFile(filepath.Join(outputDirectory, "index.yaml"))
	require.NoError(testInstance, manifestReadError)
	var decodedManifest struct {
		Documents []docgen.ManifestEntry `yaml:"documents"`
	}
	require.NoError(testInstance, yaml.Unmarshal(manifestBytes, &decodedManifest))
	require.Len(testInstance, decodedManifest.Documents, 1)
	require.Equal(testInstance, sourcePath, decodedManifest.Documents[0].Source)
}

func TestDocsCommandFlagOverrides(testInstance *testing.T) {
	rootDirectory, outputDirectory := buildDocsCommandTestTree(testInstance)

	chatClient := &stubChatClient{completionText: "# Doc\n"}
	var recordedSettings llm.ProviderSettings

	builder := docgen.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() docgen.CommandConfiguration {
			return docgen.CommandConfiguration{
				Provider:        "ollama",
				Model:           "gpt-oss:120b-cloud",
				Roots:           []string{filepath.Join(testInstance.TempDir(), "ignored")},
				OutputDirectory: filepath.Join(testInstance.TempDir(), "ignored-output"),
			}
		},
		ChatClientFactory: func(settings llm.ProviderSettings) (llm.ChatClient, error) {
			recordedSettings = settings
			return chatClient, nil
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&strings.Builder{})
	command.SetErr(&strings.Builder{})
	command.SetContext(context.Background())
	command.SetArgs([]string{rootDirectory, "--provider", "openai", "--model", "gpt-4o", "--output-dir", outputDirectory})

	executionError := command.Execute()
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, llm.ProviderOpenAI, recordedSettings.Provider)
	require.Len(testInstance, chatClient.recordedRequests, 1)
	require.Equal(testInstance, "gpt-4o", chatClient.recordedRequests[0].Model)

	sourcePath := filepath.Join(rootDirectory, "alpha.py")
	_, documentStatError := os.Stat(filepath.Join(outputDirectory, flattenedDocumentName(sourcePath)))
	require.NoError(testInstance, documentStatError)
}

func TestDocsCommandCombinesRootArgumentsAndFlags(testInstance *testing.T) {
	firstRoot := testInstance.TempDir()
	writeTestFile(testInstance, firstRoot, "alpha.py", "print()\n")
	secondRoot := testInstance.TempDir()
	writeTestFile(testInstance, secondRoot, "beta.py", "print()\n")
	outputDirectory := filepath.Join(testInstance.TempDir(), "generated")

	chatClient := &stubChatClient{completionText: "# Doc\n"}
	builder := docgen.CommandBuilder{
		ConfigurationProvider: func() docgen.CommandConfiguration {
			return docgen.CommandConfiguration{OutputDirectory: outputDirectory}
		},
		ChatClientFactory: func(llm.ProviderSettings) (llm.ChatClient, error) {
			return chatClient, nil
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &strings.Builder{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetContext(context.Background())
	command.SetArgs([]string{firstRoot, "--root", secondRoot})

	executionError := command.Execute()
	require.NoError(testInstance, executionError)

	require.Contains(testInstance, outputBuffer.String(), "Found 2 source files to document.")
	require.Equal(testInstance, 2, chatClient.streamingInvocations)
}

func TestDocsCommandIndexToggleDisablesManifest(testInstance *testing.T) {
	rootDirectory, outputDirectory := buildDocsCommandTestTree(testInstance)

	builder := docgen.CommandBuilder{
		ConfigurationProvider: func() docgen.CommandConfiguration {
			return docgen.CommandConfiguration{
				Roots:           []string{rootDirectory},
				OutputDirectory: outputDirectory,
			}
		},
		ChatClientFactory: func(llm.ProviderSettings) (llm.ChatClient, error) {
			return &stubChatClient{completionText: "# Doc\n"}, nil
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&strings.Builder{})
	command.SetErr(&strings.Builder{})
	command.SetContext(context.Background())
	command.SetArgs([]string{"--index=no"})

	executionError := command.Execute()
	require.NoError(testInstance, executionError)

	sourcePath := filepath.Join(rootDirectory, "alpha.py")
	_, documentStatError := os.Stat(filepath.Join(outputDirectory, flattenedDocumentName(sourcePath)))
	require.NoError(testInstance, documentStatError)
	_, manifestStatError := os.Stat(filepath.Join(outputDirectory, "index.yaml"))
	require.True(testInstance, os.IsNotExist(manifestStatError))
}

func TestDocsCommandReportsChatClientFailure(testInstance *testing.T) {
	rootDirectory, outputDirectory := buildDocsCommandTestTree(testInstance)

	builder := docgen.CommandBuilder{
		ConfigurationProvider: func() docgen.CommandConfiguration {
			return docgen.CommandConfiguration{
				Roots:           []string{rootDirectory},
				OutputDirectory: outputDirectory,
			}
		},
		ChatClientFactory: func(llm.ProviderSettings) (llm.ChatClient, error) {
			return nil, errors.New("missing credentials")
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&strings.Builder{})
	command.SetErr(&strings.Builder{})
	command.SetContext(context.Background())
	command.SetArgs([]string{})

	executionError := command.Execute()
	require.Error(testInstance, executionError)
	require.Equal(testInstance, "unable to create chat client: missing credentials", executionError.Error())
}
