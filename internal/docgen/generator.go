package docgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ravdin/repolens/internal/llm"
)

const (
	defaultRootConstant                    = "."
	scanHeaderTemplateConstant             = "Found %d source files to document.\n\n"
	generatingTemplateConstant             = "Generating docs for: %s\n"
	unreadableFileTemplateConstant         = "  Could not read %s: %s\n"
	savedTemplateConstant                  = "Saved documentation: %s\n"
	completionMessageConstant              = "Documentation generation complete!\n"
	docFileSuffixConstant                  = "_doc.md"
	manifestFileNameConstant               = "index.yaml"
	docsDirectoryPermissionsConstant       = 0o755
	docsFilePermissionsConstant            = 0o644
	generationFailureLogMessageConstant    = "documentation completion failed"
	documentSaveFailureLogMessageConstant  = "saving documentation failed"
	manifestWriteFailureLogMessageConstant = "writing documentation manifest failed"
	docFileLogFieldConstant                = "file"
	chatClientRequiredMessageConstant      = "chat client required"
	outputWriterRequiredMessageConstant    = "output writer required"
	loggerRequiredMessageConstant          = "logger required"
	modelRequiredMessageConstant           = "chat model required"
	outputDirectoryRequiredMessageConstant = "output directory required"
)

// ErrChatClientNotConfigured indicates service construction without a chat client.
var ErrChatClientNotConfigured = errors.New(chatClientRequiredMessageConstant)

// ErrOutputWriterNotConfigured indicates service construction without an output writer.
var ErrOutputWriterNotConfigured = errors.New(outputWriterRequiredMessageConstant)

// ErrLoggerNotConfigured indicates service construction without a logger.
var ErrLoggerNotConfigured = errors.New(loggerRequiredMessageConstant)

// ErrModelNotConfigured indicates service construction without a chat model.
var ErrModelNotConfigured = errors.New(modelRequiredMessageConstant)

// ErrOutputDirectoryNotConfigured indicates service construction without an output directory.
var ErrOutputDirectoryNotConfigured = errors.New(outputDirectoryRequiredMessageConstant)

// ManifestEntry records one generated document in the run manifest.
type ManifestEntry struct {
	Source  string   `yaml:"source"`
	Output  string   `yaml:"output"`
	Related []string `yaml:"related,omitempty"`
}

type documentManifest struct {
	Documents []ManifestEntry `yaml:"documents"`
}

// ServiceOptions carries the tunable settings for documentation generation.
type ServiceOptions struct {
	Roots           []string
	OutputDirectory string
	Model           string
	Extensions      []string
	ExcludeMarkers  []string
	SkipManifest    bool
}

// ServiceDependencies lists the collaborators a documentation service requires.
type ServiceDependencies struct {
	Chat    llm.ChatClient
	Output  io.Writer
	Logger  *zap.Logger
	Options ServiceOptions
}

// Service documents a source tree file by file with a chat model.
type Service struct {
	scanner         *SourceScanner
	chatClient      llm.ChatClient
	writer          io.Writer
	logger          *zap.Logger
	roots           []string
	outputDirectory string
	model           string
	skipManifest    bool
}

// NewService validates the dependencies and assembles a documentation service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Chat == nil {
		return nil, ErrChatClientNotConfigured
	}
	if dependencies.Output == nil {
		return nil, ErrOutputWriterNotConfigured
	}
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	modelName := strings.TrimSpace(dependencies.Options.Model)
	if len(modelName) == 0 {
		return nil, ErrModelNotConfigured
	}
	outputDirectory := strings.TrimSpace(dependencies.Options.OutputDirectory)
	if len(outputDirectory) == 0 {
		return nil, ErrOutputDirectoryNotConfigured
	}
	documentationRoots := dependencies.Options.Roots
	if len(documentationRoots) == 0 {
		documentationRoots = []string{defaultRootConstant}
	}
	return &Service{
		scanner: NewSourceScanner(ScannerOptions{
			Extensions:      dependencies.Options.Extensions,
			ExcludeMarkers:  dependencies.Options.ExcludeMarkers,
			OutputDirectory: outputDirectory,
		}),
		chatClient:      dependencies.Chat,
		writer:          dependencies.Output,
		logger:          dependencies.Logger,
		roots:           documentationRoots,
		outputDirectory: outputDirectory,
		model:           modelName,
		skipManifest:    dependencies.Options.SkipManifest,
	}, nil
}

// GenerateDocumentation scans the configured roots, asks the chat model for
// a document per source file, saves the documents under the output
// directory, and writes an index.yaml manifest of the run. File and chat
// failures skip the affected file so the remaining files still generate.
func (service *Service) GenerateDocumentation(executionContext context.Context) error {
	sourceFiles, scanError := service.scanner.ListSourceFiles(service.roots)
	if scanError != nil {
		return scanError
	}
	dependencyMap := BuildDependencyMap(sourceFiles)
	fmt.Fprintf(service.writer, scanHeaderTemplateConstant, len(sourceFiles))

	manifestEntries := make([]ManifestEntry, 0, len(sourceFiles))
	for _, sourceFile := range sourceFiles {
		fmt.Fprintf(service.writer, generatingTemplateConstant, sourceFile)
		sourceBytes, readError := os.ReadFile(sourceFile)
		if readError != nil {
			fmt.Fprintf(service.writer, unreadableFileTemplateConstant, sourceFile, readError)
			continue
		}
		documentationText, completionError := service.chatClient.CompleteStreaming(executionContext, llm.ChatRequest{
			Model:  service.model,
			Prompt: BuildDocumentationPrompt(sourceFile, string(sourceBytes), dependencyMap[sourceFile]),
		}, nil)
		if completionError != nil {
			service.logger.Warn(generationFailureLogMessageConstant, zap.String(docFileLogFieldConstant, sourceFile), zap.Error(completionError))
			continue
		}
		outputName := flattenDocumentPath(sourceFile)
		if saveError := service.saveDocument(outputName, documentationText); saveError != nil {
			service.logger.Warn(documentSaveFailureLogMessageConstant, zap.String(docFileLogFieldConstant, sourceFile), zap.Error(saveError))
			continue
		}
		fmt.Fprintf(service.writer, savedTemplateConstant, filepath.Join(service.outputDirectory, outputName))
		manifestEntries = append(manifestEntries, ManifestEntry{
			Source:  sourceFile,
			Output:  outputName,
			Related: dependencyMap[sourceFile],
		})
	}
	fmt.Fprint(service.writer, completionMessageConstant)
	if !service.skipManifest {
		service.writeManifest(manifestEntries)
	}
	return nil
}

func (service *Service) saveDocument(outputName string, documentationText string) error {
	if makeDirectoryError := os.MkdirAll(service.outputDirectory, docsDirectoryPermissionsConstant); makeDirectoryError != nil {
		return makeDirectoryError
	}
	return os.WriteFile(filepath.Join(service.outputDirectory, outputName), []byte(documentationText), docsFilePermissionsConstant)
}

func (service *Service) writeManifest(manifestEntries []ManifestEntry) {
	manifestBytes, marshalError := yaml.Marshal(documentManifest{Documents: manifestEntries})
	if marshalError != nil {
		service.logger.Warn(manifestWriteFailureLogMessageConstant, zap.Error(marshalError))
		return
	}
	if makeDirectoryError := os.MkdirAll(service.outputDirectory, docsDirectoryPermissionsConstant); makeDirectoryError != nil {
		service.logger.Warn(manifestWriteFailureLogMessageConstant, zap.Error(makeDirectoryError))
		return
	}
	manifestPath := filepath.Join(service.outputDirectory, manifestFileNameConstant)
	if writeError := os.WriteFile(manifestPath, manifestBytes, docsFilePermissionsConstant); writeError != nil {
		service.logger.Warn(manifestWriteFailureLogMessageConstant, zap.Error(writeError))
	}
}

// flattenDocumentPath turns a source path into a single file name by
// replacing path separators with underscores.
func flattenDocumentPath(filePath string) string {
	flattenedName := strings.ReplaceAll(filePath, "/", "_")
	flattenedName = strings.ReplaceAll(flattenedName, "\\", "_")
	return flattenedName + docFileSuffixConstant
}
