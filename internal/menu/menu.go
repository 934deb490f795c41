package menu

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ravdin/repolens/internal/toolkit"
)

const (
	menuHeaderConstant                  = "\n===== GitHub Toolkit CLI =====\n"
	menuEntryTemplateConstant           = "%d. %s\n"
	reviewEntryTemplateConstant         = "%d. Analyze pull request with %s\n"
	exitEntryConstant                   = "0. Exit\n\n"
	choicePromptConstant                = "Enter your choice: "
	exitChoiceConstant                  = "0"
	farewellMessageConstant             = "Exiting... Goodbye!\n"
	invalidChoiceMessageConstant        = "Invalid choice! Try again.\n"
	argumentPromptTemplateConstant      = "Enter %s: "
	requiredArgumentTemplateConstant    = "Error: %s is required.\n"
	toolErrorTemplateConstant           = "Error executing %s: %s\n"
	outputHeaderConstant                = "\n--- Output ---\n"
	outputFooterConstant                = "--------------\n\n"
	pullRequestPromptConstant           = "Enter PR number to analyze: "
	missingPullRequestMessageConstant   = "No PR number entered. Aborting.\n"
	invalidPullRequestMessageConstant   = "Invalid PR number. Must be a positive integer.\n"
	reviewErrorTemplateConstant         = "Error analyzing PR #%d: %s\n"
	jsonIndentationConstant             = "  "
	argumentPairSeparatorConstant       = "="
	argumentPairErrorTemplateConstant   = "argument %q must use key=value form"
	reviewFailureLogMessageConstant     = "pull request review failed"
	registryRequiredMessageConstant     = "tool registry required"
	reviewRunnerRequiredMessageConstant = "review runner required"
	reviewModelRequiredMessageConstant  = "review model required"
	inputReaderRequiredMessageConstant  = "input reader required"
	outputWriterRequiredMessageConstant = "output writer required"
	loggerRequiredMessageConstant       = "logger required"
)

// ErrRegistryNotConfigured indicates menu construction without a registry.
var ErrRegistryNotConfigured = errors.New(registryRequiredMessageConstant)

// ErrReviewRunnerNotConfigured indicates menu construction without a review runner.
var ErrReviewRunnerNotConfigured = errors.New(reviewRunnerRequiredMessageConstant)

// ErrReviewModelNotConfigured indicates menu construction without a review model.
var ErrReviewModelNotConfigured = errors.New(reviewModelRequiredMessageConstant)

// ErrInputReaderNotConfigured indicates menu construction without an input reader.
var ErrInputReaderNotConfigured = errors.New(inputReaderRequiredMessageConstant)

// ErrOutputWriterNotConfigured indicates menu construction without an output writer.
var ErrOutputWriterNotConfigured = errors.New(outputWriterRequiredMessageConstant)

// ErrLoggerNotConfigured indicates menu construction without a logger.
var ErrLoggerNotConfigured = errors.New(loggerRequiredMessageConstant)

// MalformedArgumentError indicates a non-interactive argument outside key=value form.
type MalformedArgumentError struct {
	Pair string
}

// Error describes the malformed argument.
func (argumentError MalformedArgumentError) Error() string {
	return fmt.Sprintf(argumentPairErrorTemplateConstant, argumentError.Pair)
}

// ReviewRunner analyzes one pull request.
type ReviewRunner interface {
	AnalyzePullRequest(executionContext context.Context, pullRequestNumber int) error
}

// ServiceDependencies carries the collaborators the menu needs.
type ServiceDependencies struct {
	Input        io.Reader
	Output       io.Writer
	Registry     *toolkit.Registry
	ReviewRunner ReviewRunner
	ReviewModel  string
	Logger       *zap.Logger
}

// Service renders the numbered tool menu and dispatches user choices.
type Service struct {
	reader       *bufio.Reader
	writer       io.Writer
	registry     *toolkit.Registry
	reviewRunner ReviewRunner
	reviewModel  string
	logger       *zap.Logger
}

// NewService builds the menu service after validating its dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Input == nil {
		return nil, ErrInputReaderNotConfigured
	}
	if dependencies.Output == nil {
		return nil, ErrOutputWriterNotConfigured
	}
	if dependencies.Registry == nil {
		return nil, ErrRegistryNotConfigured
	}
	if dependencies.ReviewRunner == nil {
		return nil, ErrReviewRunnerNotConfigured
	}
	trimmedModel := strings.TrimSpace(dependencies.ReviewModel)
	if len(trimmedModel) == 0 {
		return nil, ErrReviewModelNotConfigured
	}
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	return &Service{
		reader:       bufio.NewReader(dependencies.Input),
		writer:       dependencies.Output,
		registry:     dependencies.Registry,
		reviewRunner: dependencies.ReviewRunner,
		reviewModel:  trimmedModel,
		logger:       dependencies.Logger,
	}, nil
}

// Run loops over the menu until the user exits or input ends.
func (service *Service) Run(executionContext context.Context) error {
	for {
		service.printMenu()
		choiceLine, endOfInput, readError := service.readLine(choicePromptConstant)
		if readError != nil {
			return readError
		}
		choice := strings.TrimSpace(choiceLine)
		if choice == exitChoiceConstant || (endOfInput && len(choice) == 0) {
			fmt.Fprint(service.writer, farewellMessageConstant)
			return nil
		}
		service.dispatchChoice(executionContext, choice)
		if endOfInput {
			fmt.Fprint(service.writer, farewellMessageConstant)
			return nil
		}
	}
}

// RunTool dispatches one tool without the interactive menu. Argument pairs
// use key=value form and route through the same coercion and validation as
// interactive runs.
func (service *Service) RunTool(executionContext context.Context, toolName string, argumentPairs []string) error {
	definition, definitionFound := service.registry.Lookup(toolName)
	if !definitionFound {
		return toolkit.UnknownToolError{Name: strings.TrimSpace(toolName)}
	}

	rawValues := map[string]string{}
	for _, argumentPair := range argumentPairs {
		separatorIndex := strings.Index(argumentPair, argumentPairSeparatorConstant)
		if separatorIndex < 1 {
			return MalformedArgumentError{Pair: argumentPair}
		}
		rawValues[argumentPair[:separatorIndex]] = argumentPair[separatorIndex+1:]
	}

	argumentValues, coercionError := toolkit.CoerceArgumentValues(definition, rawValues)
	if coercionError != nil {
		return coercionError
	}
	toolOutput, runError := service.registry.Run(executionContext, definition.Name, argumentValues)
	if runError != nil {
		return runError
	}
	service.printToolOutput(toolOutput)
	return nil
}

func (service *Service) printMenu() {
	fmt.Fprint(service.writer, menuHeaderConstant)
	definitions := service.registry.Definitions()
	for definitionIndex, definition := range definitions {
		fmt.Fprintf(service.writer, menuEntryTemplateConstant, definitionIndex+1, definition.Name)
	}
	fmt.Fprintf(service.writer, reviewEntryTemplateConstant, len(definitions)+1, service.reviewModel)
	fmt.Fprint(service.writer, exitEntryConstant)
}

func (service *Service) dispatchChoice(executionContext context.Context, choice string) {
	definitions := service.registry.Definitions()
	if choice == strconv.Itoa(len(definitions)+1) {
		service.promptAndRunReview(executionContext)
		return
	}
	choiceNumber, parseError := strconv.Atoi(choice)
	if parseError != nil || choiceNumber < 1 || choiceNumber > len(definitions) {
		fmt.Fprint(service.writer, invalidChoiceMessageConstant)
		return
	}
	service.runTool(executionContext, definitions[choiceNumber-1])
}

func (service *Service) runTool(executionContext context.Context, definition toolkit.ToolDefinition) {
	rawValues := map[string]string{}
	for _, argumentField := range definition.Arguments {
		valueLine, _, readError := service.readLine(fmt.Sprintf(argumentPromptTemplateConstant, argumentField.Name))
		if readError != nil {
			fmt.Fprintf(service.writer, toolErrorTemplateConstant, definition.Name, readError)
			return
		}
		if len(valueLine) == 0 {
			if argumentField.Required {
				fmt.Fprintf(service.writer, requiredArgumentTemplateConstant, argumentField.Name)
				return
			}
			continue
		}
		rawValues[argumentField.Name] = valueLine
	}

	argumentValues, coercionError := toolkit.CoerceArgumentValues(definition, rawValues)
	if coercionError != nil {
		fmt.Fprintf(service.writer, toolErrorTemplateConstant, definition.Name, coercionError)
		return
	}
	toolOutput, runError := service.registry.Run(executionContext, definition.Name, argumentValues)
	if runError != nil {
		fmt.Fprintf(service.writer, toolErrorTemplateConstant, definition.Name, runError)
		return
	}
	service.printToolOutput(toolOutput)
}

// printToolOutput frames the output, pretty-printing payloads that parse as JSON.
func (service *Service) printToolOutput(toolOutput string) {
	fmt.Fprint(service.writer, outputHeaderConstant)
	renderedOutput := toolOutput
	var decodedPayload any
	if json.Unmarshal([]byte(toolOutput), &decodedPayload) == nil {
		indentedOutput, indentError := json.MarshalIndent(decodedPayload, "", jsonIndentationConstant)
		if indentError == nil {
			renderedOutput = string(indentedOutput)
		}
	}
	fmt.Fprintln(service.writer, renderedOutput)
	fmt.Fprint(service.writer, outputFooterConstant)
}

func (service *Service) promptAndRunReview(executionContext context.Context) {
	numberLine, _, readError := service.readLine(pullRequestPromptConstant)
	if readError != nil {
		service.logger.Error(reviewFailureLogMessageConstant, zap.Error(readError))
		return
	}
	trimmedNumber := strings.TrimSpace(numberLine)
	if len(trimmedNumber) == 0 {
		fmt.Fprint(service.writer, missingPullRequestMessageConstant)
		return
	}
	pullRequestNumber, parseError := strconv.Atoi(trimmedNumber)
	if parseError != nil || pullRequestNumber <= 0 {
		fmt.Fprint(service.writer, invalidPullRequestMessageConstant)
		return
	}
	if reviewError := service.reviewRunner.AnalyzePullRequest(executionContext, pullRequestNumber); reviewError != nil {
		fmt.Fprintf(service.writer, reviewErrorTemplateConstant, pullRequestNumber, reviewError)
		service.logger.Error(reviewFailureLogMessageConstant, zap.Error(reviewError))
	}
}

// readLine writes the prompt and reads one line, reporting whether input
// ended. The trailing line break is stripped; other whitespace is kept so
// argument values survive intact.
func (service *Service) readLine(prompt string) (string, bool, error) {
	if _, writeError := io.WriteString(service.writer, prompt); writeError != nil {
		return "", false, writeError
	}
	lineText, readError := service.reader.ReadString('\n')
	if readError != nil && readError != io.EOF {
		return "", false, readError
	}
	return strings.TrimRight(lineText, "\r\n"), readError == io.EOF, nil
}
