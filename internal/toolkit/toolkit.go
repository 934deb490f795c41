package toolkit

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const (
	duplicateToolErrorTemplateConstant      = "tool %s already registered"
	unknownToolErrorTemplateConstant        = "tool %s is not registered"
	invalidDefinitionErrorTemplateConstant  = "tool definition %s invalid: %s"
	schemaCompilationErrorTemplateConstant  = "schema for tool %s failed to compile: %s"
	argumentValidationErrorTemplateConstant = "arguments for tool %s failed validation: %s"
	argumentCoercionErrorTemplateConstant   = "argument %s expects an integer, received %q"
	unknownArgumentErrorTemplateConstant    = "tool %s has no argument named %s"
	violationSeparatorConstant              = "; "
	toolNameRequiredReasonConstant          = "name required"
	toolRunnerRequiredReasonConstant        = "run function required"
	unsupportedKindReasonTemplateConstant   = "argument %s has unsupported kind %s"
	unnamedToolPlaceholderConstant          = "(unnamed)"
)

// ArgumentKind identifies the value type an argument accepts. Kinds double as
// JSON Schema type names.
type ArgumentKind string

// Supported argument kinds.
const (
	ArgumentKindString ArgumentKind = "string"
	ArgumentKindInt    ArgumentKind = "integer"
)

// ArgumentField describes one tool argument in prompting order.
type ArgumentField struct {
	Name        string
	Description string
	Kind        ArgumentKind
	Required    bool
}

// ArgumentValues carries coerced argument values keyed by field name.
type ArgumentValues map[string]any

// ToolRunner executes a tool once its argument values passed validation.
type ToolRunner func(executionContext context.Context, argumentValues ArgumentValues) (string, error)

// ToolDefinition describes one registered tool. Schema holds the JSON Schema
// document argument values are validated against; Register derives it from
// the argument fields when left empty.
type ToolDefinition struct {
	Name        string
	Description string
	Arguments   []ArgumentField
	Schema      string
	Run         ToolRunner
}

// DuplicateToolError indicates a tool name was registered twice.
type DuplicateToolError struct {
	Name string
}

// Error describes the duplicate registration.
func (duplicateError DuplicateToolError) Error() string {
	return fmt.Sprintf(duplicateToolErrorTemplateConstant, duplicateError.Name)
}

// UnknownToolError indicates a lookup for an unregistered tool name.
type UnknownToolError struct {
	Name string
}

// Error describes the failed lookup.
func (unknownError UnknownToolError) Error() string {
	return fmt.Sprintf(unknownToolErrorTemplateConstant, unknownError.Name)
}

// InvalidDefinitionError indicates a tool definition missing required parts.
type InvalidDefinitionError struct {
	Name   string
	Reason string
}

// Error describes the invalid definition.
func (definitionError InvalidDefinitionError) Error() string {
	displayName := definitionError.Name
	if len(displayName) == 0 {
		displayName = unnamedToolPlaceholderConstant
	}
	return fmt.Sprintf(invalidDefinitionErrorTemplateConstant, displayName, definitionError.Reason)
}

// SchemaCompilationError indicates a tool schema document failed to compile.
type SchemaCompilationError struct {
	Tool  string
	Cause error
}

// Error describes the compilation failure.
func (compilationError SchemaCompilationError) Error() string {
	return fmt.Sprintf(schemaCompilationErrorTemplateConstant, compilationError.Tool, compilationError.Cause)
}

// Unwrap exposes the underlying cause.
func (compilationError SchemaCompilationError) Unwrap() error {
	return compilationError.Cause
}

// ArgumentValidationError reports schema violations for a tool run.
type ArgumentValidationError struct {
	Tool       string
	Violations []string
}

// Error lists the violations.
func (validationError ArgumentValidationError) Error() string {
	return fmt.Sprintf(
		argumentValidationErrorTemplateConstant,
		validationError.Tool,
		strings.Join(validationError.Violations, violationSeparatorConstant),
	)
}

// ArgumentCoercionError indicates textual input that does not parse as the
// argument's kind.
type ArgumentCoercionError struct {
	Argument string
	Value    string
}

// Error describes the failed conversion.
func (coercionError ArgumentCoercionError) Error() string {
	return fmt.Sprintf(argumentCoercionErrorTemplateConstant, coercionError.Argument, coercionError.Value)
}

// UnknownArgumentError indicates input for an argument the tool does not define.
type UnknownArgumentError struct {
	Tool     string
	Argument string
}

// Error describes the unexpected argument.
func (argumentError UnknownArgumentError) Error() string {
	return fmt.Sprintf(unknownArgumentErrorTemplateConstant, argumentError.Tool, argumentError.Argument)
}

// Registry holds tool definitions in registration order and validates
// argument values before dispatch.
type Registry struct {
	definitions     []ToolDefinition
	definitionIndex map[string]int
	compiledSchemas map[string]*gojsonschema.Schema
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		definitionIndex: map[string]int{},
		compiledSchemas: map[string]*gojsonschema.Schema{},
	}
}

// Register validates and stores a tool definition, deriving and compiling its
// argument schema. Duplicate names are rejected.
func (registry *Registry) Register(definition ToolDefinition) error {
	trimmedName := strings.TrimSpace(definition.Name)
	if len(trimmedName) == 0 {
		return InvalidDefinitionError{Reason: toolNameRequiredReasonConstant}
	}
	if definition.Run == nil {
		return InvalidDefinitionError{Name: trimmedName, Reason: toolRunnerRequiredReasonConstant}
	}
	for _, argumentField := range definition.Arguments {
		if argumentField.Kind != ArgumentKindString && argumentField.Kind != ArgumentKindInt {
			return InvalidDefinitionError{
				Name:   trimmedName,
				Reason: fmt.Sprintf(unsupportedKindReasonTemplateConstant, argumentField.Name, argumentField.Kind),
			}
		}
	}
	if _, alreadyRegistered := registry.definitionIndex[trimmedName]; alreadyRegistered {
		return DuplicateToolError{Name: trimmedName}
	}

	definition.Name = trimmedName
	if len(strings.TrimSpace(definition.Schema)) == 0 {
		derivedSchema, derivationError := BuildArgumentSchema(definition.Arguments)
		if derivationError != nil {
			return SchemaCompilationError{Tool: trimmedName, Cause: derivationError}
		}
		definition.Schema = derivedSchema
	}

	compiledSchema, compilationError := gojsonschema.NewSchema(gojsonschema.NewStringLoader(definition.Schema))
	if compilationError != nil {
		return SchemaCompilationError{Tool: trimmedName, Cause: compilationError}
	}

	registry.definitionIndex[trimmedName] = len(registry.definitions)
	registry.definitions = append(registry.definitions, definition)
	registry.compiledSchemas[trimmedName] = compiledSchema
	return nil
}

// Definitions returns the registered tools in registration order.
func (registry *Registry) Definitions() []ToolDefinition {
	definitions := make([]ToolDefinition, len(registry.definitions))
	copy(definitions, registry.definitions)
	return definitions
}

// Lookup returns the definition registered under the trimmed tool name.
func (registry *Registry) Lookup(toolName string) (ToolDefinition, bool) {
	definitionPosition, nameRegistered := registry.definitionIndex[strings.TrimSpace(toolName)]
	if !nameRegistered {
		return ToolDefinition{}, false
	}
	return registry.definitions[definitionPosition], true
}

// Run validates argument values against the tool's schema and executes it.
func (registry *Registry) Run(executionContext context.Context, toolName string, argumentValues ArgumentValues) (string, error) {
	definition, nameRegistered := registry.Lookup(toolName)
	if !nameRegistered {
		return "", UnknownToolError{Name: strings.TrimSpace(toolName)}
	}

	if argumentValues == nil {
		argumentValues = ArgumentValues{}
	}
	validationResult, validationError := registry.compiledSchemas[definition.Name].Validate(gojsonschema.NewGoLoader(argumentValues))
	if validationError != nil {
		return "", ArgumentValidationError{Tool: definition.Name, Violations: []string{validationError.Error()}}
	}
	if !validationResult.Valid() {
		violations := make([]string, 0, len(validationResult.Errors()))
		for _, validationFailure := range validationResult.Errors() {
			violations = append(violations, validationFailure.String())
		}
		return "", ArgumentValidationError{Tool: definition.Name, Violations: violations}
	}

	return definition.Run(executionContext, argumentValues)
}

// CoerceArgumentValues converts textual argument input into typed values
// following the definition's argument kinds. Blank and missing inputs are
// omitted so required-field violations surface during validation.
func CoerceArgumentValues(definition ToolDefinition, rawValues map[string]string) (ArgumentValues, error) {
	fieldKinds := make(map[string]ArgumentKind, len(definition.Arguments))
	for _, argumentField := range definition.Arguments {
		fieldKinds[argumentField.Name] = argumentField.Kind
	}
	for rawName := range rawValues {
		if _, fieldKnown := fieldKinds[rawName]; !fieldKnown {
			return nil, UnknownArgumentError{Tool: definition.Name, Argument: rawName}
		}
	}

	argumentValues := ArgumentValues{}
	for _, argumentField := range definition.Arguments {
		rawValue, valueProvided := rawValues[argumentField.Name]
		if !valueProvided {
			continue
		}
		trimmedValue := strings.TrimSpace(rawValue)
		if len(trimmedValue) == 0 {
			continue
		}
		switch argumentField.Kind {
		case ArgumentKindInt:
			parsedValue, parseError := strconv.Atoi(trimmedValue)
			if parseError != nil {
				return nil, ArgumentCoercionError{Argument: argumentField.Name, Value: trimmedValue}
			}
			argumentValues[argumentField.Name] = parsedValue
		default:
			argumentValues[argumentField.Name] = rawValue
		}
	}
	return argumentValues, nil
}
