package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
)

const (
	xaiBaseURLConstant                         = "https://api.x.ai/v1"
	ollamaBaseURLConstant                      = "http://localhost:11434/v1"
	xaiAPIKeyEnvironmentVariableConstant       = "XAI_API_KEY"
	openAIAPIKeyEnvironmentVariableConstant    = "OPENAI_API_KEY"
	ollamaAPIKeyEnvironmentVariableConstant    = "OLLAMA_API_KEY"
	anthropicAPIKeyEnvironmentVariableConstant = "ANTHROPIC_API_KEY"
	ollamaAPIKeyPlaceholderConstant            = "ollama"
	unknownProviderErrorTemplateConstant       = "unknown chat provider %q"
	missingAPIKeyErrorTemplateConstant         = "api key for provider %s missing: set %s"
	completionErrorTemplateConstant            = "chat completion with %s failed: %s"
	emptyCompletionErrorTemplateConstant       = "chat completion with %s returned no choices"
)

// ProviderName identifies a supported chat provider.
type ProviderName string

// Supported chat providers.
const (
	ProviderXAI       ProviderName = "xai"
	ProviderOpenAI    ProviderName = "openai"
	ProviderOllama    ProviderName = "ollama"
	ProviderAnthropic ProviderName = "anthropic"
)

// ProviderChoices lists the supported provider names in menu order.
func ProviderChoices() []string {
	return []string{
		string(ProviderXAI),
		string(ProviderOpenAI),
		string(ProviderOllama),
		string(ProviderAnthropic),
	}
}

// ChatRequest describes one chat completion exchange.
type ChatRequest struct {
	Model       string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// ChunkHandler receives streamed completion fragments as they arrive.
type ChunkHandler func(chunk string)

// ChatClient abstracts chat completion providers.
type ChatClient interface {
	Complete(executionContext context.Context, request ChatRequest) (string, error)
	CompleteStreaming(executionContext context.Context, request ChatRequest, chunkHandler ChunkHandler) (string, error)
}

// ProviderSettings selects and configures a chat provider.
type ProviderSettings struct {
	Provider ProviderName
	APIKey   string
	BaseURL  string
}

// UnknownProviderError indicates an unsupported provider name.
type UnknownProviderError struct {
	Provider ProviderName
}

// Error describes the unsupported provider.
func (providerError UnknownProviderError) Error() string {
	return fmt.Sprintf(unknownProviderErrorTemplateConstant, string(providerError.Provider))
}

// MissingAPIKeyError indicates a provider requires a key that was not supplied.
type MissingAPIKeyError struct {
	Provider            ProviderName
	EnvironmentVariable string
}

// Error describes the missing credential.
func (keyError MissingAPIKeyError) Error() string {
	return fmt.Sprintf(missingAPIKeyErrorTemplateConstant, string(keyError.Provider), keyError.EnvironmentVariable)
}

// CompletionError wraps provider failures during a chat completion.
type CompletionError struct {
	Model string
	Cause error
}

// Error describes the completion failure.
func (completionError CompletionError) Error() string {
	return fmt.Sprintf(completionErrorTemplateConstant, completionError.Model, completionError.Cause)
}

// Unwrap exposes the underlying cause.
func (completionError CompletionError) Unwrap() error {
	return completionError.Cause
}

// EmptyCompletionError indicates the provider answered without any choices.
type EmptyCompletionError struct {
	Model string
}

// Error describes the empty completion.
func (emptyError EmptyCompletionError) Error() string {
	return fmt.Sprintf(emptyCompletionErrorTemplateConstant, emptyError.Model)
}

// NewChatClient builds the chat client for the configured provider, filling
// API keys and base URLs from provider-specific environment defaults.
func NewChatClient(settings ProviderSettings) (ChatClient, error) {
	providerName := ProviderName(strings.ToLower(strings.TrimSpace(string(settings.Provider))))

	switch providerName {
	case ProviderXAI:
		apiKey := resolveAPIKey(settings.APIKey, xaiAPIKeyEnvironmentVariableConstant)
		if len(apiKey) == 0 {
			return nil, MissingAPIKeyError{Provider: providerName, EnvironmentVariable: xaiAPIKeyEnvironmentVariableConstant}
		}
		return NewOpenAIChatClient(apiKey, resolveBaseURL(settings.BaseURL, xaiBaseURLConstant)), nil
	case ProviderOpenAI:
		apiKey := resolveAPIKey(settings.APIKey, openAIAPIKeyEnvironmentVariableConstant)
		if len(apiKey) == 0 {
			return nil, MissingAPIKeyError{Provider: providerName, EnvironmentVariable: openAIAPIKeyEnvironmentVariableConstant}
		}
		return NewOpenAIChatClient(apiKey, resolveBaseURL(settings.BaseURL, "")), nil
	case ProviderOllama:
		apiKey := resolveAPIKey(settings.APIKey, ollamaAPIKeyEnvironmentVariableConstant)
		if len(apiKey) == 0 {
			apiKey = ollamaAPIKeyPlaceholderConstant
		}
		return NewOpenAIChatClient(apiKey, resolveBaseURL(settings.BaseURL, ollamaBaseURLConstant)), nil
	case ProviderAnthropic:
		apiKey := resolveAPIKey(settings.APIKey, anthropicAPIKeyEnvironmentVariableConstant)
		if len(apiKey) == 0 {
			return nil, MissingAPIKeyError{Provider: providerName, EnvironmentVariable: anthropicAPIKeyEnvironmentVariableConstant}
		}
		return NewAnthropicChatClient(apiKey), nil
	default:
		return nil, UnknownProviderError{Provider: settings.Provider}
	}
}

func resolveAPIKey(configuredKey string, environmentVariable string) string {
	trimmedKey := strings.TrimSpace(configuredKey)
	if len(trimmedKey) > 0 {
		return trimmedKey
	}
	environmentValue, valueAvailable := os.LookupEnv(environmentVariable)
	if valueAvailable {
		return strings.TrimSpace(environmentValue)
	}
	return ""
}

func resolveBaseURL(configuredBaseURL string, defaultBaseURL string) string {
	trimmedBaseURL := strings.TrimSpace(configuredBaseURL)
	if len(trimmedBaseURL) > 0 {
		return trimmedBaseURL
	}
	return defaultBaseURL
}
