package llm

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIChatClient completes chats against OpenAI-compatible endpoints.
type OpenAIChatClient struct {
	client openai.Client
}

// NewOpenAIChatClient builds a chat client for OpenAI-compatible endpoints.
// An empty base URL leaves the library default in place.
func NewOpenAIChatClient(apiKey string, baseURL string) *OpenAIChatClient {
	clientOptions := []option.RequestOption{option.WithAPIKey(apiKey)}
	if len(strings.TrimSpace(baseURL)) > 0 {
		clientOptions = append(clientOptions, option.WithBaseURL(baseURL))
	}
	return &OpenAIChatClient{client: openai.NewClient(clientOptions...)}
}

// Complete performs a blocking chat completion and returns the first choice.
func (chatClient *OpenAIChatClient) Complete(executionContext context.Context, request ChatRequest) (string, error) {
	completion, completionError := chatClient.client.Chat.Completions.New(executionContext, buildCompletionParams(request))
	if completionError != nil {
		return "", CompletionError{Model: request.Model, Cause: completionError}
	}
	if len(completion.Choices) == 0 {
		return "", EmptyCompletionError{Model: request.Model}
	}
	return completion.Choices[0].Message.Content, nil
}

// CompleteStreaming performs a streaming chat completion, forwarding each
// content fragment to the handler and returning the accumulated text.
func (chatClient *OpenAIChatClient) CompleteStreaming(executionContext context.Context, request ChatRequest, chunkHandler ChunkHandler) (string, error) {
	completionStream := chatClient.client.Chat.Completions.NewStreaming(executionContext, buildCompletionParams(request))
	defer func() {
		_ = completionStream.Close()
	}()

	accumulator := openai.ChatCompletionAccumulator{}
	for completionStream.Next() {
		completionChunk := completionStream.Current()
		accumulator.AddChunk(completionChunk)
		for _, chunkChoice := range completionChunk.Choices {
			if len(chunkChoice.Delta.Content) > 0 && chunkHandler != nil {
				chunkHandler(chunkChoice.Delta.Content)
			}
		}
	}
	if streamError := completionStream.Err(); streamError != nil {
		return "", CompletionError{Model: request.Model, Cause: streamError}
	}
	if len(accumulator.Choices) == 0 {
		return "", EmptyCompletionError{Model: request.Model}
	}
	return accumulator.Choices[0].Message.Content, nil
}

func buildCompletionParams(request ChatRequest) openai.ChatCompletionNewParams {
	completionParams := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(request.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(request.Prompt)},
	}
	if request.Temperature > 0 {
		completionParams.Temperature = openai.Float(request.Temperature)
	}
	if request.MaxTokens > 0 {
		completionParams.MaxTokens = openai.Int(int64(request.MaxTokens))
	}
	return completionParams
}
