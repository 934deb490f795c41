package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicDefaultMaxTokensConstant = 4096

// AnthropicChatClient completes chats against the Anthropic messages API.
type AnthropicChatClient struct {
	client anthropic.Client
}

// NewAnthropicChatClient builds a chat client for the Anthropic messages API.
func NewAnthropicChatClient(apiKey string) *AnthropicChatClient {
	return &AnthropicChatClient{client: anthropic.NewClient(option.WithAPIKey(apiKey))}
}

// Complete performs a blocking chat completion and returns the joined text blocks.
func (chatClient *AnthropicChatClient) Complete(executionContext context.Context, request ChatRequest) (string, error) {
	message, messageError := chatClient.client.Messages.New(executionContext, buildMessageParams(request))
	if messageError != nil {
		return "", CompletionError{Model: request.Model, Cause: messageError}
	}
	responseText := collectMessageText(*message)
	if len(responseText) == 0 {
		return "", EmptyCompletionError{Model: request.Model}
	}
	return responseText, nil
}

// CompleteStreaming performs a streaming chat completion, forwarding each text
// delta to the handler and returning the accumulated text.
func (chatClient *AnthropicChatClient) CompleteStreaming(executionContext context.Context, request ChatRequest, chunkHandler ChunkHandler) (string, error) {
	messageStream := chatClient.client.Messages.NewStreaming(executionContext, buildMessageParams(request))
	defer func() {
		_ = messageStream.Close()
	}()

	accumulatedMessage := anthropic.Message{}
	for messageStream.Next() {
		streamEvent := messageStream.Current()
		if accumulateError := accumulatedMessage.Accumulate(streamEvent); accumulateError != nil {
			return "", CompletionError{Model: request.Model, Cause: accumulateError}
		}
		if deltaEvent, isDeltaEvent := streamEvent.AsAny().(anthropic.ContentBlockDeltaEvent); isDeltaEvent {
			if textDelta, isTextDelta := deltaEvent.Delta.AsAny().(anthropic.TextDelta); isTextDelta {
				if len(textDelta.Text) > 0 && chunkHandler != nil {
					chunkHandler(textDelta.Text)
				}
			}
		}
	}
	if streamError := messageStream.Err(); streamError != nil {
		return "", CompletionError{Model: request.Model, Cause: streamError}
	}
	responseText := collectMessageText(accumulatedMessage)
	if len(responseText) == 0 {
		return "", EmptyCompletionError{Model: request.Model}
	}
	return responseText, nil
}

// buildMessageParams translates the request into messages API parameters. The
// messages API requires max_tokens, so a default applies when the request
// leaves it unset.
func buildMessageParams(request ChatRequest) anthropic.MessageNewParams {
	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokensConstant
	}
	messageParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(request.Model),
		MaxTokens: int64(maxTokens),
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(request.Prompt))},
	}
	if request.Temperature > 0 {
		messageParams.Temperature = anthropic.Float(request.Temperature)
	}
	return messageParams
}

func collectMessageText(message anthropic.Message) string {
	textBuilder := strings.Builder{}
	for _, contentBlock := range message.Content {
		if textBlock, isTextBlock := contentBlock.AsAny().(anthropic.TextBlock); isTextBlock {
			textBuilder.WriteString(textBlock.Text)
		}
	}
	return textBuilder.String()
}
