// Package llm provides chat completion clients for the providers repolens
// talks to.
//
// A ChatClient created through NewChatClient hides whether the configured
// provider speaks the OpenAI chat completions protocol or the Anthropic
// messages protocol, and both blocking and streaming completions return the
// full response text.
package llm
