// Package llm abstracts the chat-completion backend so the enhancement
// step can talk to any OpenAI-compatible server, including local runtimes
// like Ollama or LM Studio.
package llm

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the minimal interface needed to call a chat model.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ModelLister is an optional capability for listing available models. It
// doubles as a cheap reachability probe: local runtimes answer it without
// loading a model.
type ModelLister interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// OpenAIProvider adapts *openai.Client to the Client/ModelLister interfaces.
type OpenAIProvider struct {
	Inner *openai.Client
}

func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return p.Inner.CreateChatCompletion(ctx, request)
}

func (p *OpenAIProvider) ListModels(ctx context.Context) (openai.ModelsList, error) {
	return p.Inner.ListModels(ctx)
}

// NewProvider builds a provider for the given base URL and key. An empty
// base URL returns nil, which disables enhancement entirely.
func NewProvider(baseURL, apiKey string) *OpenAIProvider {
	if strings.TrimSpace(baseURL) == "" {
		return nil
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	return &OpenAIProvider{Inner: openai.NewClientWithConfig(cfg)}
}
