package llm

import (
	"context"
	"fmt"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// placeholderToken satisfies the client when a local server (LM Studio) needs no key.
const placeholderToken = "lm-studio"

// OpenAIConfig points at any OpenAI-compatible endpoint.
type OpenAIConfig struct {
	BaseURL        string
	Model          string
	EmbeddingModel string
	Token          string
}

// NewOpenAIModel builds a langchaingo client for chat and embeddings.
func NewOpenAIModel(cfg OpenAIConfig) (*openai.LLM, error) {
	token := cfg.Token
	if token == "" {
		token = placeholderToken
	}
	opts := []openai.Option{openai.WithToken(token)}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.EmbeddingModel != "" {
		opts = append(opts, openai.WithEmbeddingModel(cfg.EmbeddingModel))
	}
	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return model, nil
}

// ChatCompleter sends system and user messages through a langchaingo model.
type ChatCompleter struct {
	model llms.Model
}

func NewChatCompleter(model llms.Model) *ChatCompleter {
	return &ChatCompleter{model: model}
}

func (c *ChatCompleter) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if req.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.User))

	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	resp, err := c.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrLLMFailed, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", domain.ErrLLMFailed)
	}
	return resp.Choices[0].Content, nil
}

// NewEmbedder wraps an embedding client with langchaingo batching.
func NewEmbedder(client embeddings.EmbedderClient, batchSize int) (*embeddings.EmbedderImpl, error) {
	opts := []embeddings.Option{}
	if batchSize > 0 {
		opts = append(opts, embeddings.WithBatchSize(batchSize))
	}
	embedder, err := embeddings.NewEmbedder(client, opts...)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	return embedder, nil
}
