package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	messages []llms.MessageContent
	opts     llms.CallOptions
	resp     *llms.ContentResponse
	err      error
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	for _, opt := range options {
		opt(&m.opts)
	}
	return m.resp, m.err
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestChatCompleterBuildsMessages(t *testing.T) {
	model := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "grounded answer"}}}}
	completer := NewChatCompleter(model)

	got, err := completer.Complete(context.Background(), domain.CompletionRequest{
		System: "Use ONLY the CONTEXT", User: "what is ARP spoofing?", Temperature: 0.1, MaxTokens: 400,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got != "grounded answer" {
		t.Fatalf("unexpected completion %q", got)
	}
	if len(model.messages) != 2 || model.messages[0].Role != llms.ChatMessageTypeSystem || model.messages[1].Role != llms.ChatMessageTypeHuman {
		t.Fatalf("unexpected messages %+v", model.messages)
	}
	if model.opts.Temperature != 0.1 || model.opts.MaxTokens != 400 {
		t.Fatalf("unexpected options %+v", model.opts)
	}
}

func TestChatCompleterOmitsEmptySystem(t *testing.T) {
	model := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "{}"}}}}
	if _, err := NewChatCompleter(model).Complete(context.Background(), domain.CompletionRequest{User: "json please"}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(model.messages) != 1 || model.messages[0].Role != llms.ChatMessageTypeHuman {
		t.Fatalf("expected a single human message, got %+v", model.messages)
	}
}

func TestChatCompleterFailures(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModel
	}{
		{name: "transport", model: &fakeModel{err: errors.New("connection refused")}},
		{name: "no choices", model: &fakeModel{resp: &llms.ContentResponse{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChatCompleter(tt.model).Complete(context.Background(), domain.CompletionRequest{User: "x"})
			if !errors.Is(err, domain.ErrLLMFailed) {
				t.Fatalf("expected ErrLLMFailed, got %v", err)
			}
		})
	}
}

func TestOpenAIModelTalksToCompatibleServer(t *testing.T) {
	var body struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"meta-llama-3.1-8b-instruct","choices":[{"index":0,"message":{"role":"assistant","content":"hello"},"finish_reason":"stop"}],"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`))
	}))
	defer srv.Close()

	model, err := NewOpenAIModel(OpenAIConfig{BaseURL: srv.URL + "/v1", Model: "meta-llama-3.1-8b-instruct"})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	got, err := NewChatCompleter(model).Complete(context.Background(), domain.CompletionRequest{System: "sys", User: "hi", Temperature: 0.1, MaxTokens: 10})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got != "hello" {
		t.Fatalf("unexpected completion %q", got)
	}
	if body.Model != "meta-llama-3.1-8b-instruct" || len(body.Messages) != 2 || body.Messages[0].Role != "system" || body.Messages[1].Content != "hi" {
		t.Fatalf("unexpected request body %+v", body)
	}
}

type fakeEmbeddingClient struct {
	batches [][]string
}

func (c *fakeEmbeddingClient) CreateEmbedding(_ context.Context, texts []string) ([][]float32, error) {
	c.batches = append(c.batches, texts)
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{float32(len(text))}
	}
	return out, nil
}

func TestEmbedderBatches(t *testing.T) {
	client := &fakeEmbeddingClient{}
	embedder, err := NewEmbedder(client, 2)
	if err != nil {
		t.Fatalf("new embedder: %v", err)
	}
	vectors, err := embedder.EmbedDocuments(context.Background(), []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vectors) != 3 || vectors[2][0] != 3 {
		t.Fatalf("unexpected vectors %v", vectors)
	}
	if len(client.batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(client.batches))
	}
	query, err := embedder.EmbedQuery(context.Background(), "dddd")
	if err != nil || len(query) != 1 || query[0] != 4 {
		t.Fatalf("unexpected query vector %v err=%v", query, err)
	}
}

func TestAnthropicCompleter(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-haiku-latest","content":[{"type":"text","text":"{\"question\":\"q\"}"}],"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":4}}`))
	}))
	defer srv.Close()

	completer := NewAnthropicCompleter("test-key", "claude-3-5-haiku-latest", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	got, err := completer.Complete(context.Background(), domain.CompletionRequest{System: "be strict", User: "one question", Temperature: 0.55, MaxTokens: 350})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got != `{"question":"q"}` {
		t.Fatalf("unexpected completion %q", got)
	}
	if body["max_tokens"] != float64(350) || body["model"] != "claude-3-5-haiku-latest" {
		t.Fatalf("unexpected request %v", body)
	}
	if _, ok := body["system"]; !ok {
		t.Fatalf("system prompt not sent")
	}
}

func TestAnthropicCompleterFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	completer := NewAnthropicCompleter("test-key", "claude-3-5-haiku-latest", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	if _, err := completer.Complete(context.Background(), domain.CompletionRequest{User: "x"}); !errors.Is(err, domain.ErrLLMFailed) {
		t.Fatalf("expected ErrLLMFailed, got %v", err)
	}
}
