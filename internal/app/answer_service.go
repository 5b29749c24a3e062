package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
	"github.com/samber/lo"
)

const (
	// SearchFailureResponse and SearchFailureSource are returned when web search fails.
	SearchFailureResponse = "Internet Search Failure."
	SearchFailureSource   = "Error"
	// LLMFailureResponse replaces the answer when the chat completion fails.
	LLMFailureResponse = "Error: LLM request failed."
)

// Retriever returns relevant passages for a prompt.
type Retriever interface {
	Retrieve(ctx context.Context, prompt string) ([]domain.RetrievedPassage, error)
}

// Completer sends one prompt exchange to an LLM.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

// WebSearcher runs a general web search for a query.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// AnswerOptions tunes the grounded chat completion.
type AnswerOptions struct {
	Temperature float64
	MaxTokens   int
}

// AnswerService answers chat prompts from the corpus, or from the web when nothing relevant is indexed.
type AnswerService struct {
	retriever Retriever
	llm       Completer
	search    WebSearcher
	opts      AnswerOptions
}

func NewAnswerService(retriever Retriever, llm Completer, search WebSearcher, opts AnswerOptions) *AnswerService {
	return &AnswerService{retriever: retriever, llm: llm, search: search, opts: opts}
}

// Answer never fails: every downstream error degrades to the next tier or a sentinel answer.
func (s *AnswerService) Answer(ctx context.Context, prompt string) domain.Answer {
	passages, err := s.retriever.Retrieve(ctx, prompt)
	switch {
	case errors.Is(err, domain.ErrVectorStoreUnavailable):
		log.Printf("vector store unavailable, using web search: %v", err)
	case err != nil:
		log.Printf("retrieval failed, using web search: %v", err)
	}

	if err == nil && len(passages) > 0 {
		return s.grounded(ctx, prompt, passages)
	}
	return s.fromWeb(ctx, prompt)
}

func (s *AnswerService) grounded(ctx context.Context, prompt string, passages []domain.RetrievedPassage) domain.Answer {
	grounding := Assemble(passages)
	reply, err := s.llm.Complete(ctx, domain.CompletionRequest{
		System:      TutorInstruction(grounding.Context),
		User:        prompt,
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	})
	if err != nil {
		log.Printf("chat completion failed: %v", err)
		reply = LLMFailureResponse
	}
	return domain.Answer{Response: reply, Source: grounding.Provenance}
}

func (s *AnswerService) fromWeb(ctx context.Context, prompt string) domain.Answer {
	results, err := s.search.Search(ctx, prompt)
	if err == nil && len(results) == 0 {
		err = domain.ErrNoSearchResults
	}
	if err != nil {
		log.Printf("web search failed: %v", err)
		return domain.Answer{Response: SearchFailureResponse, Source: SearchFailureSource}
	}

	lines := lo.Map(results, func(r domain.SearchResult, _ int) string {
		return fmt.Sprintf("%s-[URL:%s]", r.Title, r.Link)
	})
	return domain.Answer{Response: results[0].Snippet, Source: strings.Join(lines, "\n")}
}

// TutorInstruction is the system prompt that restricts the model to the given context.
func TutorInstruction(grounding string) string {
	return "You are a Network Security Tutor.\n" +
		"Use ONLY the CONTEXT to answer. Do NOT hallucinate. Do NOT duplicate content.\n" +
		"CONTEXT:\n" + grounding
}
