package app_test

import (
	"context"
	"errors"
	"sync"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
)

type stubEmbedder struct {
	vector []float32
	err    error
}

func (e stubEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return e.vector, e.err
}

type stubStore struct {
	hits  []domain.Hit
	err   error
	calls int
}

func (s *stubStore) Query(context.Context, []float32) ([]domain.Hit, error) {
	s.calls++
	return s.hits, s.err
}

type stubRetriever struct {
	passages []domain.RetrievedPassage
	err      error
}

func (r stubRetriever) Retrieve(context.Context, string) ([]domain.RetrievedPassage, error) {
	return r.passages, r.err
}

type recordingCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	replies []string
	reqs    []domain.CompletionRequest
}

func (c *recordingCompleter) Complete(_ context.Context, req domain.CompletionRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reqs = append(c.reqs, req)
	if c.err != nil {
		return "", c.err
	}
	if len(c.replies) > 0 {
		reply := c.replies[0]
		c.replies = c.replies[1:]
		return reply, nil
	}
	return c.reply, nil
}

type stubSearcher struct {
	results []domain.SearchResult
	err     error
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, query string) ([]domain.SearchResult, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

type stubTopics struct {
	topics []string
	err    error
}

func (s stubTopics) Topics(context.Context) ([]string, error) {
	return s.topics, s.err
}

type stubScanner struct {
	payloads []map[string]any
	err      error
	limit    int
}

func (s *stubScanner) Scan(_ context.Context, limit int) ([]map[string]any, error) {
	s.limit = limit
	return s.payloads, s.err
}

var errDown = errors.New("connection refused")
