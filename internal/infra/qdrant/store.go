package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
)

// DefaultSearchLimit matches Qdrant's own default page size for point queries.
const DefaultSearchLimit = 10

// Store is a small REST client for one Qdrant collection.
type Store struct {
	url        string
	apiKey     string
	collection string
	limit      int
	client     *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Limit      int
	Timeout    time.Duration
}

func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		limit:      limit,
		client:     &http.Client{Timeout: timeout},
	}
}

type scoredPoint struct {
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// Query runs a nearest-neighbour search returning payloads without vectors.
func (s *Store) Query(ctx context.Context, vector []float32) ([]domain.Hit, error) {
	req := map[string]any{
		"vector":       vector,
		"limit":        s.limit,
		"with_payload": true,
		"with_vector":  false,
	}
	var resp struct {
		Result []scoredPoint `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost, s.collectionURL("/points/search"), req, &resp); err != nil {
		return nil, err
	}
	hits := make([]domain.Hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hits = append(hits, domain.Hit{Payload: r.Payload, Score: r.Score})
	}
	return hits, nil
}

// Scan pages through the collection without a query vector, stopping after limit points.
func (s *Store) Scan(ctx context.Context, limit int) ([]map[string]any, error) {
	req := map[string]any{
		"limit":        limit,
		"with_payload": true,
		"with_vector":  false,
	}
	var resp struct {
		Result struct {
			Points []scoredPoint `json:"points"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost, s.collectionURL("/points/scroll"), req, &resp); err != nil {
		return nil, err
	}
	payloads := make([]map[string]any, 0, len(resp.Result.Points))
	for _, p := range resp.Result.Points {
		if p.Payload != nil {
			payloads = append(payloads, p.Payload)
		}
	}
	return payloads, nil
}

// EnsureCollection creates a cosine collection of the given dimension unless it already exists.
func (s *Store) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	err := s.do(ctx, http.MethodGet, s.collectionURL(""), nil, nil)
	if err == nil {
		return nil
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusNotFound {
		return err
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return s.do(ctx, http.MethodPut, s.collectionURL(""), body, nil)
}

// Upsert writes points and waits until they are indexed.
func (s *Store) Upsert(ctx context.Context, points []domain.Point) error {
	if len(points) == 0 {
		return nil
	}
	body := make([]map[string]any, len(points))
	for i, p := range points {
		body[i] = map[string]any{
			"id":      p.ID,
			"vector":  p.Vector,
			"payload": p.Payload,
		}
	}
	return s.do(ctx, http.MethodPut, s.collectionURL("/points?wait=true"), map[string]any{"points": body}, nil)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("qdrant %s %s failed: %s", e.Method, e.URL, e.Status)
}

func (s *Store) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", s.url, s.collection, suffix)
}

func (s *Store) do(ctx context.Context, method, url string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &StatusError{Method: method, URL: url, Code: resp.StatusCode, Status: resp.Status}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
