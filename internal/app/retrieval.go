package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
	"github.com/samber/lo"
)

// DefaultRelevanceThreshold is the minimum similarity a hit needs to be used as grounding.
const DefaultRelevanceThreshold = 0.40

// Embedder turns a prompt into the vector space of the indexed corpus.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore answers a single nearest-neighbour query. Hits come back in store order
// with payloads attached and without vectors.
type VectorStore interface {
	Query(ctx context.Context, vector []float32) ([]domain.Hit, error)
}

// RetrievalGate embeds a prompt, queries the store once and keeps only relevant hits.
type RetrievalGate struct {
	embedder  Embedder
	store     VectorStore
	threshold float64
}

func NewRetrievalGate(embedder Embedder, store VectorStore, threshold float64) *RetrievalGate {
	return &RetrievalGate{embedder: embedder, store: store, threshold: threshold}
}

// Retrieve returns the passages scoring at or above the threshold, in store order.
// An empty result is not an error. Store failures wrap domain.ErrVectorStoreUnavailable.
func (g *RetrievalGate) Retrieve(ctx context.Context, prompt string) ([]domain.RetrievedPassage, error) {
	vector, err := g.embedder.EmbedQuery(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, err)
	}

	hits, err := g.store.Query(ctx, vector)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
	}

	return lo.FilterMap(hits, func(hit domain.Hit, _ int) (domain.RetrievedPassage, bool) {
		if hit.Score < g.threshold {
			return domain.RetrievedPassage{}, false
		}
		return PassageFromHit(hit), true
	}), nil
}

// PassageFromHit maps a store payload, defaulting missing fields to "Unknown", 0 and "".
func PassageFromHit(hit domain.Hit) domain.RetrievedPassage {
	return domain.RetrievedPassage{
		DocumentName:  payloadString(hit.Payload, "document", "Unknown"),
		PageNumber:    payloadInt(hit.Payload, "page_number"),
		ReferenceText: payloadString(hit.Payload, "text", ""),
		Similarity:    hit.Score,
	}
}

func payloadString(payload map[string]any, key, fallback string) string {
	v, ok := payload[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func payloadInt(payload map[string]any, key string) int {
	var n int
	switch v := payload[key].(type) {
	case int:
		n = v
	case int32:
		n = int(v)
	case int64:
		n = int(v)
	case float32:
		n = int(v)
	case float64:
		n = int(v)
	case string:
		n, _ = strconv.Atoi(v)
	}
	if n < 0 {
		return 0
	}
	return n
}
