package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// DefaultTopicScanLimit bounds how many stored entries are inspected for topics.
const DefaultTopicScanLimit = 200

// PayloadScanner reads up to limit stored payloads without a query vector.
type PayloadScanner interface {
	Scan(ctx context.Context, limit int) ([]map[string]any, error)
}

// StoreTopicLoader collects the distinct "topic" payload values from the vector store.
type StoreTopicLoader struct {
	scanner PayloadScanner
	limit   int
}

func NewStoreTopicLoader(scanner PayloadScanner, limit int) *StoreTopicLoader {
	if limit <= 0 {
		limit = DefaultTopicScanLimit
	}
	return &StoreTopicLoader{scanner: scanner, limit: limit}
}

// LoadTopics returns topics in first-seen order, or domain.ErrNoTopics when none are tagged.
func (l *StoreTopicLoader) LoadTopics(ctx context.Context) ([]string, error) {
	payloads, err := l.scanner.Scan(ctx, l.limit)
	if err != nil {
		return nil, fmt.Errorf("scan payloads: %w", err)
	}
	topics := lo.Uniq(lo.FilterMap(payloads, func(payload map[string]any, _ int) (string, bool) {
		topic, ok := payload["topic"].(string)
		topic = strings.TrimSpace(topic)
		return topic, ok && topic != ""
	}))
	if len(topics) == 0 {
		return nil, domain.ErrNoTopics
	}
	return topics, nil
}

// FilterTopics keeps topics that fuzzily contain query, ignoring case. A blank query keeps all.
func FilterTopics(topics []string, query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return topics
	}
	return lo.Filter(topics, func(topic string, _ int) bool {
		return fuzzy.MatchFold(query, topic)
	})
}

// TopicLoader produces the full topic set from a backing source.
type TopicLoader interface {
	LoadTopics(ctx context.Context) ([]string, error)
}

// FirstTopicLoader returns the topics of the first loader that yields any.
// Errors are kept only if no loader succeeds.
type FirstTopicLoader []TopicLoader

func (l FirstTopicLoader) LoadTopics(ctx context.Context) ([]string, error) {
	err := domain.ErrNoTopics
	for _, loader := range l {
		topics, loadErr := loader.LoadTopics(ctx)
		if loadErr == nil && len(topics) > 0 {
			return topics, nil
		}
		if loadErr != nil && !errors.Is(loadErr, domain.ErrNoTopics) {
			err = loadErr
		}
	}
	return nil, err
}
