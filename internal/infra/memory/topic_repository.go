package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
	"golang.org/x/sync/singleflight"
)

// TopicLoader fetches the corpus topics from a backing store (vector store scan, catalog).
type TopicLoader interface {
	LoadTopics(ctx context.Context) ([]string, error)
}

const topicsKey = "topics"

// TopicRepository caches the topic list with TTL so quiz generation does not rescan the store.
type TopicRepository struct {
	loader TopicLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	topics    []string
	expiresAt time.Time
}

func NewTopicRepository(loader TopicLoader, ttl time.Duration) *TopicRepository {
	return &TopicRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *TopicRepository) Topics(ctx context.Context) ([]string, error) {
	if topics, ok := r.cached(r.clock()); ok {
		return topics, nil
	}

	result, err, _ := r.sf.Do(topicsKey, func() (interface{}, error) {
		now := r.clock()
		if topics, ok := r.cached(now); ok {
			return topics, nil
		}

		topics, err := r.loader.LoadTopics(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.topics = topics
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return topics, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// Invalidate drops the cached list, e.g. after an ingest run.
func (r *TopicRepository) Invalidate() {
	r.mu.Lock()
	r.topics = nil
	r.expiresAt = time.Time{}
	r.mu.Unlock()
}

func (r *TopicRepository) cached(now time.Time) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.topics != nil && r.expiresAt.After(now) {
		return r.topics, true
	}
	return nil, false
}

func (r *TopicRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// up to 10% jitter spreads refreshes across replicas
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticTopicLoader serves a fixed topic list (tests, demos, stores without topic metadata).
type StaticTopicLoader struct {
	topics []string
}

func NewStaticTopicLoader(topics []string) *StaticTopicLoader {
	return &StaticTopicLoader{topics: topics}
}

func (l *StaticTopicLoader) LoadTopics(_ context.Context) ([]string, error) {
	if len(l.topics) == 0 {
		return nil, domain.ErrNoTopics
	}
	return append([]string(nil), l.topics...), nil
}
