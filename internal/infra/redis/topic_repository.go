package redis

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/infra/memory"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// DefaultTopicsKey holds the cached topic list.
const DefaultTopicsKey = "tutor:topics"

// TopicRepository caches corpus topics in a Redis list shared by every replica and
// falls back to the loader on a miss. Stored as: RPUSH tutor:topics {topic...}
type TopicRepository struct {
	client *redis.Client
	loader memory.TopicLoader
	key    string
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewTopicRepository(client *redis.Client, loader memory.TopicLoader, ttl time.Duration) *TopicRepository {
	return &TopicRepository{
		client: client,
		loader: loader,
		key:    DefaultTopicsKey,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *TopicRepository) Topics(ctx context.Context) ([]string, error) {
	topics, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err == nil && len(topics) > 0 {
		return topics, nil
	}

	result, err, _ := r.sf.Do(r.key, func() (interface{}, error) {
		// another caller may have filled the cache meanwhile
		topics, err := r.client.LRange(ctx, r.key, 0, -1).Result()
		if err == nil && len(topics) > 0 {
			return topics, nil
		}

		topics, err = r.loader.LoadTopics(ctx)
		if err != nil {
			return nil, err
		}

		ttl := r.ttlWithJitter()
		if ttl > 0 {
			values := make([]interface{}, len(topics))
			for i, topic := range topics {
				values[i] = topic
			}
			_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, r.key)
				pipe.RPush(ctx, r.key, values...)
				pipe.Expire(ctx, r.key, ttl)
				return nil
			})
			if err != nil {
				log.Printf("cache topics in redis: %v", err)
			}
		}
		return topics, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// Invalidate removes the cached list so the next read rescans the corpus.
func (r *TopicRepository) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

func (r *TopicRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
