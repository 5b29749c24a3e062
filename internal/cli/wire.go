package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/app"
	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/config"
	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/infra/llm"
	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/infra/memory"
	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/infra/pinecone"
	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/infra/postgres"
	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/infra/qdrant"
	redistopics "github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/infra/redis"
	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/infra/search"
	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/ingest"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/tmc/langchaingo/embeddings"
)

// vectorStore is everything the service and ingestion need from a backend.
type vectorStore interface {
	app.VectorStore
	app.PayloadScanner
	ingest.Indexer
}

// topicCache serves topics and can drop its cached copy after ingestion.
type topicCache interface {
	Topics(ctx context.Context) ([]string, error)
	Invalidate(ctx context.Context) error
}

// tutor holds the wired handles shared by start, ingest and chat.
type tutor struct {
	cfg      config.Config
	embedder *embeddings.EmbedderImpl
	store    vectorStore
	catalog  *postgres.Catalog
	redis    *redis.Client
	closers  []func()
}

func newTutor(ctx context.Context, cfg config.Config) (*tutor, error) {
	t := &tutor{cfg: cfg}

	model, err := llm.NewOpenAIModel(llm.OpenAIConfig{
		BaseURL:        cfg.Embedder.BaseURL,
		EmbeddingModel: cfg.Embedder.Model,
		Token:          config.Secret(cfg.Embedder.APIKeyEnv),
	})
	if err != nil {
		return nil, err
	}
	if t.embedder, err = llm.NewEmbedder(model, cfg.Embedder.BatchSize); err != nil {
		return nil, err
	}

	switch cfg.VectorStore.Type {
	case "", "qdrant":
		q := cfg.VectorStore.Qdrant
		t.store = qdrant.NewStore(qdrant.Config{
			URL:        q.URL,
			APIKey:     config.Secret(q.APIKeyEnv),
			Collection: q.Collection,
			Limit:      cfg.Retrieval.Limit,
			Timeout:    config.TTLDuration(q.Timeout, 10*time.Second),
		})
	case "pinecone":
		p := cfg.VectorStore.Pinecone
		store, err := pinecone.NewStore(ctx, pinecone.Config{
			APIKey:    config.Secret(p.APIKeyEnv),
			Index:     p.Index,
			Namespace: p.Namespace,
			TopK:      cfg.Retrieval.Limit,
		})
		if err != nil {
			return nil, err
		}
		t.store = store
		t.closers = append(t.closers, func() { _ = store.Close() })
	default:
		return nil, fmt.Errorf("unknown vector store type %q", cfg.VectorStore.Type)
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			t.close()
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			t.close()
			return nil, err
		}
		t.catalog = postgres.NewCatalog(pool)
		t.closers = append(t.closers, pool.Close)
	}

	if cfg.Redis.Addr != "" {
		t.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		client := t.redis
		t.closers = append(t.closers, func() { _ = client.Close() })
	}
	return t, nil
}

func (t *tutor) close() {
	for i := len(t.closers) - 1; i >= 0; i-- {
		t.closers[i]()
	}
}

func (t *tutor) completer() (app.Completer, error) {
	cfg := t.cfg.LLM
	switch cfg.Provider {
	case "", "openai":
		model, err := llm.NewOpenAIModel(llm.OpenAIConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Token:   config.Secret(cfg.APIKeyEnv),
		})
		if err != nil {
			return nil, err
		}
		return llm.NewChatCompleter(model), nil
	case "anthropic":
		key := config.Secret(cfg.APIKeyEnv)
		if key == "" {
			key = os.Getenv("ANTHROPIC_API_KEY")
		}
		return llm.NewAnthropicCompleter(key, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func (t *tutor) answerService() (*app.AnswerService, error) {
	completer, err := t.completer()
	if err != nil {
		return nil, err
	}
	gate := app.NewRetrievalGate(t.embedder, t.store, t.cfg.Retrieval.Threshold)
	web := search.NewSerpAPI(search.Config{
		Endpoint: t.cfg.Search.URL,
		APIKey:   config.Secret(t.cfg.Search.APIKeyEnv),
		Engine:   t.cfg.Search.Engine,
		Num:      t.cfg.Search.Num,
		Timeout:  config.TTLDuration(t.cfg.Search.Timeout, 10*time.Second),
	})
	return app.NewAnswerService(gate, completer, web, app.AnswerOptions{
		Temperature: t.cfg.LLM.Chat.Temperature,
		MaxTokens:   t.cfg.LLM.Chat.MaxTokens,
	}), nil
}

// topics layers the cache (redis when configured) over the catalog and the vector store.
func (t *tutor) topics() topicCache {
	var loaders app.FirstTopicLoader
	if t.catalog != nil {
		loaders = append(loaders, t.catalog)
	}
	loaders = append(loaders, app.NewStoreTopicLoader(t.store, t.cfg.Quiz.TopicScanLimit))

	ttl := config.TTLDuration(t.cfg.Quiz.TTL, 10*time.Minute)
	if t.redis != nil {
		return redistopics.NewTopicRepository(t.redis, loaders, ttl)
	}
	return memoryTopics{memory.NewTopicRepository(loaders, ttl)}
}

func (t *tutor) quizGenerator(topics app.TopicSource) (*app.QuizGenerator, error) {
	completer, err := t.completer()
	if err != nil {
		return nil, err
	}
	return app.NewQuizGenerator(completer, topics, app.QuizOptions{
		Temperature:   t.cfg.LLM.Quiz.Temperature,
		MaxTokens:     t.cfg.LLM.Quiz.MaxTokens,
		Timeout:       config.TTLDuration(t.cfg.LLM.Quiz.Timeout, 30*time.Second),
		NumQuestions:  t.cfg.Quiz.NumQuestions,
		Concurrency:   t.cfg.Quiz.Concurrency,
		FallbackTopic: t.cfg.Quiz.FallbackTopic,
	}), nil
}

func (t *tutor) pipeline(topic string) *ingest.Pipeline {
	var catalog ingest.Catalog
	if t.catalog != nil {
		catalog = t.catalog
	}
	return ingest.NewPipeline(t.embedder, t.store, catalog, ingest.Options{Topic: topic})
}

// memoryTopics adapts the in-process cache to the context-taking Invalidate.
type memoryTopics struct {
	*memory.TopicRepository
}

func (m memoryTopics) Invalidate(context.Context) error {
	m.TopicRepository.Invalidate()
	return nil
}

func logConfigSummary(cfg config.Config) {
	log.Printf("vector store %s, llm %s (%s), threshold %.2f",
		cfg.VectorStore.Type, cfg.LLM.Provider, cfg.LLM.Model, cfg.Retrieval.Threshold)
}
