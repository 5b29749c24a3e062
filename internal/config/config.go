package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port         string `yaml:"port"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	} `yaml:"server"`
	Retrieval struct {
		Threshold float64 `yaml:"threshold"`
		Limit     int     `yaml:"limit"`
	} `yaml:"retrieval"`
	VectorStore struct {
		Type     string         `yaml:"type"`
		Qdrant   QdrantConfig   `yaml:"qdrant"`
		Pinecone PineconeConfig `yaml:"pinecone"`
	} `yaml:"vector_store"`
	Embedder struct {
		BaseURL   string `yaml:"base_url"`
		Model     string `yaml:"model"`
		APIKeyEnv string `yaml:"api_key_env"`
		BatchSize int    `yaml:"batch_size"`
	} `yaml:"embedder"`
	LLM struct {
		Provider  string          `yaml:"provider"`
		BaseURL   string          `yaml:"base_url"`
		Model     string          `yaml:"model"`
		APIKeyEnv string          `yaml:"api_key_env"`
		Chat      GenerationKnobs `yaml:"chat"`
		Quiz      GenerationKnobs `yaml:"quiz"`
	} `yaml:"llm"`
	Search struct {
		URL       string `yaml:"url"`
		APIKeyEnv string `yaml:"api_key_env"`
		Engine    string `yaml:"engine"`
		Num       int    `yaml:"num"`
		Timeout   string `yaml:"timeout"`
	} `yaml:"search"`
	Quiz struct {
		NumQuestions   int    `yaml:"num_questions"`
		TopicScanLimit int    `yaml:"topic_scan_limit"`
		FallbackTopic  string `yaml:"fallback_topic"`
		Concurrency    int    `yaml:"concurrency"`
		TTL            string `yaml:"ttl"`
	} `yaml:"quiz"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
}

type QdrantConfig struct {
	URL        string `yaml:"url"`
	APIKeyEnv  string `yaml:"api_key_env"`
	Collection string `yaml:"collection"`
	Timeout    string `yaml:"timeout"`
}

type PineconeConfig struct {
	APIKeyEnv string `yaml:"api_key_env"`
	Index     string `yaml:"index"`
	Namespace string `yaml:"namespace"`
}

// GenerationKnobs tunes one kind of LLM call.
type GenerationKnobs struct {
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Timeout     string  `yaml:"timeout"`
}

// Default returns the configuration used for any value the YAML file leaves out.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8000"
	cfg.Server.ReadTimeout = "15s"

	cfg.Retrieval.Threshold = 0.40
	cfg.Retrieval.Limit = 10

	cfg.VectorStore.Type = "qdrant"
	cfg.VectorStore.Qdrant = QdrantConfig{
		URL:        "http://localhost:6333",
		APIKeyEnv:  "QDRANT_API_KEY",
		Collection: "tutor_docs",
		Timeout:    "10s",
	}
	cfg.VectorStore.Pinecone = PineconeConfig{APIKeyEnv: "PINECONE_API_KEY", Index: "tutor-docs"}

	cfg.Embedder.BaseURL = "http://localhost:1234/v1"
	cfg.Embedder.Model = "text-embedding-nomic-embed-text-v1.5"
	cfg.Embedder.APIKeyEnv = "OPENAI_API_KEY"
	cfg.Embedder.BatchSize = 32

	cfg.LLM.Provider = "openai"
	cfg.LLM.BaseURL = "http://localhost:1234/v1"
	cfg.LLM.Model = "mistral-7b-instruct"
	cfg.LLM.APIKeyEnv = "OPENAI_API_KEY"
	cfg.LLM.Chat = GenerationKnobs{Temperature: 0.1, MaxTokens: 400}
	cfg.LLM.Quiz = GenerationKnobs{Temperature: 0.55, MaxTokens: 350, Timeout: "30s"}

	cfg.Search.URL = "https://serpapi.com/search"
	cfg.Search.APIKeyEnv = "SERPAPI_API_KEY"
	cfg.Search.Engine = "google"
	cfg.Search.Num = 1
	cfg.Search.Timeout = "10s"

	cfg.Quiz.NumQuestions = 5
	cfg.Quiz.TopicScanLimit = 200
	cfg.Quiz.FallbackTopic = "network security"
	cfg.Quiz.Concurrency = 1
	cfg.Quiz.TTL = "10m"
	return cfg
}

// Load reads YAML config from path on top of Default. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Secret reads the env var named by key, or "" when no name is configured.
func Secret(key string) string {
	if key == "" {
		return ""
	}
	return os.Getenv(key)
}

// WriteTimeout is the configured server write timeout. When unset it covers a
// whole quiz: one quiz timeout per sequential round of questions, plus headroom
// for the web search fallback and rendering. "0s" disables the limit.
func (c Config) WriteTimeout() time.Duration {
	if c.Server.WriteTimeout != "" {
		return TTLDuration(c.Server.WriteTimeout, 0)
	}
	perQuestion := TTLDuration(c.LLM.Quiz.Timeout, 30*time.Second)
	rounds := (max(c.Quiz.NumQuestions, 1) + max(c.Quiz.Concurrency, 1) - 1) / max(c.Quiz.Concurrency, 1)
	return time.Duration(rounds)*perQuestion + writeHeadroom
}

const writeHeadroom = 30 * time.Second

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
