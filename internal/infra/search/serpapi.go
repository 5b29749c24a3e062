package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
)

const DefaultEndpoint = "https://serpapi.com/search"

type Config struct {
	Endpoint string
	APIKey   string
	Engine   string
	Num      int
	Timeout  time.Duration
}

// SerpAPI runs Google searches through serpapi.com and returns the organic results.
type SerpAPI struct {
	endpoint string
	apiKey   string
	engine   string
	num      int
	client   *http.Client
}

func NewSerpAPI(cfg Config) *SerpAPI {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	engine := cfg.Engine
	if engine == "" {
		engine = "google"
	}
	num := cfg.Num
	if num <= 0 {
		num = 1
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &SerpAPI{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		engine:   engine,
		num:      num,
		client:   &http.Client{Timeout: timeout},
	}
}

type organicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

func (s *SerpAPI) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", s.apiKey)
	params.Set("engine", s.engine)
	params.Set("num", strconv.Itoa(s.num))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %s", domain.ErrSearchFailed, resp.Status)
	}

	var body struct {
		OrganicResults []organicResult `json:"organic_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", domain.ErrSearchFailed, err)
	}
	if len(body.OrganicResults) == 0 {
		return nil, domain.ErrNoSearchResults
	}

	results := make([]domain.SearchResult, 0, len(body.OrganicResults))
	for _, r := range body.OrganicResults {
		results = append(results, domain.SearchResult{Title: r.Title, Link: r.Link, Snippet: r.Snippet})
	}
	return results, nil
}
