package pinecone

import (
	"context"
	"fmt"
	"log"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	defaultTopK   = 10
	listPageLimit = 100
	upsertBatch   = 50
)

type Config struct {
	APIKey    string
	Index     string
	Namespace string
	TopK      int
}

// Store serves the corpus from a Pinecone index. Payloads live in vector metadata.
type Store struct {
	conn *pinecone.IndexConnection
	topK uint32
}

// NewStore resolves the index host once and keeps the connection for the process lifetime.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	pc, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create pinecone client: %w", err)
	}

	idxDesc, err := pc.DescribeIndex(ctx, cfg.Index)
	if err != nil {
		return nil, fmt.Errorf("describe index %s: %w", cfg.Index, err)
	}

	conn, err := pc.Index(pinecone.NewIndexConnParams{
		Host:      idxDesc.Host,
		Namespace: cfg.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("connect index %s: %w", cfg.Index, err)
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	log.Printf("pinecone index %s ready (namespace %q)", cfg.Index, cfg.Namespace)
	return &Store{conn: conn, topK: uint32(topK)}, nil
}

func (s *Store) Query(ctx context.Context, vector []float32) ([]domain.Hit, error) {
	result, err := s.conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            s.topK,
		IncludeValues:   false,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}
	hits := make([]domain.Hit, 0, len(result.Matches))
	for _, match := range result.Matches {
		hits = append(hits, hitFromMatch(match))
	}
	return hits, nil
}

// Scan lists vector ids page by page and fetches their metadata, up to limit entries.
func (s *Store) Scan(ctx context.Context, limit int) ([]map[string]any, error) {
	var ids []string
	var token *string
	for len(ids) < limit {
		pageLimit := uint32(min(listPageLimit, limit-len(ids)))
		resp, err := s.conn.ListVectors(ctx, &pinecone.ListVectorsRequest{
			Limit:           &pageLimit,
			PaginationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list vectors: %w", err)
		}
		for _, id := range resp.VectorIds {
			if id != nil {
				ids = append(ids, *id)
			}
		}
		if resp.NextPaginationToken == nil || len(resp.VectorIds) == 0 {
			break
		}
		token = resp.NextPaginationToken
	}
	if len(ids) == 0 {
		return nil, nil
	}

	fetched, err := s.conn.FetchVectors(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch vectors: %w", err)
	}
	payloads := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		if v, ok := fetched.Vectors[id]; ok && v != nil && v.Metadata != nil {
			payloads = append(payloads, v.Metadata.AsMap())
		}
	}
	return payloads, nil
}

// EnsureCollection is a no-op: Pinecone indexes are provisioned outside this service.
func (s *Store) EnsureCollection(context.Context, int) error {
	return nil
}

func (s *Store) Upsert(ctx context.Context, points []domain.Point) error {
	vectors := make([]*pinecone.Vector, 0, len(points))
	for _, p := range points {
		v, err := vectorFromPoint(p)
		if err != nil {
			return err
		}
		vectors = append(vectors, v)
	}

	for start := 0; start < len(vectors); start += upsertBatch {
		end := min(start+upsertBatch, len(vectors))
		if _, err := s.conn.UpsertVectors(ctx, vectors[start:end]); err != nil {
			return fmt.Errorf("upsert vectors: %w", err)
		}
	}
	return nil
}

// Close releases the index connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func hitFromMatch(match *pinecone.ScoredVector) domain.Hit {
	hit := domain.Hit{Score: float64(match.Score)}
	if match.Vector != nil && match.Vector.Metadata != nil {
		hit.Payload = match.Vector.Metadata.AsMap()
	}
	return hit
}

func vectorFromPoint(p domain.Point) (*pinecone.Vector, error) {
	metadata, err := structpb.NewStruct(p.Payload)
	if err != nil {
		return nil, fmt.Errorf("metadata for %s: %w", p.ID, err)
	}
	values := p.Vector
	return &pinecone.Vector{
		Id:       p.ID,
		Values:   &values,
		Metadata: metadata,
	}, nil
}
