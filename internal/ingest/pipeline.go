package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
	"github.com/google/uuid"
)

const defaultBatchSize = 64

// Embedder computes document vectors.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// Indexer writes points into the vector store.
type Indexer interface {
	EnsureCollection(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, points []domain.Point) error
}

// Catalog records what was ingested. Optional.
type Catalog interface {
	RecordDocument(ctx context.Context, doc domain.DocumentRecord) error
}

type Options struct {
	// Topic is stored on every page payload so quizzes can sample it.
	Topic     string
	BatchSize int
}

// Stats summarises one ingest run.
type Stats struct {
	Documents int
	Pages     int
	Skipped   []string
}

// Pipeline embeds document pages and indexes them one point per page.
type Pipeline struct {
	embedder Embedder
	indexer  Indexer
	catalog  Catalog
	opts     Options
	newID    func() string
}

func NewPipeline(embedder Embedder, indexer Indexer, catalog Catalog, opts Options) *Pipeline {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	return &Pipeline{
		embedder: embedder,
		indexer:  indexer,
		catalog:  catalog,
		opts:     opts,
		newID:    uuid.NewString,
	}
}

// IngestDir extracts every supported file in dir. Unreadable files are logged and skipped.
func (p *Pipeline) IngestDir(ctx context.Context, dir string) (Stats, error) {
	paths, err := ListSources(dir)
	if err != nil {
		return Stats{}, fmt.Errorf("list %s: %w", dir, err)
	}
	log.Printf("found %d source file(s) in %s", len(paths), dir)

	var docs []Document
	var skipped []string
	for _, path := range paths {
		doc, err := Extract(path)
		if err != nil {
			log.Printf("skipping %s: %v", path, err)
			skipped = append(skipped, path)
			continue
		}
		docs = append(docs, doc)
	}

	stats, err := p.IngestDocuments(ctx, docs)
	stats.Skipped = append(skipped, stats.Skipped...)
	return stats, err
}

// IngestDocuments embeds all pages, ensures the collection and upserts in batches.
func (p *Pipeline) IngestDocuments(ctx context.Context, docs []Document) (Stats, error) {
	var texts []string
	var points []domain.Point
	stats := Stats{}
	for _, doc := range docs {
		if len(doc.Pages) == 0 {
			stats.Skipped = append(stats.Skipped, doc.Name)
			continue
		}
		stats.Documents++
		for _, page := range doc.Pages {
			payload := map[string]any{
				"document":    doc.Name,
				"page_number": page.Number,
				"text":        page.Text,
			}
			if p.opts.Topic != "" {
				payload["topic"] = p.opts.Topic
			}
			points = append(points, domain.Point{ID: p.newID(), Payload: payload})
			texts = append(texts, page.Text)
		}
	}
	if len(points) == 0 {
		log.Printf("no pages with text, nothing to index")
		return stats, nil
	}

	vectors, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return stats, fmt.Errorf("embed pages: %w", err)
	}
	if len(vectors) != len(points) {
		return stats, errors.New("embedder returned a different number of vectors")
	}
	for i := range points {
		points[i].Vector = vectors[i]
	}

	if err := p.indexer.EnsureCollection(ctx, len(vectors[0])); err != nil {
		return stats, fmt.Errorf("ensure collection: %w", err)
	}
	for start := 0; start < len(points); start += p.opts.BatchSize {
		end := min(start+p.opts.BatchSize, len(points))
		if err := p.indexer.Upsert(ctx, points[start:end]); err != nil {
			return stats, fmt.Errorf("upsert pages %d-%d: %w", start, end, err)
		}
		stats.Pages += end - start
	}
	log.Printf("indexed %d page(s) from %d document(s)", stats.Pages, stats.Documents)

	if p.catalog != nil {
		for _, doc := range docs {
			if len(doc.Pages) == 0 {
				continue
			}
			rec := domain.DocumentRecord{Name: doc.Name, Pages: len(doc.Pages), Topic: p.opts.Topic}
			if err := p.catalog.RecordDocument(ctx, rec); err != nil {
				return stats, err
			}
		}
	}
	return stats, nil
}
