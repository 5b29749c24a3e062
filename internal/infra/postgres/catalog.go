package postgres

import (
	"context"
	"fmt"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Catalog records ingested documents and their topics in Postgres.
type Catalog struct {
	pool *pgxpool.Pool
}

func NewCatalog(pool *pgxpool.Pool) *Catalog {
	return &Catalog{pool: pool}
}

// RecordDocument inserts or refreshes a document row keyed by name.
func (c *Catalog) RecordDocument(ctx context.Context, doc domain.DocumentRecord) error {
	_, err := c.pool.Exec(ctx, `
		INSERT INTO documents (name, pages, topic, ingested_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (name) DO UPDATE
		SET pages = EXCLUDED.pages, topic = EXCLUDED.topic, ingested_at = now()`,
		doc.Name, doc.Pages, doc.Topic)
	if err != nil {
		return fmt.Errorf("record document %s: %w", doc.Name, err)
	}
	return nil
}

// ListDocuments returns the catalog ordered by name.
func (c *Catalog) ListDocuments(ctx context.Context) ([]domain.DocumentRecord, error) {
	rows, err := c.pool.Query(ctx, `SELECT name, pages, topic FROM documents ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.DocumentRecord
	for rows.Next() {
		var doc domain.DocumentRecord
		if err := rows.Scan(&doc.Name, &doc.Pages, &doc.Topic); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// LoadTopics returns the distinct non-empty topics of catalogued documents.
func (c *Catalog) LoadTopics(ctx context.Context) ([]string, error) {
	rows, err := c.pool.Query(ctx, `SELECT DISTINCT topic FROM documents WHERE topic <> '' ORDER BY topic`)
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var topic string
		if err := rows.Scan(&topic); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return nil, domain.ErrNoTopics
	}
	return topics, nil
}
