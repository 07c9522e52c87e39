package repository

import (
	"context"
	"fmt"

	"council-rag/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

type minuteChunkRepository struct {
	pool *pgxpool.Pool
}

// NewMinuteChunkRepository creates a repository over the minute_chunks
// table.
func NewMinuteChunkRepository(pool *pgxpool.Pool) domain.MinuteChunkRepository {
	return &minuteChunkRepository{pool: pool}
}

// Search runs a cosine similarity query. The score handed to callers is
// 1 - cosine distance, so higher means more similar; the temporal
// ranking layer makes no assumption beyond that.
func (r *minuteChunkRepository) Search(ctx context.Context, queryVector []float32, limit int) ([]domain.Chunk, error) {
	query := `
		SELECT id, content, filename, page, year,
		       1 - (embedding <=> $1) AS score
		FROM minute_chunks
		WHERE content <> ''
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, pgvector.NewVector(queryVector), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		if err := rows.Scan(&c.ID, &c.Text, &c.Filename, &c.Page, &c.Year, &c.Score); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return chunks, nil
}

func (r *minuteChunkRepository) ListYears(ctx context.Context) ([]int, error) {
	query := `
		SELECT DISTINCT year
		FROM minute_chunks
		WHERE year IS NOT NULL
		ORDER BY year ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, fmt.Errorf("failed to scan year: %w", err)
		}
		years = append(years, year)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return years, nil
}
