package domain

import "context"

// MinuteChunkRepository defines the read operations against the chunk
// store backing retrieval.
type MinuteChunkRepository interface {
	// Search performs a vector similarity search and returns up to
	// limit chunks ordered by similarity, highest first.
	Search(ctx context.Context, queryVector []float32, limit int) ([]Chunk, error)

	// ListYears returns the distinct publication years present in the
	// corpus, ascending. Chunks without a year are not represented.
	ListYears(ctx context.Context) ([]int, error)
}
