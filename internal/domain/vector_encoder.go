package domain

import "context"

// VectorEncoder converts texts into embedding vectors via an external
// embedding provider.
type VectorEncoder interface {
	// Encode returns one embedding per input text, in input order.
	Encode(ctx context.Context, texts []string) ([][]float32, error)

	// Version returns the embedding model identifier for logging.
	Version() string
}
