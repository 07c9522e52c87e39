package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"council-rag/internal/domain"
	"council-rag/internal/usecase/temporal"
)

// RetrieveContextInput defines the input parameters for RetrieveContext.
type RetrieveContextInput struct {
	Query string
}

// RetrieveContextOutput carries the ranked chunks and the diagnostic
// record describing how they were ranked.
type RetrieveContextOutput struct {
	Chunks   []domain.Chunk
	Metadata temporal.SearchMetadata
}

// RetrieveContextUsecase defines the interface for retrieving ranked
// context for a query.
type RetrieveContextUsecase interface {
	Execute(ctx context.Context, input RetrieveContextInput) (*RetrieveContextOutput, error)
}

type retrieveContextUsecase struct {
	chunkRepo   domain.MinuteChunkRepository
	encoder     domain.VectorEncoder
	searchLimit int
	temporalCfg temporal.Config
	logger      *slog.Logger
}

// NewRetrieveContextUsecase creates a RetrieveContextUsecase. The
// temporal configuration is validated here so per-request calls never
// have to guard against a miswired weight or tolerance.
func NewRetrieveContextUsecase(
	chunkRepo domain.MinuteChunkRepository,
	encoder domain.VectorEncoder,
	searchLimit int,
	temporalCfg temporal.Config,
	logger *slog.Logger,
) (RetrieveContextUsecase, error) {
	if searchLimit <= 0 {
		return nil, fmt.Errorf("search limit must be positive, got %d", searchLimit)
	}
	if err := temporalCfg.Validate(); err != nil {
		return nil, fmt.Errorf("temporal config invalid: %w", err)
	}
	return &retrieveContextUsecase{
		chunkRepo:   chunkRepo,
		encoder:     encoder,
		searchLimit: searchLimit,
		temporalCfg: temporalCfg,
		logger:      logger,
	}, nil
}

func (u *retrieveContextUsecase) Execute(ctx context.Context, input RetrieveContextInput) (*RetrieveContextOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, fmt.Errorf("query is empty")
	}

	embeddings, err := u.encoder.Encode(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(embeddings))
	}

	candidates, err := u.chunkRepo.Search(ctx, embeddings[0], u.searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}

	ranked, metadata := temporal.HybridSearch(candidates, query, u.temporalCfg)

	// The year filter can legitimately empty the candidate set, for
	// example when the corpus holds nothing near the asked year. An
	// empty context would force the answer into a fallback even though
	// relevant undated or out-of-window material exists, so retry once
	// with filtering off and surface that pass's metadata instead.
	if len(ranked) == 0 && metadata.TemporalFilterApplied && metadata.OriginalCount > 0 {
		u.logger.Warn("temporal_filter_emptied_result_set",
			slog.Int("original_count", metadata.OriginalCount),
			slog.Int("year_tolerance", u.temporalCfg.Tolerance))
		relaxed := u.temporalCfg
		relaxed.EnableFiltering = false
		ranked, metadata = temporal.HybridSearch(candidates, query, relaxed)
	}

	u.logger.Info("hybrid_search_completed",
		slog.Any("query_year", metadata.QueryYear),
		slog.Bool("temporal_filter_applied", metadata.TemporalFilterApplied),
		slog.Bool("temporal_weighting_applied", metadata.TemporalWeightingApplied),
		slog.Int("original_count", metadata.OriginalCount),
		slog.Int("filtered_count", metadata.FilteredCount))

	return &RetrieveContextOutput{
		Chunks:   ranked,
		Metadata: metadata,
	}, nil
}
