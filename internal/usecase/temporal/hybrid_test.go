package temporal

import (
	"testing"

	"council-rag/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHybridSearch_YearScopedQuery(t *testing.T) {
	chunks := []domain.Chunk{
		chunkWithYear(2025, 0.78),
		chunkWithYear(2020, 0.82),
	}

	ranked, meta := HybridSearch(chunks, "Quels sont les projets pour 2025?", DefaultConfig())

	require.NotNil(t, meta.QueryYear)
	assert.Equal(t, 2025, *meta.QueryYear)
	assert.True(t, meta.TemporalFilterApplied)
	assert.True(t, meta.TemporalWeightingApplied)
	assert.Equal(t, 2, meta.OriginalCount)
	assert.Equal(t, 1, meta.FilteredCount)

	require.Len(t, ranked, 1, "2020 chunk is 5 years out, beyond the default tolerance")
	assert.Equal(t, 2025, *ranked[0].Year)
	require.NotNil(t, ranked[0].TemporalScore)
	assert.Equal(t, 1.0, *ranked[0].TemporalScore)
	require.NotNil(t, ranked[0].FinalScore)
	assert.InDelta(t, 0.846, *ranked[0].FinalScore, 1e-9)
	require.NotNil(t, ranked[0].OriginalScore)
	assert.Equal(t, 0.78, *ranked[0].OriginalScore)
}

func TestHybridSearch_NoYearInQuery(t *testing.T) {
	chunks := []domain.Chunk{
		chunkWithYear(2025, 0.78),
		chunkWithYear(2020, 0.82),
	}

	ranked, meta := HybridSearch(chunks, "Projets futurs", DefaultConfig())

	assert.Nil(t, meta.QueryYear)
	assert.False(t, meta.TemporalFilterApplied)
	assert.False(t, meta.TemporalWeightingApplied)
	assert.Equal(t, 2, meta.OriginalCount)
	assert.Equal(t, 2, meta.FilteredCount)

	require.Len(t, ranked, 2)
	assert.Equal(t, 0.82, ranked[0].Score, "ranking falls back to raw similarity")
	assert.Equal(t, 0.78, ranked[1].Score)
	assert.Nil(t, ranked[0].FinalScore)
}

func TestHybridSearch_UndatedChunkKept(t *testing.T) {
	chunks := []domain.Chunk{undatedChunk(0.5)}

	ranked, meta := HybridSearch(chunks, "les travaux prévus en 2025", DefaultConfig())

	require.Len(t, ranked, 1)
	assert.Equal(t, 1, meta.FilteredCount)
	require.NotNil(t, ranked[0].FinalScore)
	assert.Equal(t, 0.5, *ranked[0].FinalScore)
	assert.Nil(t, ranked[0].TemporalScore)
}

func TestHybridSearch_EmptyCandidates(t *testing.T) {
	ranked, meta := HybridSearch(nil, "le conseil de 2024", DefaultConfig())

	assert.Empty(t, ranked)
	assert.Equal(t, 0, meta.OriginalCount)
	assert.Equal(t, 0, meta.FilteredCount)
	require.NotNil(t, meta.QueryYear, "extraction still runs with no candidates")
	assert.Equal(t, 2024, *meta.QueryYear)
}

func TestHybridSearch_FilterCanEmptyTheSet(t *testing.T) {
	chunks := []domain.Chunk{
		chunkWithYear(2010, 0.9),
		chunkWithYear(2011, 0.8),
	}

	ranked, meta := HybridSearch(chunks, "les décisions pour 2025", DefaultConfig())

	assert.Empty(t, ranked, "emptying the set is not an error condition")
	assert.Equal(t, 2, meta.OriginalCount)
	assert.Equal(t, 0, meta.FilteredCount)
	assert.True(t, meta.TemporalFilterApplied)
	assert.True(t, meta.TemporalWeightingApplied)
}

func TestHybridSearch_DisabledStages(t *testing.T) {
	chunks := []domain.Chunk{
		chunkWithYear(2025, 0.3),
		chunkWithYear(2010, 0.9),
	}

	cfg := DefaultConfig()
	cfg.EnableFiltering = false
	cfg.EnableWeighting = false

	ranked, meta := HybridSearch(chunks, "le budget pour 2025", cfg)

	assert.False(t, meta.TemporalFilterApplied)
	assert.False(t, meta.TemporalWeightingApplied)
	assert.Equal(t, meta.OriginalCount, meta.FilteredCount)
	require.Len(t, ranked, 2)
	assert.Equal(t, 0.9, ranked[0].Score)
}

func TestHybridSearch_Deterministic(t *testing.T) {
	chunks := []domain.Chunk{
		chunkWithYear(2024, 0.5),
		chunkWithYear(2025, 0.5),
		undatedChunk(0.5),
		chunkWithYear(2023, 0.7),
	}
	query := "les subventions de 2025"

	first, firstMeta := HybridSearch(chunks, query, DefaultConfig())
	second, secondMeta := HybridSearch(chunks, query, DefaultConfig())

	assert.Equal(t, first, second)
	assert.Equal(t, firstMeta, secondMeta)
}

func TestHybridSearch_StableTieBreak(t *testing.T) {
	chunks := []domain.Chunk{
		{Text: "a", Score: 0.5},
		{Text: "b", Score: 0.5},
		{Text: "c", Score: 0.5},
	}

	ranked, _ := HybridSearch(chunks, "ordre du jour", DefaultConfig())

	require.Len(t, ranked, 3)
	assert.Equal(t, "a", ranked[0].Text)
	assert.Equal(t, "b", ranked[1].Text)
	assert.Equal(t, "c", ranked[2].Text)
}

func TestHybridSearch_DoesNotReorderCallerSlice(t *testing.T) {
	chunks := []domain.Chunk{
		undatedChunk(0.1),
		undatedChunk(0.9),
	}

	ranked, _ := HybridSearch(chunks, "calendrier des séances", DefaultConfig())

	require.Len(t, ranked, 2)
	assert.Equal(t, 0.9, ranked[0].Score)
	assert.Equal(t, 0.1, chunks[0].Score, "input slice order must survive")
	assert.Equal(t, 0.9, chunks[1].Score)
}
