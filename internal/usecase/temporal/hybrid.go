package temporal

import (
	"sort"

	"council-rag/internal/domain"
)

// SearchMetadata records what one HybridSearch invocation actually did.
// It is surfaced verbatim on the API as a diagnostics panel, so field
// names and their absence semantics are part of the observable
// contract, not internal bookkeeping.
type SearchMetadata struct {
	// QueryYear is the year extracted from the query, absent when no
	// year was found.
	QueryYear *int `json:"query_year,omitempty"`

	// TemporalFilterApplied is true iff filtering was enabled and a
	// query year was found.
	TemporalFilterApplied bool `json:"temporal_filter_applied"`

	// TemporalWeightingApplied is true iff weighting was enabled and
	// a query year was found.
	TemporalWeightingApplied bool `json:"temporal_weighting_applied"`

	// OriginalCount is the number of candidate chunks received.
	OriginalCount int `json:"original_count"`

	// FilteredCount is the number of chunks left after filtering,
	// equal to OriginalCount when filtering did not run.
	FilteredCount int `json:"filtered_count"`
}

// HybridSearch ranks a candidate set by blending vector similarity with
// temporal proximity to a year mentioned in the query, if any. It is a
// pure function: stateless, synchronous, and deterministic for
// identical inputs. The caller truncates the ranked list to its context
// budget; HybridSearch never drops chunks except through the filter.
func HybridSearch(chunks []domain.Chunk, query string, cfg Config) ([]domain.Chunk, SearchMetadata) {
	metadata := SearchMetadata{
		OriginalCount: len(chunks),
		FilteredCount: len(chunks),
	}

	working := chunks
	queryYear, found := ExtractYear(query)
	if found {
		year := queryYear
		metadata.QueryYear = &year
	}

	if found && cfg.EnableFiltering {
		working = FilterByYear(working, queryYear, cfg.Tolerance)
		metadata.TemporalFilterApplied = true
		metadata.FilteredCount = len(working)
	}

	if found && cfg.EnableWeighting {
		working = WeightByYear(working, queryYear, cfg.Weight)
		metadata.TemporalWeightingApplied = true
	} else {
		// Copy so sorting never reorders the caller's slice.
		working = append([]domain.Chunk(nil), working...)
	}

	// Stable sort keeps ties in input order, which keeps results
	// deterministic and testable.
	sort.SliceStable(working, func(i, j int) bool {
		return working[i].RankScore() > working[j].RankScore()
	})

	return working, metadata
}
