package domain

import "github.com/google/uuid"

// Chunk is the unit of retrieval: one excerpt of a council-meeting
// document, together with the similarity score assigned by the vector
// store and the temporal scores computed during ranking.
//
// Text, Filename and Page are never modified after retrieval. The
// ranking pipeline produces new Chunk values instead of mutating the
// ones it receives, so a chunk slice can safely be reused across calls.
type Chunk struct {
	ID       uuid.UUID
	Text     string
	Filename string
	Page     *int

	// Year is the publication year of the source document. Nil for
	// legacy documents that were never classified; such chunks are
	// never excluded by temporal filtering.
	Year *int

	// Score is the similarity score from the vector store. Higher is
	// more relevant. Not guaranteed to stay within [0, 1].
	Score float64

	// OriginalScore preserves the pre-weighting Score once a final
	// score has been computed, for the diagnostics surface.
	OriginalScore *float64

	// TemporalScore is the decay score in (0, 1]; set only when
	// weighting ran and the chunk carries a year.
	TemporalScore *float64

	// FinalScore is the blended ranking score; set only when
	// weighting ran. Ranking falls back to Score when it is absent.
	FinalScore *float64
}

// RankScore returns the score the chunk is ordered by.
func (c Chunk) RankScore() float64 {
	if c.FinalScore != nil {
		return *c.FinalScore
	}
	return c.Score
}
