package temporal

import "council-rag/internal/domain"

// WeightByYear blends each dated chunk's similarity score with its
// temporal proximity to queryYear:
//
//	final = (1-weight)*score + weight*proximity
//
// Undated chunks pass through with FinalScore equal to their original
// Score and no TemporalScore, so the temporal mechanism neither boosts
// nor penalizes them. Input chunks are copied, never mutated, and the
// order is left untouched; ordering is HybridSearch's job.
func WeightByYear(chunks []domain.Chunk, queryYear int, weight float64) []domain.Chunk {
	weighted := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if c.Year == nil {
			final := c.Score
			c.FinalScore = &final
			weighted = append(weighted, c)
			continue
		}
		original := c.Score
		proximity := Proximity(queryYear, *c.Year)
		final := (1-weight)*c.Score + weight*proximity
		c.OriginalScore = &original
		c.TemporalScore = &proximity
		c.FinalScore = &final
		weighted = append(weighted, c)
	}
	return weighted
}
