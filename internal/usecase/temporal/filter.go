package temporal

import "council-rag/internal/domain"

// FilterByYear retains the chunks whose year lies within ±tolerance of
// targetYear. Chunks without a year always survive; temporal filtering
// must never drop a document just because it was never dated. The
// relative order of survivors is preserved.
func FilterByYear(chunks []domain.Chunk, targetYear, tolerance int) []domain.Chunk {
	filtered := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if c.Year == nil {
			filtered = append(filtered, c)
			continue
		}
		distance := *c.Year - targetYear
		if distance < 0 {
			distance = -distance
		}
		if distance <= tolerance {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
