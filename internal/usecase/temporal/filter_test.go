package temporal

import (
	"testing"

	"council-rag/internal/domain"

	"github.com/stretchr/testify/assert"
)

func chunkWithYear(year int, score float64) domain.Chunk {
	y := year
	return domain.Chunk{Year: &y, Score: score}
}

func undatedChunk(score float64) domain.Chunk {
	return domain.Chunk{Score: score}
}

func TestFilterByYear(t *testing.T) {
	tests := []struct {
		name       string
		chunks     []domain.Chunk
		targetYear int
		tolerance  int
		wantYears  []*int
	}{
		{
			name: "drops chunks outside window",
			chunks: []domain.Chunk{
				chunkWithYear(2025, 0.78),
				chunkWithYear(2020, 0.82),
			},
			targetYear: 2025,
			tolerance:  2,
			wantYears:  []*int{intPtr(2025)},
		},
		{
			name: "window is inclusive",
			chunks: []domain.Chunk{
				chunkWithYear(2023, 0.5),
				chunkWithYear(2027, 0.5),
				chunkWithYear(2028, 0.5),
			},
			targetYear: 2025,
			tolerance:  2,
			wantYears:  []*int{intPtr(2023), intPtr(2027)},
		},
		{
			name: "undated chunks always survive",
			chunks: []domain.Chunk{
				undatedChunk(0.4),
				chunkWithYear(1999, 0.9),
			},
			targetYear: 2025,
			tolerance:  0,
			wantYears:  []*int{nil},
		},
		{
			name:       "empty input yields empty output",
			chunks:     nil,
			targetYear: 2025,
			tolerance:  2,
			wantYears:  []*int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByYear(tt.chunks, tt.targetYear, tt.tolerance)
			assert.Len(t, got, len(tt.wantYears))
			for i, want := range tt.wantYears {
				if want == nil {
					assert.Nil(t, got[i].Year)
				} else {
					assert.Equal(t, *want, *got[i].Year)
				}
			}
		})
	}
}

func TestFilterByYear_PreservesOrder(t *testing.T) {
	chunks := []domain.Chunk{
		chunkWithYear(2024, 0.1),
		undatedChunk(0.9),
		chunkWithYear(2026, 0.5),
		chunkWithYear(2010, 0.99),
		chunkWithYear(2025, 0.3),
	}

	got := FilterByYear(chunks, 2025, 1)

	scores := make([]float64, len(got))
	for i, c := range got {
		scores[i] = c.Score
	}
	assert.Equal(t, []float64{0.1, 0.9, 0.5, 0.3}, scores, "stable filter, no re-sort")
}

func intPtr(v int) *int { return &v }
