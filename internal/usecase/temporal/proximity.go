package temporal

import "math"

// Proximity computes the temporal closeness of a document year to the
// query year as DecayBase^|queryYear-documentYear|. A same-year match
// yields exactly 1.0 and the score decays geometrically with distance,
// approaching but never reaching zero.
func Proximity(queryYear, documentYear int) float64 {
	distance := queryYear - documentYear
	if distance < 0 {
		distance = -distance
	}
	return math.Pow(DecayBase, float64(distance))
}
