package temporal

import "fmt"

// DecayBase is the per-year multiplier used by Proximity. A document one
// year away from the query year keeps 80% of a perfect temporal score,
// two years away 64%, and so on.
const DecayBase = 0.8

// Config holds the tunable parameters for temporal filtering and
// weighting. A Config is a plain value passed into every HybridSearch
// call; there is no shared mutable configuration between requests.
type Config struct {
	// Weight is the blending weight in [0, 1] given to temporal
	// proximity versus the similarity score.
	Weight float64

	// Tolerance is the inclusive ± window, in years, used by the
	// temporal filter.
	Tolerance int

	// EnableFiltering controls whether out-of-window chunks are
	// removed when a query year is known.
	EnableFiltering bool

	// EnableWeighting controls whether scores are blended with
	// temporal proximity when a query year is known.
	EnableWeighting bool
}

// DefaultConfig returns current defaults. These values are heuristic
// and should be tuned against real council-minute queries.
func DefaultConfig() Config {
	return Config{
		Weight:          0.3,
		Tolerance:       2,
		EnableFiltering: true,
		EnableWeighting: true,
	}
}

// Validate checks that the configuration values are within acceptable
// ranges. Invalid values are a wiring mistake and must be rejected at
// construction time, not silently tolerated per request.
func (c Config) Validate() error {
	if c.Weight < 0 || c.Weight > 1 {
		return fmt.Errorf("temporal weight must be in [0, 1], got %f", c.Weight)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("year tolerance must be non-negative, got %d", c.Tolerance)
	}
	return nil
}
