package temporal

import (
	"regexp"
	"strconv"
)

// Years outside this range are treated as other 4-digit numbers
// (amounts, reference codes), not as publication years.
const (
	minYear = 1900
	maxYear = 2100
)

// yearPatterns are tried in order, most specific first. Cue-phrase
// patterns win over a bare 4-digit match so that a query like
// "budget 2024 voté en 2025" resolves to 2025 rather than whichever
// number happens to come first. The \b anchors keep longer digit runs
// (budget figures) from matching.
var yearPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bann[ée]e\s+(\d{4})\b`),
	regexp.MustCompile(`(?i)\b(?:en|pour|de|d['’]|durant|pendant|depuis|avant|après|apres)\s*(\d{4})\b`),
	regexp.MustCompile(`\b(\d{4})\b`),
}

// ExtractYear scans a free-text query for a 4-digit year. It returns
// the first in-range match of the highest-priority pattern that yields
// one, and false when no pattern produces a valid year. Any string is
// valid input; there is no failure mode beyond "no year found".
func ExtractYear(query string) (int, bool) {
	for _, pattern := range yearPatterns {
		for _, m := range pattern.FindAllStringSubmatch(query, -1) {
			year, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if year >= minYear && year <= maxYear {
				return year, true
			}
		}
	}
	return 0, false
}
