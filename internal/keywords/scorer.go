package keywords

import (
	"math"
	"strings"
)

// Score computes the ATS match percentage: how many keywords occur as a
// case-insensitive substring of the resume, each counted at most once,
// rounded half-up. An empty keyword list scores 0. Pure and deterministic.
func Score(resumeText string, kws []string) int {
	if len(kws) == 0 {
		return 0
	}
	resume := strings.ToLower(resumeText)
	matches := 0
	for _, kw := range kws {
		if strings.Contains(resume, strings.ToLower(kw)) {
			matches++
		}
	}
	return int(math.Round(float64(matches) * 100 / float64(len(kws))))
}
