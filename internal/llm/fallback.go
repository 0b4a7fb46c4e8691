package llm

import (
	"context"
	"strings"
)

// FallbackBullets builds deterministic bullet points from the first five
// keywords, or a single generic line when there are none. Reproducible for
// identical keyword input; used whenever remote generation is unavailable.
func FallbackBullets(keywords []string) string {
	limit := len(keywords)
	if limit > 5 {
		limit = 5
	}
	if limit == 0 {
		return "- Delivered measurable impact through cross-functional execution and KPI-focused initiatives"
	}
	lines := make([]string, 0, limit)
	for _, kw := range keywords[:limit] {
		lines = append(lines, "- Delivered measurable impact with "+kw+" through cross-functional execution and KPI-focused initiatives")
	}
	return strings.Join(lines, "\n")
}

// FallbackCoverLetter builds a fixed-template professional letter that lists
// all keywords in one sentence.
func FallbackCoverLetter(keywords []string) string {
	return "Dear Hiring Manager,\n\n" +
		"I am excited to apply for this role. My experience and skills align well with the requirements, especially in areas like " +
		strings.Join(keywords, ", ") +
		". I am eager to contribute to your team and help drive success.\n\n" +
		"Thank you for considering my application.\n\n" +
		"Best regards,\nCandidate"
}

// FallbackGenerator is the no-I/O Generator strategy. It is the contract's
// safety net and never returns an error.
type FallbackGenerator struct{}

func (FallbackGenerator) GenerateBullets(_ context.Context, _, _ string, keywords []string) (string, error) {
	return FallbackBullets(keywords), nil
}

func (FallbackGenerator) GenerateCoverLetter(_ context.Context, _, _ string, keywords []string) (string, error) {
	return FallbackCoverLetter(keywords), nil
}
