// Package keywords implements the pure text algorithms of the pipeline:
// keyword extraction from job descriptions and ATS match scoring.
package keywords

import (
	"regexp"
	"strings"
)

// maxKeywords caps the extracted sequence length.
const maxKeywords = 20

// tokenSplit matches any run of characters outside [a-z0-9+#.], so terms
// like "c++", "c#" and "node.js" survive tokenization.
var tokenSplit = regexp.MustCompile(`[^a-z0-9+#.]+`)

// stopWords are articles, conjunctions and job-posting filler that carry no
// matching signal.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "with": {}, "for": {}, "that": {}, "this": {},
	"from": {}, "are": {}, "was": {}, "but": {}, "not": {}, "have": {},
	"has": {}, "had": {}, "by": {}, "on": {}, "in": {}, "at": {}, "to": {},
	"of": {}, "a": {}, "an": {}, "role": {}, "team": {}, "years": {},
	"ability": {}, "required": {},
}

// Extract returns up to 20 candidate keywords from a job description,
// lowercased, deduplicated in first-occurrence order. Empty or
// all-stop-word input yields an empty slice. Pure and deterministic.
func Extract(jobDescription string) []string {
	tokens := tokenSplit.Split(strings.ToLower(jobDescription), -1)

	seen := make(map[string]struct{}, len(tokens))
	keywords := make([]string, 0, maxKeywords)
	for _, tok := range tokens {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
