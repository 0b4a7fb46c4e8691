// Package llm produces optimized resume content, either through a remote
// chat-completions endpoint or a deterministic fallback.
package llm

import "context"

// Generator is the capability the pipeline depends on. Implementations must
// not fail because the remote endpoint is unavailable or misbehaving; that
// class of problem is absorbed into fallback content.
type Generator interface {
	GenerateBullets(ctx context.Context, resumeText, jobDescription string, keywords []string) (string, error)
	GenerateCoverLetter(ctx context.Context, resumeText, jobDescription string, keywords []string) (string, error)
}
