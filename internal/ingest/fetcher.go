package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/matchiq/matchiq/internal/common"
)

const (
	fetchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	maxFetchBytes  = 1024 * 1024
)

// Fetcher downloads a job posting page and reduces it to plain text.
type Fetcher struct {
	client *http.Client
	log    *slog.Logger
}

func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		log:    logger,
	}
}

// FetchJobDescription GETs the URL and returns the page text with HTML
// stripped. Selector heuristics for specific job boards are deliberately
// absent; whole-page text is what the extractor tokenizes anyway.
func (f *Fetcher) FetchJobDescription(ctx context.Context, rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", common.InvalidInputErrorf("job URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "", common.InvalidInputErrorf("invalid URL format: must start with http:// or https://")
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build fetch request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain,*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch job description: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("fetch job description: HTTP %d from %s", resp.StatusCode, rawURL)
	}

	limited := io.LimitReader(resp.Body, maxFetchBytes+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	if len(body) > maxFetchBytes {
		body = body[:maxFetchBytes]
	}

	content := string(body)
	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/html") || strings.Contains(content, "<html") {
		content = extractTextFromHTML(content)
	}
	content = collapseWhitespace(content)
	if content == "" {
		return "", fmt.Errorf("no text content extracted from %s", rawURL)
	}

	f.log.Info("ingest.fetch.ok", "url", rawURL, "bytes", len(body),
		"text_len", len(content), "elapsed_ms", time.Since(start).Milliseconds())
	return content, nil
}

// extractTextFromHTML does a basic HTML-to-text conversion: remove
// script/style/chrome blocks, then strip tags. Not a full parser, but
// sufficient for keyword extraction.
func extractTextFromHTML(html string) string {
	result := html
	for _, tag := range []string{"script", "style", "noscript", "nav", "footer", "header"} {
		for {
			openTag := strings.Index(strings.ToLower(result), "<"+tag)
			if openTag == -1 {
				break
			}
			closeTag := strings.Index(strings.ToLower(result[openTag:]), "</"+tag+">")
			if closeTag == -1 {
				result = result[:openTag]
				break
			}
			endIdx := openTag + closeTag + len("</"+tag+">")
			result = result[:openTag] + result[endIdx:]
		}
	}

	var text strings.Builder
	inTag := false
	for _, ch := range result {
		if ch == '<' {
			inTag = true
			continue
		}
		if ch == '>' {
			inTag = false
			text.WriteRune(' ')
			continue
		}
		if !inTag {
			text.WriteRune(ch)
		}
	}
	return text.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
