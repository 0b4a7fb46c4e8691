package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config for the remote generation client.
type Config struct {
	APIURL         string // full chat-completions endpoint URL
	APIKey         string
	Model          string
	Temperature    float32
	MaxTokens      int
	ConnectTimeout time.Duration
	Timeout        time.Duration // covers the whole request/response exchange
}

// Client calls a chat-completions endpoint and degrades to deterministic
// fallback content on any failure. Generation errors are logged, never
// returned: the pipeline must not fail because the provider did.
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 30 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
			},
		},
		log: logger,
	}
}

var _ Generator = (*Client)(nil)

// chatRequest mirrors the chat-completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (c *Client) GenerateBullets(ctx context.Context, resumeText, jobDescription string, keywords []string) (string, error) {
	prompt := BuildBulletsPrompt(resumeText, jobDescription, keywords)
	return c.generate(ctx, "bullets", prompt, FallbackBullets(keywords)), nil
}

func (c *Client) GenerateCoverLetter(ctx context.Context, resumeText, jobDescription string, keywords []string) (string, error) {
	prompt := BuildCoverLetterPrompt(resumeText, jobDescription, keywords)
	return c.generate(ctx, "cover_letter", prompt, FallbackCoverLetter(keywords)), nil
}

// generate performs one remote call and returns either the extracted text or
// the supplied fallback. Every failure path logs and falls back.
func (c *Client) generate(ctx context.Context, kind, prompt, fallback string) string {
	if c.cfg.APIURL == "" || c.cfg.APIKey == "" {
		c.log.Warn("llm.generate.not_configured", "kind", kind,
			"url_set", c.cfg.APIURL != "", "key_set", c.cfg.APIKey != "")
		return fallback
	}

	rid := uuid.New().String()
	start := time.Now()
	c.log.Info("llm.generate.start", "req_id", rid, "kind", kind,
		"model", c.cfg.Model, "prompt_len", len(prompt))

	body := chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	bs, err := json.Marshal(body)
	if err != nil {
		c.log.Error("llm.generate.encode_error", "req_id", rid, "error", err)
		return fallback
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(bs))
	if err != nil {
		c.log.Error("llm.generate.build_request_error", "req_id", rid, "error", err)
		return fallback
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("llm.generate.send_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return fallback
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn("llm.generate.body_close_error", "req_id", rid, "error", err)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		c.log.Warn("llm.generate.non_2xx", "req_id", rid, "status", resp.StatusCode,
			"body", trimForLog(string(raw), 500))
		return fallback
	}

	// Misconfigured endpoints often redirect to an HTML login page; catch
	// that before attempting to parse JSON.
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "application/json") {
		if strings.HasPrefix(strings.TrimSpace(string(raw)), "<") {
			c.log.Error("llm.generate.html_response", "req_id", rid,
				"content_type", contentType, "body", trimForLog(string(raw), 1000))
		} else {
			c.log.Error("llm.generate.non_json_content_type", "req_id", rid,
				"content_type", contentType, "body", trimForLog(string(raw), 500))
		}
		return fallback
	}

	content, err := ExtractContent(raw)
	if err != nil {
		c.log.Error("llm.generate.decode_error", "req_id", rid, "error", err,
			"body", trimForLog(string(raw), 1000))
		return fallback
	}

	c.log.Info("llm.generate.ok", "req_id", rid, "kind", kind,
		"content_len", len(content), "elapsed_ms", time.Since(start).Milliseconds())
	return content
}

func trimForLog(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	// back up to a rune boundary so the snippet stays valid UTF-8
	end := max
	for end > 0 && s[end]&0xC0 == 0x80 {
		end--
	}
	return s[:end] + "...(truncated)"
}
