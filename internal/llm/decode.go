package llm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ExtractContent pulls the textual payload out of a chat-completions style
// response body. Providers disagree on the exact shape: content may be a
// plain string, an array of {"text": ...} / {"content": ...} parts, or live
// under alternate field names ("output" instead of "content"). The decoder
// walks the structure recursively and concatenates every textual leaf,
// separating sibling array elements with a newline.
//
// It returns an error when the body is not JSON or lacks a usable top-level
// "choices" array; callers are expected to fall back, not propagate.
func ExtractContent(raw []byte) (string, error) {
	var root map[string]any
	if err := json.Unmarshal(raw, &root); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	choices, ok := root["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", fmt.Errorf("response missing choices")
	}
	choice, ok := choices[0].(map[string]any)
	if !ok {
		return "", fmt.Errorf("unexpected choice shape")
	}

	// Prefer the message node when present, then the usual content spots.
	node := any(choice)
	if msg, ok := choice["message"].(map[string]any); ok {
		node = msg
	}
	content := node
	if m, ok := node.(map[string]any); ok {
		switch {
		case m["content"] != nil:
			content = m["content"]
		case m["output"] != nil:
			content = m["output"]
		case choice["text"] != nil:
			content = choice["text"]
		}
	}

	var b strings.Builder
	appendText(content, &b)
	return strings.TrimSpace(b.String()), nil
}

// appendText reduces an arbitrary JSON node to text. Nil nodes terminate
// recursion; unknown object shapes are treated as plain objects and every
// field is visited (in sorted key order, to keep output deterministic).
func appendText(node any, b *strings.Builder) {
	switch n := node.(type) {
	case nil:
		return
	case string:
		b.WriteString(n)
	case []any:
		for _, elem := range n {
			switch e := elem.(type) {
			case string:
				b.WriteString(e)
			case map[string]any:
				if text, ok := e["text"].(string); ok {
					b.WriteString(text)
				} else if c, ok := e["content"]; ok {
					appendText(c, b)
				} else {
					appendText(e, b)
				}
			default:
				appendText(elem, b)
			}
			if s := b.String(); len(s) > 0 && s[len(s)-1] != '\n' {
				b.WriteByte('\n')
			}
		}
	case map[string]any:
		if text, ok := n["text"].(string); ok {
			b.WriteString(text)
			return
		}
		if c, ok := n["content"]; ok {
			appendText(c, b)
			return
		}
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			appendText(n[k], b)
		}
	}
}
