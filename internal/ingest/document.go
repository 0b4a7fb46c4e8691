// Package ingest turns resume files and job-posting URLs into the plain
// UTF-8 text the pipeline consumes.
package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/matchiq/matchiq/internal/common"
)

// DefaultMaxDocumentBytes caps uploaded resume files.
const DefaultMaxDocumentBytes = 10 * 1024 * 1024

var supportedExtensions = map[string]struct{}{
	".txt":  {},
	".text": {},
	".md":   {},
}

// ReadResume extracts plain text from an uploaded resume document. Only
// plain-text formats are supported; binary formats need a dedicated parser
// and are rejected up front.
func ReadResume(filename string, r io.Reader, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDocumentBytes
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := supportedExtensions[ext]; !ok {
		return "", common.InvalidInputErrorf(
			"unsupported file type %q: upload a plain-text resume (.txt, .text, .md)", ext)
	}

	limited := io.LimitReader(r, maxBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return "", fmt.Errorf("read resume file: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", common.InvalidInputErrorf("resume file exceeds %d bytes", maxBytes)
	}
	if !utf8.Valid(data) {
		return "", common.InvalidInputErrorf("resume file is not valid UTF-8 text")
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", common.InvalidInputErrorf("resume file is empty")
	}
	return text, nil
}
