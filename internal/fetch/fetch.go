// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves a short plain-text excerpt from an entry's URL to
// enrich the assessment prompt. Fetching is strictly best-effort: every
// failure mode maps to an unavailable Result, never to an error the caller
// must handle.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/pdiddy/craaper/pkg/types"
)

// maxExcerptLen bounds the extracted text included in the prompt.
const maxExcerptLen = 1000

// maxBodyBytes bounds how much of a response body is read before text
// extraction. Pages large enough to hit this limit still yield a full
// excerpt.
const maxBodyBytes = 1 << 20

// Result is the typed outcome of a fetch. Available distinguishes a usable
// excerpt from absence of content; Reason records why content was
// unavailable (timeout, HTTP status, unreadable body) so callers and tests
// can tell the cases apart without swallowed errors.
type Result struct {
	Text      string
	Available bool
	Reason    string
}

// unavailable builds a Result for a failed fetch.
func unavailable(format string, args ...any) Result {
	return Result{Reason: fmt.Sprintf(format, args...)}
}

// Fetcher retrieves page excerpts with a bounded timeout.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// New creates a Fetcher from HTTP settings. A zero timeout defaults to 10
// seconds.
func New(cfg types.HTTPConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
	}
}

// Fetch GETs url, extracts plain text from the HTML body, and truncates it
// to the excerpt limit. Any failure returns an unavailable Result.
func (f *Fetcher) Fetch(ctx context.Context, url string) Result {
	if url == "" {
		return unavailable("no url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return unavailable("building request: %v", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return unavailable("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return unavailable("http status %d", resp.StatusCode)
	}

	text, err := extractText(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil && text == "" {
		return unavailable("reading body: %v", err)
	}
	if text == "" {
		return unavailable("no text content")
	}
	if len(text) > maxExcerptLen {
		text = text[:maxExcerptLen]
	}
	return Result{Text: text, Available: true}
}

// extractText walks the HTML token stream and collects text content,
// skipping script and style elements. Whitespace runs collapse to single
// spaces.
func extractText(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	var b strings.Builder
	skipDepth := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			err := z.Err()
			if err == io.EOF {
				return strings.TrimSpace(b.String()), nil
			}
			// A malformed or truncated page still yields whatever text
			// came before the error.
			return strings.TrimSpace(b.String()), err
		case html.StartTagToken:
			name, _ := z.TagName()
			if skipTag(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if skipTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := strings.TrimSpace(string(z.Text()))
			if text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(text)
			if b.Len() >= maxExcerptLen {
				return b.String(), nil
			}
		}
	}
}

func skipTag(name string) bool {
	return name == "script" || name == "style" || name == "noscript"
}
