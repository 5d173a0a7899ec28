// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze orchestrates the assessment of bibliography entries:
// cache lookup, optional page enrichment, the LLM call, strict response
// parsing, and the per-entry cache write.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/craaper/internal/cache"
	"github.com/pdiddy/craaper/internal/fetch"
	"github.com/pdiddy/craaper/pkg/types"
)

// Request is one assessment call: a system role text and the user prompt.
type Request struct {
	System string
	User   string
}

// Response is the raw backend output: the structured content plus the token
// counts the API reported for the call.
type Response struct {
	Content      string
	InputTokens  int
	OutputTokens int
}

// AIBackend abstracts the LLM API so tests can supply a mock.
type AIBackend interface {
	Assess(ctx context.Context, req Request) (Response, error)
}

// PageFetcher abstracts the best-effort URL enrichment.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) fetch.Result
}

// ParseError reports an LLM response that does not match the expected
// structured shape. It is fatal for the entry being assessed; the response
// text is never interpreted any other way.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parsing assessment response: " + e.Reason
}

// Analyzer assesses entries against the CRAAP criteria. All collaborators
// are injected: the cache store, the page fetcher, and the AI backend.
type Analyzer struct {
	store   *cache.Store
	fetcher PageFetcher
	backend AIBackend
	cfg     types.AnalyzeConfig
	out     io.Writer
}

// New builds an Analyzer. The fetcher may be nil when page enrichment is
// disabled. Progress output goes to w.
func New(store *cache.Store, fetcher PageFetcher, backend AIBackend, cfg types.AnalyzeConfig, w io.Writer) *Analyzer {
	return &Analyzer{
		store:   store,
		fetcher: fetcher,
		backend: backend,
		cfg:     cfg,
		out:     w,
	}
}

// Analyze assesses a single entry. A cache hit returns immediately with
// Cached=true and no network traffic. On a miss the result is written to
// the cache and flushed before returning, so one entry's result survives a
// crash during the next.
func (a *Analyzer) Analyze(ctx context.Context, entry types.BibEntry) (types.CRAAPResult, error) {
	key := cache.Key(entry)

	if result, ok := a.store.Get(key); ok {
		fmt.Fprintf(a.out, "Using cached analysis for entry: %s\n", entry.Key)
		return result, nil
	}

	var content string
	if a.cfg.FetchEnabled && a.fetcher != nil && entry.URL != "" {
		res := a.fetcher.Fetch(ctx, entry.URL)
		if res.Available {
			content = res.Text
		} else {
			fmt.Fprintf(a.out, "note: no supplementary content for %s: %s\n", entry.Key, res.Reason)
		}
	}

	prompt, err := renderPrompt(entry, content)
	if err != nil {
		return types.CRAAPResult{}, fmt.Errorf("rendering prompt for %s: %w", entry.Key, err)
	}

	resp, err := a.backend.Assess(ctx, Request{System: systemPrompt, User: prompt})
	if err != nil {
		return types.CRAAPResult{}, fmt.Errorf("assessing %s: %w", entry.Key, err)
	}

	result, err := parseAssessment(resp.Content)
	if err != nil {
		return types.CRAAPResult{}, fmt.Errorf("entry %s: %w", entry.Key, err)
	}

	result.EntryKey = entry.Key
	result.EntryCitation = FormatCitation(entry.Author, entry.Year)
	result.InputTokens = resp.InputTokens
	result.OutputTokens = resp.OutputTokens
	result.Cached = false

	a.store.Put(key, result)
	if err := a.store.Flush(); err != nil {
		return types.CRAAPResult{}, fmt.Errorf("flushing cache after %s: %w", entry.Key, err)
	}

	return result, nil
}

// FormatCitation builds the short display citation: the first author's
// surname (text before the first comma of the first "and"-separated
// author), "et al." when more than one author is listed, and the year in
// parentheses, with "n.d." standing in for a missing year.
func FormatCitation(author, year string) string {
	surname := "Unknown"
	authors := strings.Split(author, " and ")
	if first := strings.TrimSpace(authors[0]); first != "" {
		surname, _, _ = strings.Cut(first, ",")
		surname = strings.TrimSpace(surname)
	}
	if len(authors) > 1 {
		surname += " et al."
	}

	if year == "" {
		year = "n.d."
	}
	return fmt.Sprintf("%s (%s)", surname, year)
}

// criterionPayload mirrors one criterion object in the LLM response.
// Pointer fields distinguish missing values from zero values.
type criterionPayload struct {
	Score       *float64 `json:"score"`
	Explanation *string  `json:"explanation"`
	Confidence  *float64 `json:"confidence"`
}

// assessmentPayload mirrors the expected top-level response shape.
type assessmentPayload struct {
	Currency  *criterionPayload `json:"currency"`
	Relevance *criterionPayload `json:"relevance"`
	Authority *criterionPayload `json:"authority"`
	Accuracy  *criterionPayload `json:"accuracy"`
	Purpose   *criterionPayload `json:"purpose"`
}

// parseAssessment decodes the LLM response content into the five criterion
// triples. The decode is strict: a missing criterion, a missing field, or a
// score/confidence outside its range is a ParseError. The content is only
// ever treated as data.
func parseAssessment(content string) (types.CRAAPResult, error) {
	var payload assessmentPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return types.CRAAPResult{}, &ParseError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	var result types.CRAAPResult
	fields := []struct {
		name    string
		payload *criterionPayload
		dst     *types.Criterion
	}{
		{"currency", payload.Currency, &result.Currency},
		{"relevance", payload.Relevance, &result.Relevance},
		{"authority", payload.Authority, &result.Authority},
		{"accuracy", payload.Accuracy, &result.Accuracy},
		{"purpose", payload.Purpose, &result.Purpose},
	}
	for _, f := range fields {
		crit, err := validateCriterion(f.name, f.payload)
		if err != nil {
			return types.CRAAPResult{}, err
		}
		*f.dst = crit
	}

	return result, nil
}

// validateCriterion checks one criterion object for presence and range.
func validateCriterion(name string, p *criterionPayload) (types.Criterion, error) {
	if p == nil {
		return types.Criterion{}, &ParseError{Reason: fmt.Sprintf("missing criterion %q", name)}
	}
	if p.Score == nil {
		return types.Criterion{}, &ParseError{Reason: fmt.Sprintf("criterion %q: missing score", name)}
	}
	if *p.Score < 0 || *p.Score > 10 {
		return types.Criterion{}, &ParseError{Reason: fmt.Sprintf("criterion %q: score %v out of range [0,10]", name, *p.Score)}
	}
	if p.Explanation == nil {
		return types.Criterion{}, &ParseError{Reason: fmt.Sprintf("criterion %q: missing explanation", name)}
	}
	if p.Confidence == nil {
		return types.Criterion{}, &ParseError{Reason: fmt.Sprintf("criterion %q: missing confidence", name)}
	}
	if *p.Confidence < 0 || *p.Confidence > 1 {
		return types.Criterion{}, &ParseError{Reason: fmt.Sprintf("criterion %q: confidence %v out of range [0,1]", name, *p.Confidence)}
	}
	return types.Criterion{
		Score:       *p.Score,
		Explanation: *p.Explanation,
		Confidence:  *p.Confidence,
	}, nil
}
