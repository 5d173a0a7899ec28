// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/craaper/pkg/types"
)

func sampleEntry() types.BibEntry {
	return types.BibEntry{
		Key:       "smith2020",
		Title:     "A Study of Things",
		Author:    "Smith, J. and Doe, A.",
		Year:      "2020",
		URL:       "https://example.com/paper",
		Journal:   "Journal of Things",
		Publisher: "Things Press",
		DOI:       "10.1000/things.1",
		Type:      "article",
		Abstract:  "A long abstract about things.",
		Keywords:  "things, studies",
		Note:      "seminal",
	}
}

func sampleResult() types.CRAAPResult {
	return types.CRAAPResult{
		Currency:      types.Criterion{Score: 8, Explanation: "recent", Confidence: 0.9},
		Relevance:     types.Criterion{Score: 9, Explanation: "on topic", Confidence: 0.85},
		Authority:     types.Criterion{Score: 7, Explanation: "known venue", Confidence: 0.8},
		Accuracy:      types.Criterion{Score: 8, Explanation: "peer reviewed", Confidence: 0.75},
		Purpose:       types.Criterion{Score: 9, Explanation: "informational", Confidence: 0.9},
		EntryKey:      "smith2020",
		EntryCitation: "Smith et al. (2020)",
		InputTokens:   1200,
		OutputTokens:  400,
	}
}

// --- Key ---

func TestKeyIgnoresAbstract(t *testing.T) {
	a := sampleEntry()
	b := sampleEntry()
	b.Abstract = "a completely different abstract"

	if Key(a) != Key(b) {
		t.Error("entries differing only in abstract should share a cache key")
	}

	b.Abstract = ""
	if Key(a) != Key(b) {
		t.Error("empty vs non-empty abstract should share a cache key")
	}
}

func TestKeyChangesWithAnyOtherField(t *testing.T) {
	base := sampleEntry()
	baseKey := Key(base)

	mutations := map[string]func(*types.BibEntry){
		"key":       func(e *types.BibEntry) { e.Key = "smith2021" },
		"title":     func(e *types.BibEntry) { e.Title = "A Study of Things " }, // trailing space
		"author":    func(e *types.BibEntry) { e.Author = "Smith, J." },
		"year":      func(e *types.BibEntry) { e.Year = "2021" },
		"url":       func(e *types.BibEntry) { e.URL = "https://example.com/other" },
		"journal":   func(e *types.BibEntry) { e.Journal = "Other Journal" },
		"publisher": func(e *types.BibEntry) { e.Publisher = "Other Press" },
		"doi":       func(e *types.BibEntry) { e.DOI = "10.1000/things.2" },
		"type":      func(e *types.BibEntry) { e.Type = "book" },
		"keywords":  func(e *types.BibEntry) { e.Keywords = "other" },
		"note":      func(e *types.BibEntry) { e.Note = "" },
	}

	for field, mutate := range mutations {
		e := sampleEntry()
		mutate(&e)
		if Key(e) == baseKey {
			t.Errorf("changing %s did not change the cache key", field)
		}
	}
}

func TestKeyIsDeterministic(t *testing.T) {
	e := sampleEntry()
	k1 := Key(e)
	k2 := Key(e)
	if k1 != k2 {
		t.Errorf("Key not deterministic: %s vs %s", k1, k2)
	}
	if len(k1) != 64 {
		t.Errorf("Key length = %d, want 64 hex chars", len(k1))
	}
	for _, c := range k1 {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Errorf("Key contains non-hex character %q", c)
		}
	}
}

// --- Store ---

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(t.TempDir(), io.Discard)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("cold cache has %d entries, want 0", s.Len())
	}
}

func TestOpenCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, cacheFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var warnings strings.Builder
	s, err := Open(dir, &warnings)
	if err != nil {
		t.Fatalf("Open with corrupt file: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("corrupt cache loaded %d entries, want 0", s.Len())
	}
	if !strings.Contains(warnings.String(), "starting cold") {
		t.Errorf("expected a cold-start warning, got %q", warnings.String())
	}
}

func TestPutFlushGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	key := Key(sampleEntry())
	s.Put(key, sampleResult())
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	// Reopen and read back.
	s2, err := Open(dir, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := s2.Get(key)
	if !ok {
		t.Fatal("expected a cache hit after reopen")
	}
	if !got.Cached {
		t.Error("cache read must set Cached=true")
	}
	if got.EntryKey != "smith2020" || got.Currency.Score != 8 {
		t.Errorf("round-tripped result does not match: %+v", got)
	}
	if got.EstimatedCost(types.DefaultRates) != 0 {
		t.Error("cached result must cost zero")
	}
}

func TestCachedFlagNotPersisted(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	r := sampleResult()
	r.Cached = true // must be dropped on write
	s.Put("deadbeef", r)
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("cache file is not valid JSON: %v", err)
	}
	stored, ok := raw[keyPrefix+"deadbeef"]
	if !ok {
		t.Fatalf("stored keys: %v, want %q", raw, keyPrefix+"deadbeef")
	}
	if _, present := stored["cached"]; present {
		t.Error("cached flag must not be persisted")
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	s.Put("k", sampleResult())
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", s.Len())
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("cache file should be removed by Clear")
	}

	// Clearing an already-clear cache is fine.
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestGetStats(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 0 || stats.Bytes != 0 {
		t.Errorf("empty cache stats = %+v", stats)
	}

	s.Put("k", sampleResult())
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	stats, err = s.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 1 || stats.Bytes == 0 {
		t.Errorf("stats after flush = %+v", stats)
	}
}
