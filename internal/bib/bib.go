// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bib parses BibTeX files and normalizes entries to the canonical
// field set the analyzer consumes. Grammar handling is delegated to
// github.com/nickng/bibtex; this package only maps parsed records onto
// BibEntry, applying the fallback rules for year, journal, and publisher.
package bib

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nickng/bibtex"

	"github.com/pdiddy/craaper/pkg/types"
)

// ParseFile reads a BibTeX file and returns its entries in source order.
// All entry types are accepted. Progress is reported on w, mirroring the
// tool's interactive output.
func ParseFile(path string, w io.Writer) ([]types.BibEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bibliography %s: %w", path, err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing bibliography %s: %w", path, err)
	}

	fmt.Fprintf(w, "Found %d entries in %s\n", len(entries), path)
	return entries, nil
}

// Parse reads BibTeX from r and returns normalized entries.
func Parse(r io.Reader) ([]types.BibEntry, error) {
	db, err := bibtex.Parse(r)
	if err != nil {
		return nil, err
	}

	entries := make([]types.BibEntry, 0, len(db.Entries))
	for _, raw := range db.Entries {
		entries = append(entries, normalize(raw))
	}
	return entries, nil
}

// normalize maps a parsed BibTeX entry onto the canonical field set.
// Fallbacks follow common bibliography practice: a date field supplies the
// year when no year is given, booktitle stands in for journal, and
// institution stands in for publisher.
func normalize(raw *bibtex.BibEntry) types.BibEntry {
	return types.BibEntry{
		Key:       raw.CiteName,
		Title:     field(raw, "title"),
		Author:    field(raw, "author"),
		Year:      normalizeYear(raw),
		URL:       field(raw, "url"),
		Journal:   firstOf(raw, "journal", "booktitle"),
		Publisher: firstOf(raw, "publisher", "institution"),
		DOI:       field(raw, "doi"),
		Type:      raw.Type,
		Abstract:  field(raw, "abstract"),
		Keywords:  field(raw, "keywords"),
		Note:      field(raw, "note"),
	}
}

// normalizeYear prefers the year portion of a date field (text before the
// first "-") and falls back to the year field.
func normalizeYear(raw *bibtex.BibEntry) string {
	if date := field(raw, "date"); date != "" {
		year, _, _ := strings.Cut(date, "-")
		return year
	}
	return field(raw, "year")
}

// field returns a BibTeX field value as a trimmed string, or "" if absent.
func field(raw *bibtex.BibEntry, name string) string {
	v, ok := raw.Fields[name]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(v.String())
}

// firstOf returns the first non-empty field among names.
func firstOf(raw *bibtex.BibEntry, names ...string) string {
	for _, name := range names {
		if v := field(raw, name); v != "" {
			return v
		}
	}
	return ""
}
