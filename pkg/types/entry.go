// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BibEntry is the canonical bibliography record produced by the BibTeX
// normalizer. Every field is a plain string and may be empty. Key is the
// cite key from the source file, stable and unique per entry.
type BibEntry struct {
	Key       string `json:"key" yaml:"key"`
	Title     string `json:"title" yaml:"title"`
	Author    string `json:"author" yaml:"author"`
	Year      string `json:"year" yaml:"year"`
	URL       string `json:"url" yaml:"url"`
	Journal   string `json:"journal" yaml:"journal"`
	Publisher string `json:"publisher" yaml:"publisher"`
	DOI       string `json:"doi" yaml:"doi"`
	Type      string `json:"type" yaml:"type"`
	Abstract  string `json:"abstract" yaml:"abstract"`
	Keywords  string `json:"keywords" yaml:"keywords"`
	Note      string `json:"note" yaml:"note"`
}

// Fields returns the entry as a field map keyed by the canonical lowercase
// field names. The map form is what cache-key derivation canonicalizes.
func (e BibEntry) Fields() map[string]string {
	return map[string]string{
		"key":       e.Key,
		"title":     e.Title,
		"author":    e.Author,
		"year":      e.Year,
		"url":       e.URL,
		"journal":   e.Journal,
		"publisher": e.Publisher,
		"doi":       e.DOI,
		"type":      e.Type,
		"abstract":  e.Abstract,
		"keywords":  e.Keywords,
		"note":      e.Note,
	}
}
