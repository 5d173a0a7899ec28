// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists CRAAP analysis results keyed by a content hash of
// the assessed entry, so re-analyzing an unchanged bibliography never pays
// for a second API call.
//
// The store is a single JSON document mapping "analysis_"-prefixed SHA-256
// digests to results. It is loaded once at construction and rewritten
// wholesale on Flush; a single process is assumed to own the file for the
// duration of a run.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/craaper/pkg/types"
)

const (
	cacheFileName = "analysis_cache.json"
	keyPrefix     = "analysis_"
)

// Store is an in-memory view of the on-disk analysis cache.
type Store struct {
	path    string
	entries map[string]types.CRAAPResult
}

// DefaultDir returns the user-scoped cache directory (e.g. ~/.cache/craaper).
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("determining user cache directory: %w", err)
	}
	return filepath.Join(base, "craaper"), nil
}

// Open creates the cache directory if needed and loads the persisted
// mapping. Loading fails soft: a missing file is a cold cache, and an
// unparseable file is treated as cold with a warning on w rather than an
// error — a corrupt cache costs money, not correctness.
func Open(dir string, w io.Writer) (*Store, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	s := &Store{
		path:    filepath.Join(dir, cacheFileName),
		entries: make(map[string]types.CRAAPResult),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading cache file %s: %w", s.path, err)
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		fmt.Fprintf(w, "warning: cache file %s is not valid JSON, starting cold: %v\n", s.path, err)
		s.entries = make(map[string]types.CRAAPResult)
	}

	return s, nil
}

// Key derives the cache key for an entry: the hex SHA-256 of a canonical
// sorted-key JSON serialization of the entry's fields with the abstract
// removed. Abstracts are large and not scoring-relevant, so two entries
// differing only in abstract share a key; any other change, whitespace
// included, produces a new key.
func Key(entry types.BibEntry) string {
	fields := entry.Fields()
	delete(fields, "abstract")

	// json.Marshal sorts map keys, which makes the serialization
	// canonical. A map of strings cannot fail to marshal.
	data, _ := json.Marshal(fields)
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// Get looks up a result by cache key. A hit comes back with Cached forced
// to true; the flag itself is never persisted.
func (s *Store) Get(key string) (types.CRAAPResult, bool) {
	r, ok := s.entries[keyPrefix+key]
	if !ok {
		return types.CRAAPResult{}, false
	}
	r.Cached = true
	return r, true
}

// Put inserts or overwrites a result in memory. Call Flush to persist.
func (s *Store) Put(key string, result types.CRAAPResult) {
	result.Cached = false
	s.entries[keyPrefix+key] = result
}

// Flush rewrites the whole mapping to disk. The write goes to a temp file
// in the cache directory which is then renamed over the previous content,
// so a crash mid-write cannot corrupt an existing cache.
func (s *Store) Flush() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), cacheFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp cache file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}

// Len returns the number of cached results.
func (s *Store) Len() int {
	return len(s.entries)
}

// Path returns the location of the cache file.
func (s *Store) Path() string {
	return s.path
}

// Stats describes the on-disk cache.
type Stats struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
	Bytes   int64  `json:"bytes"`
}

// GetStats reports the cache location, entry count, and file size. A
// missing file reports zero bytes.
func (s *Store) GetStats() (Stats, error) {
	stats := Stats{Path: s.path, Entries: len(s.entries)}
	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, fmt.Errorf("stat cache file: %w", err)
	}
	stats.Bytes = info.Size()
	return stats, nil
}

// Clear drops all cached results and removes the cache file.
func (s *Store) Clear() error {
	s.entries = make(map[string]types.CRAAPResult)
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache file: %w", err)
	}
	return nil
}
