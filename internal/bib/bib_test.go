// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBib = `@article{smith2020,
  title     = {A Study of Things},
  author    = {Smith, J. and Doe, A.},
  year      = {2020},
  journal   = {Journal of Things},
  publisher = {Things Press},
  doi       = {10.1000/things.1},
  url       = {https://example.com/paper},
  abstract  = {A long abstract.},
  keywords  = {things, studies},
  note      = {seminal}
}

@inproceedings{lee2019,
  title     = {Conference Findings},
  author    = {Lee, K.},
  date      = {2019-06-14},
  booktitle = {Proceedings of Things},
  institution = {Things Institute}
}
`

func TestParseNormalizesFields(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleBib))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	smith := entries[0]
	assert.Equal(t, "smith2020", smith.Key)
	assert.Equal(t, "A Study of Things", smith.Title)
	assert.Equal(t, "Smith, J. and Doe, A.", smith.Author)
	assert.Equal(t, "2020", smith.Year)
	assert.Equal(t, "Journal of Things", smith.Journal)
	assert.Equal(t, "Things Press", smith.Publisher)
	assert.Equal(t, "10.1000/things.1", smith.DOI)
	assert.Equal(t, "https://example.com/paper", smith.URL)
	assert.Equal(t, "article", smith.Type)
	assert.Equal(t, "A long abstract.", smith.Abstract)
	assert.Equal(t, "things, studies", smith.Keywords)
	assert.Equal(t, "seminal", smith.Note)
}

func TestParseFallbacks(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleBib))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	lee := entries[1]
	assert.Equal(t, "2019", lee.Year, "year should come from the date field")
	assert.Equal(t, "Proceedings of Things", lee.Journal, "booktitle should stand in for journal")
	assert.Equal(t, "Things Institute", lee.Publisher, "institution should stand in for publisher")
	assert.Equal(t, "inproceedings", lee.Type)
	assert.Empty(t, lee.DOI)
	assert.Empty(t, lee.Abstract)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refs.bib")
	require.NoError(t, os.WriteFile(path, []byte(sampleBib), 0o644))

	var progress strings.Builder
	entries, err := ParseFile(path, &progress)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Contains(t, progress.String(), "Found 2 entries")
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "absent.bib"), io.Discard)
	require.Error(t, err)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse(strings.NewReader("@article{broken,"))
	require.Error(t, err)
}
