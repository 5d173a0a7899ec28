// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/craaper/pkg/types"
)

// yamlEntry wraps a result with its derived total, category, and cost so
// the YAML document is self-contained for downstream tooling.
type yamlEntry struct {
	types.CRAAPResult `yaml:",inline"`
	Total             float64 `yaml:"total"`
	Category          string  `yaml:"category"`
	EstimatedCost     float64 `yaml:"estimated_cost"`
}

// WriteYAML writes the full result list as a YAML document to w.
func WriteYAML(w io.Writer, results []types.CRAAPResult, rates types.Rates) error {
	entries := make([]yamlEntry, len(results))
	for i, r := range results {
		entries[i] = yamlEntry{
			CRAAPResult:   r,
			Total:         r.TotalScore(),
			Category:      r.Category(),
			EstimatedCost: r.EstimatedCost(rates),
		}
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(entries)
}
