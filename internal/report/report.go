// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders CRAAP analysis results for people and machines:
// a text report with a score grid and per-entry explanations, a pair of CSV
// files, or a YAML document. It consumes only the result type's public
// accessors.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/pdiddy/craaper/pkg/types"
)

// lowConfidence marks scores the model itself was unsure about.
const lowConfidence = 0.7

// criterionNames in canonical order, for table headers and detail lines.
var criterionNames = []string{"Currency", "Relevance", "Authority", "Accuracy", "Purpose"}

// WriteText renders the full text report: a scoring-band legend, the score
// grid, per-entry detailed explanations, and an aggregate token/cost
// summary.
func WriteText(w io.Writer, results []types.CRAAPResult, rates types.Rates) {
	fmt.Fprintln(w, "CRAAP Test Analysis Results")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Scoring Categories:")
	fmt.Fprintln(w, "45-50: Excellent")
	fmt.Fprintln(w, "40-44: Good")
	fmt.Fprintln(w, "35-39: Average")
	fmt.Fprintln(w, "30-34: Borderline")
	fmt.Fprintln(w, "<30: Unreliable, not suitable for use")
	fmt.Fprintln(w)

	writeScoreTable(w, results)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Note: Scores marked with * indicate lower confidence (< 0.7) in the assessment")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Detailed Explanations:")
	for _, r := range results {
		writeDetail(w, r)
	}

	writeSummary(w, results, rates)
}

func writeScoreTable(w io.Writer, results []types.CRAAPResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(append(append([]string{"Citation"}, criterionNames...), "Total", "Category"))
	table.SetAutoWrapText(false)

	for _, r := range results {
		row := []string{r.EntryCitation}
		for _, c := range r.Criteria() {
			row = append(row, formatScore(c))
		}
		row = append(row, fmt.Sprintf("%.2f", r.TotalScore()), r.Category())
		table.Append(row)
	}
	table.Render()
}

// formatScore renders a criterion score, starring low-confidence values.
func formatScore(c types.Criterion) string {
	s := fmt.Sprintf("%.2f", c.Score)
	if c.Confidence < lowConfidence {
		s += "*"
	}
	return s
}

func writeDetail(w io.Writer, r types.CRAAPResult) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Detailed Analysis for %s:\n", r.EntryCitation)
	fmt.Fprintf(w, "Total Score: %.2f - Category: %s\n", r.TotalScore(), r.Category())
	for i, c := range r.Criteria() {
		fmt.Fprintf(w, "%s (%.2f): %s\n", criterionNames[i], c.Score, c.Explanation)
	}
	fmt.Fprintln(w, strings.Repeat("-", 80))
}

func writeSummary(w io.Writer, results []types.CRAAPResult, rates types.Rates) {
	var inputTokens, outputTokens, hits int
	var cost float64
	for _, r := range results {
		inputTokens += r.InputTokens
		outputTokens += r.OutputTokens
		cost += r.EstimatedCost(rates)
		if r.Cached {
			hits++
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage Summary:")
	fmt.Fprintf(w, "Entries analyzed: %d (%d from cache)\n", len(results), hits)
	fmt.Fprintf(w, "Input tokens: %d\n", inputTokens)
	fmt.Fprintf(w, "Output tokens: %d\n", outputTokens)
	fmt.Fprintf(w, "Estimated cost: $%.4f\n", cost)
}
