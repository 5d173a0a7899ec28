// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/craaper/pkg/types"
)

const (
	scoresFileName = "craap_scores.csv"
	costsFileName  = "craap_costs.csv"
)

// WriteCSV writes two CSV files into dir: one with per-entry scores,
// confidences, explanations, and category, and one with per-entry token
// counts, estimated cost, and cache-hit flag. It returns the paths of the
// written files.
func WriteCSV(dir string, results []types.CRAAPResult, rates types.Rates) (scoresPath, costsPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating output directory: %w", err)
	}

	scoresPath = filepath.Join(dir, scoresFileName)
	if err := writeCSVFile(scoresPath, scoresHeader(), scoreRows(results)); err != nil {
		return "", "", err
	}

	costsPath = filepath.Join(dir, costsFileName)
	if err := writeCSVFile(costsPath, costsHeader(), costRows(results, rates)); err != nil {
		return "", "", err
	}

	return scoresPath, costsPath, nil
}

func scoresHeader() []string {
	header := []string{"key", "citation"}
	for _, name := range criterionNames {
		lower := strings.ToLower(name)
		header = append(header, lower+"_score", lower+"_confidence", lower+"_explanation")
	}
	return append(header, "total", "category")
}

func scoreRows(results []types.CRAAPResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		row := []string{r.EntryKey, r.EntryCitation}
		for _, c := range r.Criteria() {
			row = append(row,
				strconv.FormatFloat(c.Score, 'f', 2, 64),
				strconv.FormatFloat(c.Confidence, 'f', 2, 64),
				c.Explanation,
			)
		}
		row = append(row, strconv.FormatFloat(r.TotalScore(), 'f', 2, 64), r.Category())
		rows = append(rows, row)
	}
	return rows
}

func costsHeader() []string {
	return []string{"key", "input_tokens", "output_tokens", "estimated_cost", "cached"}
}

func costRows(results []types.CRAAPResult, rates types.Rates) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.EntryKey,
			strconv.Itoa(r.InputTokens),
			strconv.Itoa(r.OutputTokens),
			strconv.FormatFloat(r.EstimatedCost(rates), 'f', 4, 64),
			strconv.FormatBool(r.Cached),
		})
	}
	return rows
}

func writeCSVFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header to %s: %w", path, err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing rows to %s: %w", path, err)
	}
	cw.Flush()
	return cw.Error()
}
