// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/craaper/internal/analyze"
	"github.com/pdiddy/craaper/internal/bib"
	"github.com/pdiddy/craaper/internal/cache"
	"github.com/pdiddy/craaper/internal/fetch"
	"github.com/pdiddy/craaper/internal/history"
	"github.com/pdiddy/craaper/internal/report"
	"github.com/pdiddy/craaper/internal/secrets"
	"github.com/pdiddy/craaper/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.bib>",
	Short: "Score a BibTeX bibliography against the CRAAP test",
	Long: `Analyze parses a BibTeX file and scores every entry on the five CRAAP
criteria using an LLM. Previously scored entries are served from the local
cache at no cost. An LLM or response-parse failure aborts the run; the
results already cached survive for the next invocation.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("model", "", "model identifier (default from config)")
	analyzeCmd.Flags().String("format", "text", "output format: text, csv, or yaml")
	analyzeCmd.Flags().String("output-dir", ".", "directory for CSV output files")
	analyzeCmd.Flags().Bool("no-fetch", false, "skip fetching page content from entry URLs")
	analyzeCmd.Flags().Int("max-output-tokens", 0, "cap on response tokens (default from config)")

	rootCmd.AddCommand(analyzeCmd)
}

// analyzeConfig assembles the run configuration from flags, config file,
// and loaded secrets. A missing API credential is a fatal error here,
// before any entry is processed.
func analyzeConfig(cmd *cobra.Command) (types.AnalyzeConfig, error) {
	apiKey, err := secrets.OpenAIKey(loadedSecrets)
	if err != nil {
		return types.AnalyzeConfig{}, err
	}

	cfg := types.AnalyzeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("http.timeout"),
			UserAgent: viper.GetString("http.user_agent"),
		},
		AI: types.AIConfig{
			Model:           viper.GetString("ai.model"),
			APIKey:          apiKey,
			MaxOutputTokens: viper.GetInt("ai.max_output_tokens"),
			Rates: types.Rates{
				InputPer1K:  viper.GetFloat64("ai.rates.input_per_1k"),
				OutputPer1K: viper.GetFloat64("ai.rates.output_per_1k"),
			},
		},
		Cache:        types.CacheConfig{Dir: cacheDir()},
		FetchEnabled: viper.GetBool("fetch_enabled"),
	}

	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.AI.Model = model
	}
	if maxTokens, _ := cmd.Flags().GetInt("max-output-tokens"); maxTokens > 0 {
		cfg.AI.MaxOutputTokens = maxTokens
	}
	if noFetch, _ := cmd.Flags().GetBool("no-fetch"); noFetch {
		cfg.FetchEnabled = false
	}

	return cfg, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	bibFile := args[0]
	format, _ := cmd.Flags().GetString("format")
	outputDir, _ := cmd.Flags().GetString("output-dir")

	cfg, err := analyzeConfig(cmd)
	if err != nil {
		return err
	}

	entries, err := bib.ParseFile(bibFile, os.Stderr)
	if err != nil {
		return err
	}

	store, err := cache.Open(cfg.Cache.Dir, os.Stderr)
	if err != nil {
		return err
	}

	fetcher := fetch.New(cfg.HTTPConfig)
	backend := analyze.NewOpenAIBackend(cfg.AI, &http.Client{Timeout: 2 * time.Minute})
	analyzer := analyze.New(store, fetcher, backend, cfg, os.Stderr)

	startedAt := time.Now()
	ctx := context.Background()

	results := make([]types.CRAAPResult, 0, len(entries))
	for _, entry := range entries {
		fmt.Fprintf(os.Stderr, "Processing entry: %s\n", entry.Key)
		result, err := analyzer.Analyze(ctx, entry)
		if err != nil {
			return err
		}
		results = append(results, result)
	}

	if err := recordRun(cfg, startedAt, bibFile, results); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record run history: %v\n", err)
	}

	switch format {
	case "text":
		report.WriteText(os.Stdout, results, cfg.AI.Rates)
	case "csv":
		scoresPath, costsPath, err := report.WriteCSV(outputDir, results, cfg.AI.Rates)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s and %s\n", scoresPath, costsPath)
	case "yaml":
		if err := report.WriteYAML(os.Stdout, results, cfg.AI.Rates); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (valid: text, csv, yaml)", format)
	}

	return nil
}

// recordRun appends the run summary to the history ledger. History is a
// convenience; failures here must not fail the analysis.
func recordRun(cfg types.AnalyzeConfig, startedAt time.Time, bibFile string, results []types.CRAAPResult) error {
	dir := cfg.Cache.Dir
	if dir == "" {
		d, err := cache.DefaultDir()
		if err != nil {
			return err
		}
		dir = d
	}

	store, err := history.Open(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	run := history.Run{
		StartedAt: startedAt,
		BibFile:   bibFile,
		Entries:   len(results),
	}
	entries := make([]history.Entry, 0, len(results))
	for _, r := range results {
		run.InputTokens += r.InputTokens
		run.OutputTokens += r.OutputTokens
		run.Cost += r.EstimatedCost(cfg.AI.Rates)
		if r.Cached {
			run.CacheHits++
		}
		entries = append(entries, history.Entry{
			EntryKey: r.EntryKey,
			Citation: r.EntryCitation,
			Total:    r.TotalScore(),
			Category: r.Category(),
			Cached:   r.Cached,
		})
	}

	_, err = store.Record(run, entries)
	return err
}
