// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/pdiddy/craaper/internal/cache"
	"github.com/pdiddy/craaper/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past analysis runs with token and cost totals",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show")
	historyCmd.Flags().Int64("run", 0, "show the entries of one run by id")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	dir := cacheDir()
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

	if runID, _ := cmd.Flags().GetInt64("run"); runID > 0 {
		return showRun(store, runID)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Started", "File", "Entries", "Hits", "Tokens In", "Tokens Out", "Cost"})
	for _, r := range runs {
		table.Append([]string{
			fmt.Sprintf("%d", r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.BibFile,
			fmt.Sprintf("%d", r.Entries),
			fmt.Sprintf("%d", r.CacheHits),
			fmt.Sprintf("%d", r.InputTokens),
			fmt.Sprintf("%d", r.OutputTokens),
			fmt.Sprintf("$%.4f", r.Cost),
		})
	}
	table.Render()
	return nil
}

func showRun(store *history.Store, runID int64) error {
	entries, err := store.Entries(runID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no entries for run %d", runID)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Citation", "Total", "Category", "Cached"})
	for _, e := range entries {
		table.Append([]string{
			e.EntryKey,
			e.Citation,
			fmt.Sprintf("%.2f", e.Total),
			e.Category,
			fmt.Sprintf("%t", e.Cached),
		})
	}
	table.Render()
	return nil
}
