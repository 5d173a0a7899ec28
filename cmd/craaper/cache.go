// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/craaper/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the analysis cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache location, entry count, and size",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.Open(cacheDir(), os.Stderr)
		if err != nil {
			return err
		}
		stats, err := store.GetStats()
		if err != nil {
			return err
		}
		fmt.Printf("Cache file: %s\n", stats.Path)
		fmt.Printf("Entries: %d\n", stats.Entries)
		fmt.Printf("Size: %d bytes\n", stats.Bytes)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached analysis results",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.Open(cacheDir(), os.Stderr)
		if err != nil {
			return err
		}
		removed := store.Len()
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Printf("Cleared %d cached result(s).\n", removed)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
