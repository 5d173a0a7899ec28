// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the craaper CLI, which scores
// bibliography entries against the CRAAP test (Currency, Relevance,
// Authority, Accuracy, Purpose) using an LLM and a content-addressed
// result cache.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/craaper/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the craaper CLI.
var rootCmd = &cobra.Command{
	Use:   "craaper",
	Short: "CRAAP-test scoring for BibTeX bibliographies",
	Long: `craaper evaluates the entries of a BibTeX file against the CRAAP test
(Currency, Relevance, Authority, Accuracy, Purpose). Each entry is scored
by an LLM; results are cached by content hash so re-running over an
unchanged bibliography costs nothing.

The analyze subcommand scores a bibliography; cache and history inspect
the local result cache and past runs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./craaper.yaml or ~/.config/craaper/config.yaml)")
	rootCmd.PersistentFlags().String("cache-dir", "", "cache directory (default: user cache dir, e.g. ~/.cache/craaper)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("craaper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "craaper"))
		}
	}

	viper.SetEnvPrefix("CRAAPER")
	viper.AutomaticEnv()

	viper.SetDefault("ai.model", "gpt-4-turbo-preview")
	viper.SetDefault("ai.max_output_tokens", 1000)
	viper.SetDefault("ai.rates.input_per_1k", 0.03)
	viper.SetDefault("ai.rates.output_per_1k", 0.06)
	viper.SetDefault("http.timeout", "10s")
	viper.SetDefault("http.user_agent", "craaper/"+version)
	viper.SetDefault("fetch_enabled", true)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// cacheDir resolves the cache directory flag, falling back to the config
// file and then to the user cache directory (empty string selects it).
func cacheDir() string {
	if dir, _ := rootCmd.PersistentFlags().GetString("cache-dir"); dir != "" {
		return dir
	}
	return viper.GetString("cache.dir")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
