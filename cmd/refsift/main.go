// Package main provides the refsift CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"refsift/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configFlag overrides the config file location
var configFlag string

func main() {
	// Optional .env for REFSIFT_CONFIG and friends; absence is fine.
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refsift",
	Short: "Consolidate literature-search exports into one deduplicated dataset",
	Long: `refsift turns the raw exports of a multi-database literature search
into one clean dataset.

'parse' recovers structured records (title, year, doi, url) from the
loosely formatted text or PDF exports some publishers produce. 'merge'
unions three per-source CSVs, deduplicating across sources by normalized
DOI (falling back to normalized title) and recording which query sets
each work appeared in. 'store' keeps a disposable SQLite index over the
merged CSV for ad-hoc SQL and full-text search.

All commands output JSON by default for easy scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default $REFSIFT_CONFIG, then XDG config dir)")
	rootCmd.Version = Version
}

// loadConfig resolves and loads the configuration for a command run.
func loadConfig() (*config.Config, error) {
	path := configFlag
	if path == "" {
		path = config.Path()
	}
	return config.Load(path)
}
