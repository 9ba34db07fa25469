// Package main provides the sitefeed CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sitefeed/sitefeed/config"
	"github.com/sitefeed/sitefeed/logger"
)

var version = "1.1.0"

func main() {
	// A missing .env is fine; real config lives in the yaml file.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for the sitefeed CLI.
func newRootCmd(cfg *config.FileConfig) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "sitefeed",
		Short:   "Generate an RSS feed from any HTML page",
		Long:    "Sitefeed scrapes a web page with CSS selectors and emits a well-formed RSS 2.0 feed for sites that do not publish one.",
		Version: version,
	}

	rootCmd.SetVersionTemplate("sitefeed version {{.Version}}\n")

	rootCmd.AddCommand(newFetchCmd(cfg))
	rootCmd.AddCommand(newToURLCmd())
	rootCmd.AddCommand(newSourcesCmd(cfg))

	return rootCmd
}
