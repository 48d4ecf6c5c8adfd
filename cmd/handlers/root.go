// Package handlers wires the CLI commands.
package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"newspipe/internal/config"
	"newspipe/internal/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "newspipe",
		Short: "Summarize, categorize, and regionalize batches of news JSON",
		Long: `newspipe - resilient news batch pipeline

Ingests loosely-structured, often malformed batches of news-like JSON
documents and produces, per document, a three-line summary, a primary
category with subcategories, and a detected region. A remote language
model is used when configured; without one, deterministic rule-based
heuristics produce the same output shape.

Examples:
  # Process a batch file
  newspipe process input.json output.json

  # Serve the pipeline over HTTP
  newspipe serve --port 8000`,
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .newspipe.yaml)")

	rootCmd.AddCommand(NewProcessCmd())
	rootCmd.AddCommand(NewServeCmd())

	cobra.OnInitialize(initConfig)

	return rootCmd
}

// initConfig reads in config file and ENV variables
func initConfig() {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		loaded = &config.Config{}
	}
	cfg = loaded
	if cfg.App.Debug {
		logger.SetLevel("debug")
	} else {
		logger.SetLevel(cfg.App.LogLevel)
	}
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
