// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

// Package commands implements the bookshelf CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/bookshelf/internal/config"
	"github.com/tomtom215/bookshelf/internal/logging"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	model      string
	dataPath   string
	format     string
	logLevel   string
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "bookshelf",
		Short: "Semantic book recommendations from the terminal",
		Long: `bookshelf loads a book catalog, embeds it with the configured model
and answers free-text queries with the most similar books.

Configuration is read the same way as the server: config.yaml, .env and
environment variables (MODEL_NAME, BOOKS_DATA_PATH, ...). Flags win.

Examples:
  bookshelf recommend "hunting whales" -k 1
  bookshelf --model local catalog validate
  bookshelf embed --format json "a gothic horror story"`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if opts.format != formatText && opts.format != formatJSON {
				return fmt.Errorf("--format must be %q or %q, got %q", formatText, formatJSON, opts.format)
			}
			if !logging.ValidLevel(opts.logLevel) {
				return fmt.Errorf("invalid --log-level %q", opts.logLevel)
			}
			logging.Init(logging.Config{Level: opts.logLevel, Format: "console", Timestamp: true, Output: os.Stderr})
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (overrides CONFIG_PATH)")
	flags.StringVarP(&opts.model, "model", "m", "", "Embedding model (overrides MODEL_NAME)")
	flags.StringVarP(&opts.dataPath, "data", "d", "", "Catalog path (overrides BOOKS_DATA_PATH)")
	flags.StringVar(&opts.format, "format", formatText, "Output format: text or json")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: trace, debug, info, warn, error")

	cmd.AddCommand(
		newRecommendCmd(opts),
		newCatalogCmd(opts),
		newEmbedCmd(opts),
	)
	return cmd
}

// loadConfig reads the layered configuration and applies flag overrides.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		if _, err := os.Stat(o.configPath); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := os.Setenv(config.ConfigPathEnvVar, o.configPath); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.model != "" {
		cfg.Embedding.Model = o.model
	}
	if o.dataPath != "" {
		cfg.Catalog.Path = o.dataPath
		// The format was chosen for the configured path.
		cfg.Catalog.Format = ""
	}
	return cfg, nil
}
