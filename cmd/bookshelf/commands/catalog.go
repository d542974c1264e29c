// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tomtom215/bookshelf/internal/catalog"
	"github.com/tomtom215/bookshelf/internal/config"
	"github.com/tomtom215/bookshelf/internal/logging"
)

func newCatalogCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the book catalog",
	}
	cmd.AddCommand(newCatalogValidateCmd(opts), newCatalogListCmd(opts))
	return cmd
}

func newCatalogValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the catalog and report problems",
		Long: `Load the catalog exactly as the server would, without embedding it.
Exits non-zero if the server would refuse to start.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if opts.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"source": cat.Source(),
					"books":  cat.Len(),
					"valid":  true,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d books OK\n", cat.Source(), cat.Len())
			return nil
		},
	}
}

func newCatalogListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the books in catalog order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.format == formatJSON {
				return writeJSON(out, cat.Books())
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tDESCRIPTION")
			for _, b := range cat.Books() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, truncate(b.Description, 60))
			}
			return w.Flush()
		},
	}
}

func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	src, err := cfg.OpenCatalog()
	if err != nil {
		return nil, err
	}
	return catalog.LoadFrom(ctx, src, catalog.Options{
		SkipInvalid: cfg.Catalog.SkipInvalid,
		Logger:      logging.WithComponent("catalog"),
	})
}
