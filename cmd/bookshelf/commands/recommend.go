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

	"github.com/tomtom215/bookshelf/internal/config"
	"github.com/tomtom215/bookshelf/internal/embedding"
	"github.com/tomtom215/bookshelf/internal/logging"
	"github.com/tomtom215/bookshelf/internal/recommend"
)

func newRecommendCmd(opts *globalOptions) *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "recommend <text>",
		Short: "Recommend books for a description",
		Long: `Build the recommender from the configured catalog and print the books
closest to the given text, best match first.

Examples:
  bookshelf recommend "hunting whales" -k 1
  bookshelf recommend --format json "a detective in foggy London"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("k") {
				k = cfg.Recommend.DefaultK
			}
			if k < 0 {
				return fmt.Errorf("-k must not be negative, got %d", k)
			}

			rec, closeFn, err := buildRecommender(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			recs, err := rec.Recommend(cmd.Context(), args[0], k)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.format == formatJSON {
				return writeJSON(out, recs)
			}
			if len(recs) == 0 {
				fmt.Fprintln(out, "No books found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tSCORE\tTITLE\tAUTHOR")
			for i, r := range recs {
				fmt.Fprintf(w, "%d\t%.4f\t%s\t%s\n", i+1, r.Score, r.Book.Title, r.Book.Author)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&k, "k", "k", 0, "Number of books to return (default from config)")
	return cmd
}

// buildRecommender opens the catalog and model named by cfg.
func buildRecommender(ctx context.Context, cfg *config.Config) (*recommend.Recommender, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	src, err := cfg.OpenCatalog()
	if err != nil {
		return nil, nil, err
	}
	provider, err := openProvider(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := provider.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing embedding provider")
		}
	}

	rec, err := recommend.New(ctx, src, provider, cfg.RecommenderConfig(), logging.WithComponent("recommend"))
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return rec, closeFn, nil
}

func openProvider(ctx context.Context, cfg *config.Config) (embedding.Provider, error) {
	return embedding.New(ctx, cfg.EmbeddingProviderConfig(), logging.WithComponent("embedding"))
}
