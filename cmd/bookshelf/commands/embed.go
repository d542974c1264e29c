// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/bookshelf/internal/logging"
)

// embedPreview is how many components the text output shows.
const embedPreview = 8

func newEmbedCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "embed <text>",
		Short: "Print the embedding of a text",
		Long: `Embed one text with the configured model. Useful for checking that a
remote model is reachable and produces the expected dimensions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			provider, err := openProvider(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := provider.Close(); err != nil {
					logging.Warn().Err(err).Msg("Error closing embedding provider")
				}
			}()

			vec, err := provider.Embed(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.format == formatJSON {
				return writeJSON(out, map[string]interface{}{
					"model":      provider.Model(),
					"dimensions": len(vec),
					"embedding":  vec,
				})
			}

			parts := make([]string, 0, embedPreview)
			for _, v := range vec[:min(embedPreview, len(vec))] {
				parts = append(parts, fmt.Sprintf("%.4f", v))
			}
			suffix := ""
			if len(vec) > embedPreview {
				suffix = ", ..."
			}
			fmt.Fprintf(out, "model: %s\ndimensions: %d\nembedding: [%s%s]\n", provider.Model(), len(vec), strings.Join(parts, ", "), suffix)
			return nil
		},
	}
}
