// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mtreilly/arc-shelf/internal/config"
	"github.com/mtreilly/arc-shelf/internal/output"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	var out output.OutputOptions

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Long:  `Display totals for the catalog: books, genres, authors and titles shared by several books.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.ResolveDefault(cmd, app.Config.Output); err != nil {
				return err
			}

			stats := app.Catalog.Stats()
			w := cmd.OutOrStdout()
			if !out.Is(output.OutputTable) {
				return output.Write(w, out.Format(), stats)
			}

			fmt.Fprintf(w, "Library Statistics\n")
			fmt.Fprintf(w, "==================\n\n")
			fmt.Fprintf(w, "Books:            %s\n", humanize.Comma(int64(stats.Books)))
			fmt.Fprintf(w, "Genres:           %s\n", humanize.Comma(int64(stats.Genres)))
			fmt.Fprintf(w, "Authors:          %s\n", humanize.Comma(int64(stats.Authors)))
			fmt.Fprintf(w, "Duplicate titles: %s\n", humanize.Comma(int64(stats.DuplicateTitles)))
			if n := app.Catalog.Skipped(); n > 0 {
				fmt.Fprintf(w, "Skipped rows:     %s\n", humanize.Comma(int64(n)))
			}
			if app.Config.Storage == config.StorageCSV {
				if info, err := os.Stat(app.Config.DataFile); err == nil {
					fmt.Fprintf(w, "Data file:        %s (%s)\n", app.Config.DataFile, humanize.Bytes(uint64(info.Size())))
				}
			}

			if len(stats.ByGenre) == 0 {
				return nil
			}
			fmt.Fprintln(w, "\nBy genre:")
			table := output.NewTable(w, "Genre", "Books", "Share")
			for _, g := range stats.ByGenre {
				share := float64(g.Count) / float64(stats.Books) * 100
				table.AddRow(g.Genre, humanize.Comma(int64(g.Count)), fmt.Sprintf("%.0f%%", share))
			}
			return table.Render()
		},
	}

	out.AddOutputFlags(cmd, output.OutputTable)
	return cmd
}
