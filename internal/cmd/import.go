// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mtreilly/arc-shelf/internal/library"
	"github.com/mtreilly/arc-shelf/internal/output"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var out output.OutputOptions

	cmd := &cobra.Command{
		Use:   "import <query>",
		Short: "Import books from Google Books",
		Long: `Search Google Books and add every volume found to the catalog.

Missing metadata is filled in: title and author become "Unknown", genre
becomes "General" and the year is taken from the publication date.

Examples:
  arc-shelf import "frank herbert"
  arc-shelf import isbn:9780441013593
  arc-shelf import tolkien -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.ResolveDefault(cmd, app.Config.Output); err != nil {
				return err
			}

			query := strings.Join(args, " ")
			res, err := app.Catalog.Import(cmd.Context(), app.Source, query)
			if err != nil {
				if errors.Is(err, library.ErrImportFailed) {
					return fmt.Errorf("failed to fetch books from API: %w", err)
				}
				if len(res.Added) > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "Imported %d of %d book(s) before the error.\n", len(res.Added), res.Fetched)
				}
				return err
			}

			w := cmd.OutOrStdout()
			if !out.Is(output.OutputTable) {
				return output.Write(w, out.Format(), res)
			}
			if res.Fetched == 0 {
				fmt.Fprintf(w, "No books found for %q.\n", query)
				return nil
			}
			fmt.Fprintf(w, "Imported %d book(s) for %q:\n\n", len(res.Added), query)
			return writeRecords(w, &out, res.Added)
		},
	}

	out.AddOutputFlags(cmd, output.OutputTable)
	return cmd
}
