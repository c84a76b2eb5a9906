// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/mtreilly/arc-shelf/internal/output"
	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	var out output.OutputOptions
	var genre string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List books in the catalog",
		Long: `List all books in the order they were added.

Examples:
  arc-shelf list                  # List all books
  arc-shelf list --genre fiction  # Filter by genre (ignores case)
  arc-shelf list -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.ResolveDefault(cmd, app.Config.Output); err != nil {
				return err
			}

			books := app.Catalog.List(genre)
			w := cmd.OutOrStdout()

			if !out.Is(output.OutputTable) {
				return writeRecords(w, &out, books)
			}
			if len(books) == 0 {
				fmt.Fprintln(w, "No books found.")
				if genre == "" {
					fmt.Fprintln(w, "Use 'arc-shelf add' or 'arc-shelf import' to add books.")
				}
				return nil
			}
			if err := writeRecords(w, &out, books); err != nil {
				return err
			}
			fmt.Fprintf(w, "\nTotal: %d book(s)\n", len(books))
			return nil
		},
	}

	out.AddOutputFlags(cmd, output.OutputTable)
	cmd.Flags().StringVarP(&genre, "genre", "g", "", "Only list books of this genre")
	return cmd
}
