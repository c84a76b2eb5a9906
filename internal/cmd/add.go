// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var f recordFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		Long: `Append a book to the catalog and save it.

Adding a title that already exists creates a second entry.

Examples:
  arc-shelf add --title Dune --author "Frank Herbert" --genre Fiction --year 1965
  arc-shelf add --title "Poems" --year "c. 1600"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Catalog.Add(f.record()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Book added successfully!")
			return nil
		},
	}

	f.register(cmd, "Book")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
