// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newUpdateCmd(app *App) *cobra.Command {
	var f recordFlags

	cmd := &cobra.Command{
		Use:   "update <title>",
		Short: "Change fields of a book",
		Long: `Update the first book whose title equals <title>, ignoring case.
Only the fields given as flags change.

When several books share a title only the first one is updated; see
"arc-shelf duplicates".

Examples:
  arc-shelf update Dune --genre Sci-Fi
  arc-shelf update "dune" --title "Dune Messiah" --year 1969`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := f.patch(cmd)
			if patch.IsEmpty() {
				return errors.New("nothing to update: set at least one of --title, --author, --genre, --year")
			}
			if err := app.Catalog.Update(args[0], patch); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Book updated successfully!")
			return nil
		},
	}

	f.register(cmd, "New")
	return cmd
}
