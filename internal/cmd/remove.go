// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <title>",
		Aliases: []string{"rm"},
		Short:   "Remove every book with a title",
		Long: `Remove all books whose title equals <title>, ignoring case.

Examples:
  arc-shelf remove Sapiens`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Catalog.Remove(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d book(s).\n", n)
			return nil
		},
	}
	return cmd
}
