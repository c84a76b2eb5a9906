// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"strings"

	"github.com/mtreilly/arc-shelf/internal/output"
	"github.com/spf13/cobra"
)

func newSearchCmd(app *App) *cobra.Command {
	var out output.OutputOptions

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search books by title, author or genre",
		Long: `Find books whose title, author or genre contains the keyword,
ignoring case.

Examples:
  arc-shelf search frank          # Matches "Frank Herbert"
  arc-shelf search fiction -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.ResolveDefault(cmd, app.Config.Output); err != nil {
				return err
			}

			keyword := strings.Join(args, " ")
			results := app.Catalog.Search(keyword)

			w := cmd.OutOrStdout()
			if len(results) == 0 && out.Is(output.OutputTable) {
				fmt.Fprintf(w, "No books found matching %q\n", keyword)
				return nil
			}
			if out.Is(output.OutputTable) {
				fmt.Fprintf(w, "Found %d result(s) for %q:\n\n", len(results), keyword)
			}
			return writeRecords(w, &out, results)
		},
	}

	out.AddOutputFlags(cmd, output.OutputTable)
	return cmd
}
