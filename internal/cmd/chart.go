// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"io"
	"os"

	"github.com/mtreilly/arc-shelf/internal/chart"
	"github.com/spf13/cobra"
)

func newChartCmd(app *App) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Chart the number of books per genre",
		Long: `Draw a bar chart of how many books the catalog holds per genre,
largest genre first. The chart fits the terminal unless --width is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			return renderChart(w, width, app.Catalog.GenreCounts())
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 0, "Chart width in columns (default: terminal width)")
	return cmd
}

func renderChart(w io.Writer, width int, counts map[string]int) error {
	if width <= 0 {
		if f, ok := w.(*os.File); ok {
			width = chart.TerminalWidth(f)
		}
	}
	var r chart.Renderer = chart.NewBarChart(width)
	return r.Render(w, counts)
}
