// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/mtreilly/arc-shelf/internal/library"
	"github.com/mtreilly/arc-shelf/internal/output"
	md "github.com/nao1215/markdown"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		format string // "csv", "json", "yaml", "markdown"
		file   string // file path or "-" for stdout
		genre  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog to other formats",
		Long: `Export the catalog as CSV, JSON, YAML or a Markdown table.

Examples:
  arc-shelf export --format markdown > books.md
  arc-shelf export --format json --genre fiction --file fiction.json
  arc-shelf export --format csv --file backup.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			books := app.Catalog.List(genre)

			var buf bytes.Buffer
			var err error
			switch format {
			case "csv":
				err = library.WriteRecords(&buf, books)
			case "json":
				err = output.JSON(&buf, books)
			case "yaml":
				err = output.YAML(&buf, books)
			case "markdown", "md":
				err = exportMarkdown(&buf, books)
			default:
				return fmt.Errorf("unsupported format: %s (choose csv, json, yaml, markdown)", format)
			}
			if err != nil {
				return fmt.Errorf("export %s: %w", format, err)
			}

			if file == "-" || file == "" {
				_, err = buf.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := os.WriteFile(file, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", file, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d book(s) to %s\n", len(books), file)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Export format: csv, json, yaml, markdown")
	cmd.Flags().StringVar(&file, "file", "-", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&genre, "genre", "g", "", "Only export books of this genre")
	return cmd
}

// exportMarkdown writes books as a Markdown document with one table.
func exportMarkdown(w io.Writer, books []library.Record) error {
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, b.Fields())
	}

	doc := md.NewMarkdown(w).H1("Library").LF()
	if len(rows) == 0 {
		doc.PlainText("No books.")
	} else {
		doc.Table(md.TableSet{
			Header: library.Columns,
			Rows:   rows,
		})
	}
	return doc.Build()
}
