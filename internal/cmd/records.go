// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"io"

	"github.com/mtreilly/arc-shelf/internal/library"
	"github.com/mtreilly/arc-shelf/internal/output"
	"github.com/spf13/cobra"
)

// writeRecords renders records in the resolved output format.
func writeRecords(w io.Writer, out *output.OutputOptions, records []library.Record) error {
	if !out.Is(output.OutputTable) {
		if records == nil {
			records = []library.Record{}
		}
		return output.Write(w, out.Format(), records)
	}

	table := output.NewTable(w, library.Columns...)
	for _, r := range records {
		table.AddRow(output.Truncate(r.Title, 40), output.Truncate(r.Author, 30), r.Genre, r.Year)
	}
	return table.Render()
}

// recordFlags binds --title, --author, --genre and --year.
type recordFlags struct {
	title, author, genre, year string
}

func (f *recordFlags) register(cmd *cobra.Command, verb string) {
	cmd.Flags().StringVar(&f.title, "title", "", verb+" title")
	cmd.Flags().StringVar(&f.author, "author", "", verb+" author")
	cmd.Flags().StringVar(&f.genre, "genre", "", verb+" genre")
	cmd.Flags().StringVar(&f.year, "year", "", verb+" publication year")
}

func (f *recordFlags) record() library.Record {
	return library.Record{Title: f.title, Author: f.author, Genre: f.genre, Year: f.year}
}

// patch includes only the flags that were set on the command line, so
// "--genre ''" clears a genre while an absent flag leaves it alone.
func (f *recordFlags) patch(cmd *cobra.Command) library.Patch {
	var p library.Patch
	set := func(name string, v *string) *string {
		if cmd.Flags().Changed(name) {
			return v
		}
		return nil
	}
	p.Title = set("title", &f.title)
	p.Author = set("author", &f.author)
	p.Genre = set("genre", &f.genre)
	p.Year = set("year", &f.year)
	return p
}
