// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mtreilly/arc-shelf/internal/library"
	"github.com/mtreilly/arc-shelf/internal/output"
	"github.com/spf13/cobra"
)

func newShellCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Run the interactive menu",
		Long: `Start the numbered menu for managing the catalog interactively.

The catalog is saved after every change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh := &shell{
				app: app,
				in:  bufio.NewReader(cmd.InOrStdin()),
				out: cmd.OutOrStdout(),
			}
			return sh.run(cmd.Context())
		},
	}
	return cmd
}

const menu = `
Personal Library Management System
1. Add Book
2. Search Books
3. Update Book
4. Remove Book
5. Display Books
6. Visualize Books by Genre
7. Import Books from API
8. Exit`

type shell struct {
	app *App
	in  *bufio.Reader
	out io.Writer
}

// run loops until "8" or end of input, then flushes the catalog.
func (s *shell) run(ctx context.Context) error {
	for {
		fmt.Fprintln(s.out, menu)
		choice, ok := s.prompt("Enter your choice: ")
		if !ok {
			fmt.Fprintln(s.out)
			break
		}

		var err error
		switch strings.TrimSpace(choice) {
		case "1":
			err = s.add()
		case "2":
			s.search()
		case "3":
			err = s.update()
		case "4":
			err = s.remove()
		case "5":
			err = s.display()
		case "6":
			err = renderChart(s.out, 0, s.app.Catalog.GenreCounts())
		case "7":
			s.importBooks(ctx)
		case "8":
			fmt.Fprintln(s.out, "Exiting...")
			return s.app.Catalog.Flush()
		default:
			fmt.Fprintln(s.out, "Invalid choice. Please try again.")
		}
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
	return s.app.Catalog.Flush()
}

// prompt prints label and reads one line without its line ending.
// ok is false once input is exhausted.
func (s *shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	line, err := s.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

func (s *shell) ask(label string) string {
	v, _ := s.prompt(label)
	return v
}

func (s *shell) add() error {
	r := library.Record{
		Title:  s.ask("Enter title: "),
		Author: s.ask("Enter author: "),
		Genre:  s.ask("Enter genre: "),
		Year:   s.ask("Enter year: "),
	}
	if err := s.app.Catalog.Add(r); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Book added successfully!")
	return nil
}

func (s *shell) search() {
	results := s.app.Catalog.Search(s.ask("Enter search keyword: "))
	fmt.Fprintln(s.out, "\nSearch Results:")
	for _, r := range results {
		fmt.Fprintln(s.out, r)
	}
}

// update treats a blank answer as "keep the current value".
func (s *shell) update() error {
	title := s.ask("Enter book title to update: ")
	keep := func(label string) *string {
		v := s.ask(label)
		if v == "" {
			return nil
		}
		return &v
	}
	patch := library.Patch{
		Title:  keep("Enter new title (leave blank to keep unchanged): "),
		Author: keep("Enter new author (leave blank to keep unchanged): "),
		Genre:  keep("Enter new genre (leave blank to keep unchanged): "),
		Year:   keep("Enter new year (leave blank to keep unchanged): "),
	}

	err := s.app.Catalog.Update(title, patch)
	if errors.Is(err, library.ErrNotFound) {
		fmt.Fprintln(s.out, "Book not found.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Book updated successfully!")
	return nil
}

func (s *shell) remove() error {
	_, err := s.app.Catalog.Remove(s.ask("Enter book title to remove: "))
	if errors.Is(err, library.ErrNotFound) {
		fmt.Fprintln(s.out, "Book not found.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Book removed successfully!")
	return nil
}

func (s *shell) display() error {
	genre := strings.TrimSpace(s.ask("Enter genre to filter by (leave blank for all books): "))
	books := s.app.Catalog.List(genre)
	if len(books) == 0 {
		fmt.Fprintln(s.out, "No books found.")
		return nil
	}
	out := output.OutputOptions{}
	if err := out.Resolve(); err != nil {
		return err
	}
	return writeRecords(s.out, &out, books)
}

func (s *shell) importBooks(ctx context.Context) {
	query := s.ask("Enter search term for API import: ")
	res, err := s.app.Catalog.Import(ctx, s.app.Source, query)
	switch {
	case errors.Is(err, library.ErrImportFailed):
		fmt.Fprintln(s.out, "Failed to fetch books from API.")
	case err != nil:
		fmt.Fprintf(s.out, "Error: %v (imported %d of %d)\n", err, len(res.Added), res.Fetched)
	default:
		fmt.Fprintf(s.out, "Imported %d book(s).\n", len(res.Added))
		fmt.Fprintln(s.out, "Books imported successfully!")
	}
}
