// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Column names of the persisted store, in the order they are written.
const (
	ColumnTitle  = "Title"
	ColumnAuthor = "Author"
	ColumnGenre  = "Genre"
	ColumnYear   = "Year"
)

// Columns is the header row of the persisted store.
var Columns = []string{ColumnTitle, ColumnAuthor, ColumnGenre, ColumnYear}

// Record is one book in the catalog.
// Year is free-form text so values like "Unknown" or "c. 1600" survive.
type Record struct {
	Title  string `json:"title" yaml:"title"`
	Author string `json:"author" yaml:"author"`
	Genre  string `json:"genre" yaml:"genre"`
	Year   string `json:"year" yaml:"year"`
}

// String renders a record the way search results are printed.
func (r Record) String() string {
	return fmt.Sprintf("%s by %s (%s, %s)", r.Title, r.Author, r.Genre, r.Year)
}

// Fields returns the record as a row in column order.
func (r Record) Fields() []string {
	return []string{r.Title, r.Author, r.Genre, r.Year}
}

// HasTitle reports whether the record's title equals title, ignoring case.
func (r Record) HasTitle(title string) bool {
	return fold(r.Title) == fold(title)
}

// HasGenre reports whether the record's genre equals genre, ignoring case.
func (r Record) HasGenre(genre string) bool {
	return fold(r.Genre) == fold(genre)
}

// Matches reports whether keyword occurs in the title, author or genre,
// ignoring case. The empty keyword matches every record.
func (r Record) Matches(keyword string) bool {
	k := fold(keyword)
	return strings.Contains(fold(r.Title), k) ||
		strings.Contains(fold(r.Author), k) ||
		strings.Contains(fold(r.Genre), k)
}

// fold applies full Unicode case folding, so "STRASSE" matches "Straße".
// Line breaks are normalized first so a CRLF title still finds its record.
func fold(s string) string {
	return cases.Fold().String(normalizeLineBreaks(s))
}

// Normalize returns r with every CRLF inside a field turned into LF. This
// is the form the CSV store reads back, so the catalog keeps records in it.
func (r Record) Normalize() Record {
	r.Title = normalizeLineBreaks(r.Title)
	r.Author = normalizeLineBreaks(r.Author)
	r.Genre = normalizeLineBreaks(r.Genre)
	r.Year = normalizeLineBreaks(r.Year)
	return r
}

// normalizeLineBreaks repeats until no CRLF is left: "\r\r\n" becomes "\n".
func normalizeLineBreaks(s string) string {
	for strings.Contains(s, "\r\n") {
		s = strings.ReplaceAll(s, "\r\n", "\n")
	}
	return s
}

// Patch holds the fields to change on update. Nil fields are left alone.
type Patch struct {
	Title  *string
	Author *string
	Genre  *string
	Year   *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Genre == nil && p.Year == nil
}

// Apply returns r with the patch's fields applied.
func (p Patch) Apply(r Record) Record {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Author != nil {
		r.Author = *p.Author
	}
	if p.Genre != nil {
		r.Genre = *p.Genre
	}
	if p.Year != nil {
		r.Year = *p.Year
	}
	return r
}

// GenreCount is one bar of the genre histogram.
type GenreCount struct {
	Genre string `json:"genre" yaml:"genre"`
	Count int    `json:"count" yaml:"count"`
}

// Stats summarizes the catalog.
type Stats struct {
	Books           int          `json:"books" yaml:"books"`
	Genres          int          `json:"genres" yaml:"genres"`
	Authors         int          `json:"authors" yaml:"authors"`
	DuplicateTitles int          `json:"duplicate_titles" yaml:"duplicate_titles"`
	ByGenre         []GenreCount `json:"by_genre" yaml:"by_genre"`
}

// ImportResult describes one bulk import from a metadata source.
type ImportResult struct {
	RunID   string   `json:"run_id" yaml:"run_id"`
	Query   string   `json:"query" yaml:"query"`
	Fetched int      `json:"fetched" yaml:"fetched"`
	Added   []Record `json:"added" yaml:"added"`
}
