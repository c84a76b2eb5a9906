// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Catalog is the in-memory record sequence kept in sync with a Store.
//
// Every mutation builds the next sequence, saves it in full, and only then
// replaces the in-memory copy. A failed save leaves memory and store
// exactly as they were before the call.
//
// A Catalog is not safe for concurrent use.
type Catalog struct {
	store   Store
	records []Record
	skipped int
	dirty   bool // a mutation was saved since Open
	log     zerolog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used for load, save and import diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Catalog) {
		c.log = log
	}
}

// Open creates a catalog over store and loads its records.
func Open(store Store, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		store: store,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	records, err := store.Load()
	if err != nil {
		return nil, asPersistenceError("load", err)
	}
	c.records = records

	if r, ok := store.(interface{ Skipped() []error }); ok {
		c.skipped = len(r.Skipped())
	}
	c.log.Debug().Int("records", len(records)).Int("skipped", c.skipped).Msg("catalog loaded")
	return c, nil
}

// commit saves next and, on success, makes it the current sequence.
func (c *Catalog) commit(next []Record) error {
	if err := c.store.Save(next); err != nil {
		err = asPersistenceError("save", err)
		c.log.Error().Err(err).Int("records", len(c.records)).Msg("save failed, change rolled back")
		return err
	}
	if !c.dirty && c.skipped > 0 {
		c.log.Warn().Int("skipped", c.skipped).Msg("malformed rows dropped from the store")
	}
	c.records = next
	c.dirty = true
	return nil
}

// Add appends r and saves. Duplicate titles are allowed. Fields are
// stored with LF line breaks; see Record.Normalize.
func (c *Catalog) Add(r Record) error {
	next := append(slices.Clone(c.records), r.Normalize())
	return c.commit(next)
}

// Search returns, in catalog order, every record whose title, author or
// genre contains keyword, ignoring case.
func (c *Catalog) Search(keyword string) []Record {
	return c.filter(func(r Record) bool { return r.Matches(keyword) })
}

// Update applies patch to the first record titled title (ignoring case)
// and saves. Later records with the same title are left alone.
func (c *Catalog) Update(title string, patch Patch) error {
	i := slices.IndexFunc(c.records, func(r Record) bool { return r.HasTitle(title) })
	if i < 0 {
		return &NotFoundError{Title: title}
	}
	next := slices.Clone(c.records)
	next[i] = patch.Apply(next[i]).Normalize()
	return c.commit(next)
}

// Remove deletes every record titled title (ignoring case) and saves.
// It returns how many records were removed; when none match nothing is
// saved and the error is a *NotFoundError.
func (c *Catalog) Remove(title string) (int, error) {
	next := slices.DeleteFunc(slices.Clone(c.records), func(r Record) bool { return r.HasTitle(title) })
	removed := len(c.records) - len(next)
	if removed == 0 {
		return 0, &NotFoundError{Title: title}
	}
	if err := c.commit(next); err != nil {
		return 0, err
	}
	return removed, nil
}

// List returns the records whose genre equals genre (ignoring case), or all
// records when genre is empty.
func (c *Catalog) List(genre string) []Record {
	if genre == "" {
		return c.Records()
	}
	return c.filter(func(r Record) bool { return r.HasGenre(genre) })
}

func (c *Catalog) filter(keep func(Record) bool) []Record {
	out := make([]Record, 0)
	for _, r := range c.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Records returns a copy of the full sequence.
func (c *Catalog) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Skipped returns how many malformed rows were dropped on load.
func (c *Catalog) Skipped() int {
	return c.skipped
}

// GenreCounts counts records per genre.
func (c *Catalog) GenreCounts() map[string]int {
	counts := make(map[string]int)
	for _, r := range c.records {
		counts[r.Genre]++
	}
	return counts
}

// Histogram returns GenreCounts ordered by count, then genre.
func (c *Catalog) Histogram() []GenreCount {
	return SortCounts(c.GenreCounts())
}

// SortCounts orders counts by descending count, then ascending genre.
func SortCounts(counts map[string]int) []GenreCount {
	out := make([]GenreCount, 0, len(counts))
	for g, n := range counts {
		out = append(out, GenreCount{Genre: g, Count: n})
	}
	slices.SortFunc(out, func(a, b GenreCount) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.Genre, b.Genre)
	})
	return out
}

// Duplicates groups records that share a title (ignoring case). Groups
// appear in order of their first record; singletons are omitted.
func (c *Catalog) Duplicates() [][]Record {
	var order []string
	groups := make(map[string][]Record)
	for _, r := range c.records {
		key := fold(r.Title)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	var dups [][]Record
	for _, key := range order {
		if len(groups[key]) > 1 {
			dups = append(dups, groups[key])
		}
	}
	return dups
}

// Stats summarizes the catalog.
func (c *Catalog) Stats() Stats {
	authors := make(map[string]struct{})
	for _, r := range c.records {
		authors[r.Author] = struct{}{}
	}
	hist := c.Histogram()
	return Stats{
		Books:           len(c.records),
		Genres:          len(hist),
		Authors:         len(authors),
		DuplicateTitles: len(c.Duplicates()),
		ByGenre:         hist,
	}
}

// Import fetches candidates for query from src and adds each one.
//
// If the fetch fails nothing is added and the error is an *ImportError.
// Candidates are added one at a time, so a save failure part way through
// keeps the records added before it; they are listed in the result.
func (c *Catalog) Import(ctx context.Context, src MetadataSource, query string) (ImportResult, error) {
	res := ImportResult{RunID: uuid.NewString(), Query: query}
	log := c.log.With().Str("run_id", res.RunID).Str("query", query).Logger()

	candidates, err := src.Fetch(ctx, query)
	if err != nil {
		if !errors.Is(err, ErrImportFailed) {
			err = &ImportError{Query: query, Err: err}
		}
		log.Error().Err(err).Msg("import failed")
		return res, err
	}
	res.Fetched = len(candidates)

	for _, r := range candidates {
		if err := c.Add(r); err != nil {
			log.Error().Err(err).Int("added", len(res.Added)).Msg("import stopped")
			return res, err
		}
		res.Added = append(res.Added, r.Normalize())
	}

	log.Info().Int("added", len(res.Added)).Msg("import finished")
	return res, nil
}

// Flush saves the current sequence if the catalog changed since Open.
// An unchanged catalog is never written, so rows skipped on load stay in
// the store until the first real mutation.
func (c *Catalog) Flush() error {
	if !c.dirty {
		return nil
	}
	if err := c.store.Save(c.records); err != nil {
		return asPersistenceError("save", err)
	}
	return nil
}

// Close closes the underlying store. Every successful mutation has already
// been saved, so Close does not write.
func (c *Catalog) Close() error {
	return c.store.Close()
}

func asPersistenceError(op string, err error) error {
	if errors.Is(err, ErrPersistenceUnavailable) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
