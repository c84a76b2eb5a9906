// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import "context"

// Store persists the full record sequence.
// Implementations may use a CSV file, SQLite, or in-memory structures.
type Store interface {
	// Load returns the persisted records in order. A store that has never
	// been saved returns no records and no error.
	Load() ([]Record, error)

	// Save replaces the persisted records with records.
	Save(records []Record) error

	Close() error
}

// MetadataSource produces candidate records from a free-text query.
type MetadataSource interface {
	Fetch(ctx context.Context, query string) ([]Record, error)
}
