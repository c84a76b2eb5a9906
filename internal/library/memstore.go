// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import "slices"

// MemoryStore keeps the last saved sequence in memory. Nothing survives the
// process; it backs the "memory" storage mode and the fallback used when the
// configured store cannot be read.
type MemoryStore struct {
	records []Record
	saves   int

	// SaveErr, when set, is returned by Save without storing anything.
	SaveErr error
}

// NewMemoryStore creates a store pre-populated with records.
func NewMemoryStore(records ...Record) *MemoryStore {
	return &MemoryStore{records: slices.Clone(records)}
}

func (s *MemoryStore) Load() ([]Record, error) {
	return slices.Clone(s.records), nil
}

func (s *MemoryStore) Save(records []Record) error {
	if s.SaveErr != nil {
		return &PersistenceError{Op: "save", Path: ":memory:", Err: s.SaveErr}
	}
	s.records = slices.Clone(records)
	s.saves++
	return nil
}

// Saves returns how many successful saves the store has seen.
func (s *MemoryStore) Saves() int {
	return s.saves
}

func (s *MemoryStore) Close() error {
	return nil
}
