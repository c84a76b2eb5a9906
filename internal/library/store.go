// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLStore persists records in a SQLite table. Position preserves
// insertion order across saves.
type SQLStore struct {
	db   *sql.DB
	path string
}

// OpenSQLStore opens (or creates) the SQLite database at path.
func OpenSQLStore(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &PersistenceError{Op: "open", Path: path, Err: err}
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	s, err := NewSQLStore(db)
	if err != nil {
		db.Close()
		return nil, &PersistenceError{Op: "open", Path: path, Err: err}
	}
	s.path = path
	return s, nil
}

// NewSQLStore wraps db and initializes the schema.
func NewSQLStore(db *sql.DB) (*SQLStore, error) {
	s := &SQLStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *SQLStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		position INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		genre TEXT NOT NULL,
		year TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns all records ordered by position.
func (s *SQLStore) Load() ([]Record, error) {
	rows, err := s.db.Query(`SELECT title, author, genre, year FROM records ORDER BY position`)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Title, &r.Author, &r.Genre, &r.Year); err != nil {
			return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	return records, nil
}

// Save rewrites the table in a single transaction.
func (s *SQLStore) Save(records []Record) error {
	if err := s.save(records); err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

func (s *SQLStore) save(records []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO records (position, title, author, genre, year) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.Exec(i, r.Title, r.Author, r.Genre, r.Year); err != nil {
			return fmt.Errorf("insert record %q: %w", r.Title, err)
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
