// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
)

// CSVStore persists records as a comma-separated file with a
// Title,Author,Genre,Year header row.
//
// Saves go to a temp file in the same directory which is then renamed over
// the target, so a crash mid-write leaves the previous file intact. Every
// Load and Save holds an advisory lock on <path>.lock.
type CSVStore struct {
	path    string
	lock    *flock.Flock
	log     zerolog.Logger
	skipped []error
}

// NewCSVStore creates a store backed by the file at path. The file itself
// need not exist; its parent directory is created if missing.
func NewCSVStore(path string, log zerolog.Logger) (*CSVStore, error) {
	if path == "" {
		return nil, &PersistenceError{Op: "open", Err: errors.New("empty path")}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &PersistenceError{Op: "open", Path: path, Err: err}
	}
	return &CSVStore{
		path: path,
		lock: flock.New(path + ".lock"),
		log:  log,
	}, nil
}

// Path returns the file the store reads and writes.
func (s *CSVStore) Path() string {
	return s.path
}

// Skipped returns the malformed rows dropped by the last Load.
func (s *CSVStore) Skipped() []error {
	return s.skipped
}

// Load reads all well-formed rows in file order. Rows with too few fields or
// broken quoting are skipped with a warning. A missing or empty file yields
// no records.
func (s *CSVStore) Load() ([]Record, error) {
	if err := s.lock.Lock(); err != nil {
		return nil, &PersistenceError{Op: "lock", Path: s.path, Err: err}
	}
	defer s.lock.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.skipped = nil
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	defer f.Close()

	records, skipped, err := ReadRecords(f)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	for _, e := range skipped {
		ev := s.log.Warn().Err(e).Str("path", s.path)
		var mr *MalformedRecordError
		if errors.As(e, &mr) && mr.Lines() > 1 {
			ev = ev.Int("lines", mr.Lines())
		}
		ev.Msg("skipping malformed row")
	}
	s.skipped = skipped
	return records, nil
}

// Save overwrites the file with a header row followed by records.
func (s *CSVStore) Save(records []Record) error {
	if err := s.lock.Lock(); err != nil {
		return &PersistenceError{Op: "lock", Path: s.path, Err: err}
	}
	defer s.lock.Unlock()

	if err := s.writeAtomic(records); err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

func (s *CSVStore) writeAtomic(records []Record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := WriteRecords(tmp, records); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Close releases the lock file handle.
func (s *CSVStore) Close() error {
	return s.lock.Close()
}

// WriteRecords writes the header row and one row per record to w.
func WriteRecords(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Fields()); err != nil {
			return fmt.Errorf("write record %q: %w", r.Title, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRecords parses rows written by WriteRecords. Columns are matched by
// header name, ignoring case, so reordered columns still load. Malformed
// rows are returned as errors in skipped rather than failing the read.
func ReadRecords(r io.Reader) (records []Record, skipped []error, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, nil, err
	}
	need := 0
	for _, i := range idx {
		need = max(need, i+1)
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped = append(skipped, &MalformedRecordError{Line: perr.StartLine, EndLine: perr.Line, Err: perr.Err})
				continue
			}
			return nil, nil, err
		}
		if len(row) < need {
			line, _ := cr.FieldPos(0)
			skipped = append(skipped, &MalformedRecordError{Line: line, Fields: len(row)})
			continue
		}
		records = append(records, Record{
			Title:  row[idx[0]],
			Author: row[idx[1]],
			Genre:  row[idx[2]],
			Year:   row[idx[3]],
		})
	}
	return records, skipped, nil
}

// columnIndex maps Columns to their positions in header.
func columnIndex(header []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := pos[key]; !dup {
			pos[key] = i
		}
	}

	idx := make([]int, len(Columns))
	for i, c := range Columns {
		p, ok := pos[strings.ToLower(c)]
		if !ok {
			return nil, fmt.Errorf("header %q: missing column %q", strings.Join(header, ","), c)
		}
		idx[i] = p
	}
	return idx, nil
}
