// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newCSVStore(t *testing.T) *CSVStore {
	t.Helper()
	s, err := NewCSVStore(filepath.Join(t.TempDir(), "shelf", "library.csv"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCSVStoreMissingFileIsEmpty(t *testing.T) {
	s := newCSVStore(t)

	records, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, records)

	c, err := Open(s)
	require.NoError(t, err)
	assert.Zero(t, c.Len())
}

func TestCSVStoreWritesHeaderAndQuotes(t *testing.T) {
	s := newCSVStore(t)

	records := []Record{
		{Title: "Dune", Author: "Frank Herbert", Genre: "Fiction", Year: "1965"},
		{Title: `Eats, Shoots & Leaves`, Author: `Lynne "Punctuation" Truss`, Genre: "Non-Fiction", Year: "2003"},
	}
	require.NoError(t, s.Save(records))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	want := "Title,Author,Genre,Year\n" +
		"Dune,Frank Herbert,Fiction,1965\n" +
		`"Eats, Shoots & Leaves","Lynne ""Punctuation"" Truss",Non-Fiction,2003` + "\n"
	assert.Equal(t, want, string(data))
}

func TestCSVStoreSaveOverwrites(t *testing.T) {
	s := newCSVStore(t)

	require.NoError(t, s.Save([]Record{dune, sapiens}))
	require.NoError(t, s.Save([]Record{sapiens}))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []Record{sapiens}, got)

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}

func TestCSVStoreCatalogPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.csv")

	s1, err := NewCSVStore(path, zerolog.Nop())
	require.NoError(t, err)
	c1, err := Open(s1)
	require.NoError(t, err)
	require.NoError(t, c1.Add(dune))
	require.NoError(t, c1.Add(sapiens))
	require.NoError(t, c1.Close())

	s2, err := NewCSVStore(path, zerolog.Nop())
	require.NoError(t, err)
	c2, err := Open(s2)
	require.NoError(t, err)
	defer c2.Close()
	assert.Equal(t, []Record{dune, sapiens}, c2.Records())
}

func TestReadRecordsSkipsMalformedRows(t *testing.T) {
	input := "Title,Author,Genre,Year\n" +
		"Dune,Frank Herbert,Fiction,1965\n" +
		"Broken,Only Two\n" +
		"Sapiens,Yuval Noah Harari,Non-Fiction,2011\n"

	records, skipped, err := ReadRecords(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []Record{dune, sapiens}, records)
	require.Len(t, skipped, 1)
	assert.ErrorIs(t, skipped[0], ErrMalformedRecord)

	var mr *MalformedRecordError
	require.ErrorAs(t, skipped[0], &mr)
	assert.Equal(t, 3, mr.Line)
	assert.Equal(t, 2, mr.Fields)
}

func TestReadRecordsSkipsBadQuoting(t *testing.T) {
	input := "Title,Author,Genre,Year\n" +
		"Bad \"quote,Someone,Fiction,2000\n" +
		"Dune,Frank Herbert,Fiction,1965\n"

	records, skipped, err := ReadRecords(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []Record{dune}, records)
	require.Len(t, skipped, 1)
	assert.ErrorIs(t, skipped[0], ErrMalformedRecord)
}

func TestReadRecordsUnterminatedQuoteSwallowsTail(t *testing.T) {
	input := "Title,Author,Genre,Year\n" +
		"Dune,Frank Herbert,Fiction,1965\n" +
		"\"Open quote,Someone,Fiction,2000\n" +
		"Sapiens,Yuval Noah Harari,Non-Fiction,2011\n" +
		"Emma,Jane Austen,Fiction,1815\n"

	records, skipped, err := ReadRecords(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []Record{dune}, records)
	require.Len(t, skipped, 1)

	var mr *MalformedRecordError
	require.ErrorAs(t, skipped[0], &mr)
	assert.Equal(t, 3, mr.Line)
	assert.Greater(t, mr.EndLine, mr.Line)
	assert.Greater(t, mr.Lines(), 1)
	assert.Contains(t, mr.Error(), "lines 3-")
}

func TestReadRecordsMapsColumnsByName(t *testing.T) {
	input := "\ufeffyear, genre ,AUTHOR,title,Notes\n" +
		"1965,Fiction,Frank Herbert,Dune,signed copy\n"

	records, skipped, err := ReadRecords(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, []Record{dune}, records)
}

func TestReadRecordsMissingColumn(t *testing.T) {
	_, _, err := ReadRecords(strings.NewReader("Title,Author,Year\nDune,Frank Herbert,1965\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing column "Genre"`)
}

func TestReadRecordsEmptyInput(t *testing.T) {
	records, skipped, err := ReadRecords(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, skipped)
}

func TestCSVStoreBadHeaderIsPersistenceError(t *testing.T) {
	s := newCSVStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("Name,Writer\nDune,Herbert\n"), 0o644))

	_, err := Open(s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistenceUnavailable)
}

func TestCSVStoreReportsSkippedRows(t *testing.T) {
	s := newCSVStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("Title,Author,Genre,Year\nDune,Frank Herbert,Fiction,1965\nnope\n"), 0o644))

	c, err := Open(s)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Skipped())
}

func TestCSVStoreCRLFFieldSurvivesReopen(t *testing.T) {
	s := newCSVStore(t)
	c, err := Open(s)
	require.NoError(t, err)
	require.NoError(t, c.Add(Record{Title: "Line one\r\nLine two", Author: "Anon", Genre: "Poetry", Year: "1900"}))
	inMemory := c.Records()
	require.NoError(t, c.Close())

	s2, err := NewCSVStore(s.Path(), zerolog.Nop())
	require.NoError(t, err)
	c2, err := Open(s2)
	require.NoError(t, err)
	defer c2.Close()

	assert.Equal(t, inMemory, c2.Records())
	n, err := c2.Remove("Line one\r\nLine two")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// Through the catalog, whatever is added must come back unchanged from a
// fresh load of the file, for any field content.
func TestCatalogCSVRoundTrip(t *testing.T) {
	field := rapid.StringMatching(`[a-z \r\n",]{0,10}`)
	rec := rapid.Custom(func(t *rapid.T) Record {
		return Record{
			Title:  field.Draw(t, "title"),
			Author: field.Draw(t, "author"),
			Genre:  field.Draw(t, "genre"),
			Year:   field.Draw(t, "year"),
		}
	})
	dir := t.TempDir()

	rapid.Check(t, func(t *rapid.T) {
		records := rapid.SliceOfN(rec, 1, 8).Draw(t, "records")
		path := filepath.Join(dir, "library.csv")
		os.Remove(path)

		s, err := NewCSVStore(path, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewCSVStore: %v", err)
		}
		c, err := Open(s)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		for _, r := range records {
			if err := c.Add(r); err != nil {
				t.Fatalf("Add: %v", err)
			}
		}
		c.Close()

		got, err := s.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		want := c.Records()
		if len(got) != len(want) {
			t.Fatalf("got %d records, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("record %d: got %#v, want %#v", i, got[i], want[i])
			}
		}
	})
}

// Normalized records round-trip exactly; encoding/csv folds a quoted CRLF
// into LF on read, so un-normalized ones come back normalized.
func TestRecordsRoundTrip(t *testing.T) {
	field := rapid.String()
	rec := rapid.Custom(func(t *rapid.T) Record {
		return Record{
			Title:  field.Draw(t, "title"),
			Author: field.Draw(t, "author"),
			Genre:  field.Draw(t, "genre"),
			Year:   field.Draw(t, "year"),
		}
	})

	rapid.Check(t, func(t *rapid.T) {
		records := rapid.SliceOfN(rec, 0, 15).Draw(t, "records")
		want := make([]Record, len(records))
		for i, r := range records {
			want[i] = r.Normalize()
		}

		var buf bytes.Buffer
		if err := WriteRecords(&buf, records); err != nil {
			t.Fatalf("WriteRecords: %v", err)
		}
		got, skipped, err := ReadRecords(&buf)
		if err != nil {
			t.Fatalf("ReadRecords: %v", err)
		}
		if len(skipped) != 0 {
			t.Fatalf("unexpected skipped rows: %v", skipped)
		}
		if len(got) != len(want) {
			t.Fatalf("got %d records, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("record %d: got %#v, want %#v", i, got[i], want[i])
			}
		}
	})
}
