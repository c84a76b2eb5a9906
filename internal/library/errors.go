// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"errors"
	"fmt"
)

// Sentinel errors for catalog operations. Typed errors below match them
// through errors.Is.
var (
	// ErrNotFound indicates no record has the requested title.
	ErrNotFound = errors.New("not found")

	// ErrPersistenceUnavailable indicates the persisted store could not be
	// read or written.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")

	// ErrImportFailed indicates the metadata source could not be queried.
	ErrImportFailed = errors.New("import failed")

	// ErrMalformedRecord indicates a persisted row could not be mapped to a record.
	ErrMalformedRecord = errors.New("malformed record")
)

// NotFoundError is returned by Update and Remove when no title matches.
type NotFoundError struct {
	Title string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("book %q not found", e.Title)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// PersistenceError wraps a failure to load or save the store.
type PersistenceError struct {
	Op   string // "load", "save", "open"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s store: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s store %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistenceUnavailable
}

// ImportError wraps a failed fetch from a metadata source.
type ImportError struct {
	Query      string
	StatusCode int
	Err        error
}

func (e *ImportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("import %q: status %d", e.Query, e.StatusCode)
	}
	return fmt.Sprintf("import %q: %v", e.Query, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *ImportError) Is(target error) bool {
	return target == ErrImportFailed
}

// MalformedRecordError describes a persisted row that was skipped on load.
// An unterminated quote swallows everything up to the end of the file into
// one row; EndLine is then the last line it consumed.
type MalformedRecordError struct {
	Line    int
	EndLine int
	Fields  int
	Err     error
}

// Lines returns how many physical lines the skipped row spanned.
func (e *MalformedRecordError) Lines() int {
	if e.EndLine <= e.Line {
		return 1
	}
	return e.EndLine - e.Line + 1
}

func (e *MalformedRecordError) Error() string {
	if e.Err != nil && e.EndLine > e.Line {
		return fmt.Sprintf("lines %d-%d: %v", e.Line, e.EndLine, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: too few fields (%d)", e.Line, e.Fields)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
