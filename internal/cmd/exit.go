// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"

	"github.com/mtreilly/arc-shelf/internal/library"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitNotFound    = 2
	ExitImport      = 3
	ExitPersistence = 4
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, library.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, library.ErrImportFailed):
		return ExitImport
	case errors.Is(err, library.ErrPersistenceUnavailable):
		return ExitPersistence
	default:
		return ExitError
	}
}
