// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package logging builds the zerolog logger used for diagnostics.
//
// Diagnostics go to stderr so they never mix with command output on stdout.
// On a terminal the logger writes human-readable lines, otherwise JSON.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Formats accepted by New.
const (
	FormatAuto    = "auto"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New creates a logger writing to w at the given level and format.
// Unknown levels fall back to warn; unknown formats behave like auto.
func New(w io.Writer, level, format string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	if useConsole(w, format) {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel converts a level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	if level == "" {
		return zerolog.WarnLevel
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return l
}

func useConsole(w io.Writer, format string) bool {
	switch strings.ToLower(format) {
	case FormatJSON:
		return false
	case FormatConsole:
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
