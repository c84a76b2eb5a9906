// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.WarnLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"error", zerolog.ErrorLevel},
		{"loud", zerolog.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewJSONToBuffer(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", FormatAuto)

	log.Debug().Msg("hidden")
	log.Info().Str("query", "dune").Msg("import")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "import", entry["message"])
	assert.Equal(t, "dune", entry["query"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewConsoleFormat(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	log := New(&buf, "warn", FormatConsole)
	log.Warn().Msg("skipped row")

	out := buf.String()
	assert.Contains(t, out, "skipped row")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
