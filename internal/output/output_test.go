// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]OutputFormat{
		"":       OutputTable,
		"table":  OutputTable,
		" JSON ": OutputJSON,
		"yaml":   OutputYAML,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestOutputOptionsFlag(t *testing.T) {
	var out OutputOptions
	cmd := &cobra.Command{Use: "x"}
	out.AddOutputFlags(cmd, OutputTable)

	require.NoError(t, cmd.Flags().Parse([]string{"-o", "json"}))
	require.NoError(t, out.Resolve())
	assert.True(t, out.Is(OutputJSON))
	assert.Equal(t, OutputJSON, out.Format())
}

func TestWriteJSONAndYAML(t *testing.T) {
	v := []map[string]string{{"title": "Dune"}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, OutputJSON, v))
	assert.JSONEq(t, `[{"title":"Dune"}]`, buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, OutputYAML, v))
	assert.Equal(t, "- title: Dune\n", buf.String())

	assert.Error(t, Write(&buf, OutputTable, v))
}

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, "Title", "Author")
	table.AddRow("Dune", "Frank Herbert")
	table.AddRow("Sapiens")
	require.NoError(t, table.Render())

	out := buf.String()
	assert.Equal(t, 2, table.Len())
	assert.Contains(t, strings.ToUpper(out), "TITLE")
	assert.Contains(t, out, "Frank Herbert")
	assert.Contains(t, out, "Sapiens")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Dune", Truncate("Dune", 10))
	assert.Equal(t, "The Lord...", Truncate("The Lord of the Rings", 11))
	assert.Equal(t, "Ça", Truncate("Ça va", 2))
}

func TestOutputOptionsResolveDefault(t *testing.T) {
	var out OutputOptions
	cmd := &cobra.Command{Use: "x"}
	out.AddOutputFlags(cmd, OutputTable)

	require.NoError(t, cmd.Flags().Parse(nil))
	require.NoError(t, out.ResolveDefault(cmd, "yaml"))
	assert.Equal(t, OutputYAML, out.Format())

	require.NoError(t, cmd.Flags().Parse([]string{"--output", "json"}))
	require.NoError(t, out.ResolveDefault(cmd, "yaml"))
	assert.Equal(t, OutputJSON, out.Format())
}
