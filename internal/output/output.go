// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package output renders command results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// OutputFormat selects how results are rendered.
type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

// OutputOptions holds the --output flag of a command.
type OutputOptions struct {
	raw    string
	format OutputFormat
}

// AddOutputFlags registers -o/--output on cmd with the given default.
func (o *OutputOptions) AddOutputFlags(cmd *cobra.Command, def OutputFormat) {
	cmd.Flags().StringVarP(&o.raw, "output", "o", string(def), "Output format: table, json, yaml")
}

// Resolve validates the flag value. Call it at the start of RunE.
func (o *OutputOptions) Resolve() error {
	f, err := ParseFormat(o.raw)
	if err != nil {
		return err
	}
	o.format = f
	return nil
}

// ResolveDefault is Resolve with def taking the place of the flag's
// registered default when the user did not pass --output.
func (o *OutputOptions) ResolveDefault(cmd *cobra.Command, def string) error {
	if def != "" && !cmd.Flags().Changed("output") {
		o.raw = def
	}
	return o.Resolve()
}

// Is reports whether the resolved format is f.
func (o *OutputOptions) Is(f OutputFormat) bool {
	return o.format == f
}

// Format returns the resolved format.
func (o *OutputOptions) Format() OutputFormat {
	return o.format
}

// ParseFormat converts s to an OutputFormat. Empty means table.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return OutputTable, nil
	case OutputTable, OutputJSON, OutputYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (choose table, json, yaml)", s)
	}
}

// Write renders v as JSON or YAML depending on f. Table output is
// command-specific and not handled here.
func Write(w io.Writer, f OutputFormat, v any) error {
	switch f {
	case OutputJSON:
		return JSON(w, v)
	case OutputYAML:
		return YAML(w, v)
	default:
		return fmt.Errorf("format %q needs a table renderer", f)
	}
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as YAML.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Table collects rows and renders them with tablewriter.
type Table struct {
	w       io.Writer
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{w: w, headers: headers}
}

// AddRow appends a row. Missing cells are left blank.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows added.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table.
func (t *Table) Render() error {
	table := tablewriter.NewTable(t.w)

	headers := make([]any, len(t.headers))
	for i, h := range t.headers {
		headers[i] = h
	}
	table.Header(headers...)

	for _, row := range t.rows {
		cells := make([]any, len(t.headers))
		for i := range cells {
			if i < len(row) {
				cells[i] = row[i]
			} else {
				cells[i] = ""
			}
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	return table.Render()
}

// Truncate shortens s to at most n runes, ending in "..." when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
