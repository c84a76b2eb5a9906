// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package chart renders genre counts as a horizontal bar chart for the terminal.
package chart

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Renderer draws a genre -> count mapping.
type Renderer interface {
	Render(w io.Writer, counts map[string]int) error
}

const (
	defaultWidth = 80
	maxLabel     = 24
	minBar       = 10
)

// BarChart renders one row per genre, longest bar first.
type BarChart struct {
	Title  string
	XLabel string
	YLabel string
	Width  int  // total line width; 0 means 80
	Bar    rune // bar glyph; 0 means '█'
}

// NewBarChart returns the "Books by Genre" chart sized to width.
func NewBarChart(width int) *BarChart {
	return &BarChart{
		Title:  "Books by Genre",
		XLabel: "Genre",
		YLabel: "Number of Books",
		Width:  width,
	}
}

type bar struct {
	label string
	count int
}

// Render writes the chart to w. Genres are ordered by count descending,
// then by name.
func (c *BarChart) Render(w io.Writer, counts map[string]int) error {
	if len(counts) == 0 {
		_, err := fmt.Fprintln(w, "No books to chart.")
		return err
	}

	bars := make([]bar, 0, len(counts))
	for g, n := range counts {
		if n < 0 {
			return fmt.Errorf("negative count %d for genre %q", n, g)
		}
		bars = append(bars, bar{label: g, count: n})
	}
	slices.SortFunc(bars, func(a, b bar) int {
		if a.count != b.count {
			return cmp.Compare(b.count, a.count)
		}
		return cmp.Compare(a.label, b.label)
	})

	labelW := utf8.RuneCountInString(c.XLabel)
	for i := range bars {
		bars[i].label = clip(bars[i].label, maxLabel)
		labelW = max(labelW, utf8.RuneCountInString(bars[i].label))
	}
	peak := bars[0].count
	countW := len(strconv.Itoa(peak))

	width := c.Width
	if width <= 0 {
		width = defaultWidth
	}
	barMax := max(width-labelW-countW-4, minBar)

	glyph := c.Bar
	if glyph == 0 {
		glyph = '█'
	}

	var b strings.Builder
	if c.Title != "" {
		fmt.Fprintf(&b, "%s\n\n", c.Title)
	}
	fmt.Fprintf(&b, "%s | %s\n", pad(c.XLabel, labelW), c.YLabel)
	fmt.Fprintf(&b, "%s-+-%s\n", strings.Repeat("-", labelW), strings.Repeat("-", min(barMax, width)))
	for _, br := range bars {
		n := 0
		if peak > 0 {
			n = br.count * barMax / peak
			if br.count > 0 && n == 0 {
				n = 1
			}
		}
		fmt.Fprintf(&b, "%s | %s %d\n", pad(br.label, labelW), strings.Repeat(string(glyph), n), br.count)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// TerminalWidth returns the width of f if it is a terminal, or 0.
func TerminalWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}

func pad(s string, n int) string {
	return s + strings.Repeat(" ", max(n-utf8.RuneCountInString(s), 0))
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
