// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/mtreilly/arc-shelf/internal/library"
	"github.com/mtreilly/arc-shelf/internal/output"
	"github.com/spf13/cobra"
)

func newDuplicatesCmd(app *App) *cobra.Command {
	var out output.OutputOptions
	var threshold float64

	cmd := &cobra.Command{
		Use:     "duplicates",
		Aliases: []string{"dups"},
		Short:   "Find books that share a title",
		Long: `List groups of books with the same title (ignoring case).

"update" only changes the first book of such a group while "remove" deletes
all of them. With --threshold, also report pairs of different titles whose
word overlap is at least the threshold (0-1).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.ResolveDefault(cmd, app.Config.Output); err != nil {
				return err
			}

			groups := app.Catalog.Duplicates()
			var similar []similarPair
			if threshold > 0 {
				similar = similarTitles(app.Catalog.Records(), threshold)
			}

			w := cmd.OutOrStdout()
			if !out.Is(output.OutputTable) {
				if groups == nil {
					groups = [][]library.Record{}
				}
				return output.Write(w, out.Format(), map[string]any{
					"groups":  groups,
					"similar": similar,
				})
			}

			if len(groups) == 0 && len(similar) == 0 {
				fmt.Fprintln(w, "No duplicate titles found.")
				return nil
			}

			if len(groups) > 0 {
				fmt.Fprintf(w, "Found %d title(s) shared by more than one book:\n\n", len(groups))
				for i, g := range groups {
					fmt.Fprintf(w, "[%d] %s (%d books)\n", i+1, g[0].Title, len(g))
					for _, r := range g {
						fmt.Fprintf(w, "    %s\n", output.Truncate(r.String(), 70))
					}
					fmt.Fprintln(w)
				}
			}

			if len(similar) > 0 {
				fmt.Fprintf(w, "Found %d similar title pair(s) (threshold %.2f):\n\n", len(similar), threshold)
				for i, p := range similar {
					fmt.Fprintf(w, "[%d] Score: %.2f\n", i+1, p.Score)
					fmt.Fprintf(w, "    Book A: %s\n", output.Truncate(p.A.String(), 60))
					fmt.Fprintf(w, "    Book B: %s\n", output.Truncate(p.B.String(), 60))
					fmt.Fprintln(w)
				}
			}
			return nil
		},
	}

	out.AddOutputFlags(cmd, output.OutputTable)
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Also report similar titles at this word-overlap score (0-1)")
	return cmd
}

type similarPair struct {
	A     library.Record `json:"a" yaml:"a"`
	B     library.Record `json:"b" yaml:"b"`
	Score float64        `json:"score" yaml:"score"`
}

// similarTitles compares every pair of distinct titles. Exact title
// matches are left to Catalog.Duplicates.
func similarTitles(records []library.Record, threshold float64) []similarPair {
	var pairs []similarPair
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			a, b := records[i], records[j]
			if a.HasTitle(b.Title) {
				continue
			}
			if sim := titleSimilarity(a.Title, b.Title); sim >= threshold {
				pairs = append(pairs, similarPair{A: a, B: b, Score: sim})
			}
		}
	}
	slices.SortStableFunc(pairs, func(x, y similarPair) int {
		return cmp.Compare(y.Score, x.Score)
	})
	return pairs
}

var punctuation = regexp.MustCompile(`[^\w\s]`)

// titleSimilarity is the Jaccard index of the titles' words longer than
// two letters.
func titleSimilarity(a, b string) float64 {
	setA := titleWords(a)
	setB := titleWords(b)

	intersection := 0
	for word := range setA {
		if setB[word] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func titleWords(s string) map[string]bool {
	words := make(map[string]bool)
	for _, word := range strings.Fields(punctuation.ReplaceAllString(strings.ToLower(s), "")) {
		if len(word) > 2 {
			words[word] = true
		}
	}
	return words
}
