// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newTrainCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train the model and print dataset statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, src, err := trainedEngine(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer closeSource(src)

			status := engine.Status()
			if flags.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), status)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "algorithm\t%s\n", status.Algorithm)
			fmt.Fprintf(w, "joined rows\t%d\n", status.Stats.JoinedRows)
			fmt.Fprintf(w, "filtered rows\t%d\n", status.Stats.FilteredRows)
			fmt.Fprintf(w, "titles\t%d\n", status.Stats.Titles)
			fmt.Fprintf(w, "users\t%d\n", status.Stats.Users)
			fmt.Fprintf(w, "non-zero\t%d\n", status.Stats.NonZero)
			fmt.Fprintf(w, "density\t%.6f\n", status.Stats.Density)
			fmt.Fprintf(w, "duration\t%dms\n", status.LastDurationMS)
			return w.Flush()
		},
	}
}

func newSimilarCmd(flags *globalFlags) *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "similar <title>",
		Short: "List the titles most similar to a title",
		Long: `List the k titles closest to <title> by cosine similarity of their
rating vectors. The title must match exactly, including the year.

Examples:
  marquee similar "Heat (1995)"
  marquee similar -k 10 "Toy Story (1995)"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")

			engine, src, err := trainedEngine(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer closeSource(src)

			recs, found, err := engine.Recommend(title, k)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("movie not found: %q", title)
			}
			if flags.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), recs)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for i, rec := range recs {
				fmt.Fprintf(w, "%d.\t%s\t%.4f\n", i+1, rec.Title, rec.Similarity)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", 0, "Number of similar titles (0 = configured default)")
	return cmd
}

func newSearchCmd(flags *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find titles containing a substring",
		Long: `Find titles containing <query>, ignoring case.

Examples:
  marquee search "toy story"
  marquee search --limit 3 heat`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			engine, src, err := trainedEngine(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer closeSource(src)

			titles, err := engine.SearchTitles(query, limit)
			if err != nil {
				return err
			}
			if flags.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), titles)
			}
			for _, title := range titles {
				fmt.Fprintln(cmd.OutOrStdout(), title)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of titles (0 = configured default)")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
