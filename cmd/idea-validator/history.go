package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joelkehle/ideavalidation/internal/store"
)

func newHistoryCmd(a *app) *cobra.Command {
	var f store.Filter
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded validation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.requireHistory()
			if err != nil {
				return err
			}
			f.Status = strings.ToUpper(f.Status)
			recs, err := h.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No validation runs recorded.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN ID\tCREATED\tSTATUS\tSCORE\tMODEL\tIDEA")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", r.RunID, r.CreatedAt, r.Status, r.Overall, r.BusinessModel, shorten(r.IdeaText, 60))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&f.Status, "status", "", "filter by verdict (GO, REVIEW, NO-GO)")
	cmd.Flags().StringVar(&f.BusinessModel, "model", "", "filter by business model")
	cmd.Flags().IntVarP(&f.Limit, "limit", "n", store.DefaultListLimit, "max runs")

	cmd.AddCommand(newHistoryShowCmd(a), newHistoryStatsCmd(a))
	return cmd
}

func newHistoryShowCmd(a *app) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the stored report of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.requireHistory()
			if err != nil {
				return err
			}
			_, res, err := h.Get(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no run with id %s", args[0])
			}
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), out, format, res)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatMarkdown, "markdown, json or html")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the report to a file")
	return cmd
}

func newHistoryStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count recorded runs per verdict",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.requireHistory()
			if err != nil {
				return err
			}
			stats, err := h.Stats(cmd.Context())
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(stats))
			for k := range stats {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", k, stats[k])
			}
			return nil
		},
	}
}

func (a *app) requireHistory() (*store.SQLiteStore, error) {
	h, err := a.openHistory()
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("history is disabled (--no-history)")
	}
	return h, nil
}

func shorten(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
