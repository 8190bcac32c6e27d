package main

import (
	"errors"
	"fmt"

	"ai-twin-be/internal/bootstrap"

	"github.com/spf13/cobra"
)

var analyticsLimit int

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Summarize logged chats, frequent questions and mood usage",
	Args:  cobra.NoArgs,
	RunE:  runAnalytics,
}

func init() {
	analyticsCmd.Flags().IntVar(&analyticsLimit, "limit", 20, "Number of recent chats to show")
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	return withContainer(cmd.Context(), false, func(c *bootstrap.Container) error {
		if c.AnalyticsService == nil {
			return errors.New("analytics storage is not configured (set DB_CONNECTION_STRING)")
		}
		summary, err := c.AnalyticsService.Summary(cmd.Context(), analyticsLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, summary)
		}

		fmt.Fprintf(out, "Total chats: %d\n\n", summary.TotalChats)

		w := newTabWriter(out)
		fmt.Fprintln(w, "MOOD\tCOUNT")
		for _, m := range summary.MoodDistribution {
			fmt.Fprintf(w, "%s\t%d\n", m.Mood, m.Count)
		}
		w.Flush()
		fmt.Fprintln(out)

		w = newTabWriter(out)
		fmt.Fprintln(w, "COUNT\tCATEGORY\tQUESTION")
		for _, q := range summary.FrequentQuestions {
			fmt.Fprintf(w, "%d\t%s\t%s\n", q.Count, q.Category, q.Question)
		}
		w.Flush()
		fmt.Fprintln(out)

		w = newTabWriter(out)
		fmt.Fprintln(w, "TIME\tMOOD\tCHUNKS\tTOP\tMS\tQUESTION")
		for _, r := range summary.RecentChats {
			fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%d\t%s\n",
				r.Timestamp.Format("2006-01-02 15:04"),
				r.Mood,
				r.ChunksUsed,
				r.TopScore,
				r.ResponseTimeMs,
				r.UserQuery,
			)
		}
		return w.Flush()
	})
}
