package main

import (
	"fmt"

	"ai-twin-be/internal/bootstrap"
	"ai-twin-be/pkg/vector"

	"github.com/spf13/cobra"
)

var (
	seedFile      string
	seedBatchSize int
	seedDryRun    bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Embed and upsert the portfolio knowledge into the vector index",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "Knowledge YAML file (defaults to the built-in portfolio knowledge)")
	seedCmd.Flags().IntVar(&seedBatchSize, "batch", 10, "Documents per upsert request")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "List documents without writing")
}

func runSeed(cmd *cobra.Command, args []string) error {
	docs, err := vector.LoadDocuments(seedFile)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if seedDryRun {
		w := newTabWriter(out)
		fmt.Fprintln(w, "ID\tCATEGORY\tTITLE")
		for _, d := range docs {
			fmt.Fprintf(w, "%s\t%s\t%s\n", d.ID, d.Category, d.Title)
		}
		return w.Flush()
	}

	if seedBatchSize <= 0 {
		seedBatchSize = len(docs)
	}

	return withContainer(cmd.Context(), true, func(c *bootstrap.Container) error {
		for start := 0; start < len(docs); start += seedBatchSize {
			end := start + seedBatchSize
			if end > len(docs) {
				end = len(docs)
			}
			if err := c.VectorStore.Upsert(cmd.Context(), docs[start:end]); err != nil {
				return fmt.Errorf("upsert documents %d-%d: %w", start, end-1, err)
			}
			fmt.Fprintf(out, "Upserted %d/%d documents\n", end, len(docs))
		}
		return nil
	})
}
