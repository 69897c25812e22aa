package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// StatsCmd returns the catalog statistics command.
func StatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.Stats(context.Background())
			if err != nil {
				return fmt.Errorf("failed to read catalog stats: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintf(w, "posts archived\t%d\n", stats.TotalPosts)
			fmt.Fprintf(w, "posts reported\t%d\n", stats.ReportedPosts)
			for status, count := range stats.RunsByStatus {
				fmt.Fprintf(w, "runs %s\t%d\n", status, count)
			}
			for tier, count := range stats.PostsByTier {
				fmt.Fprintf(w, "tier %s\t%d\n", tier, count)
			}
			return w.Flush()
		},
	}

	return cmd
}
