package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"signalradar/internal/domain"
	"signalradar/internal/usecase"
)

// DailyCmd returns the daily pipeline command.
func DailyCmd() *cobra.Command {
	var force, dryRun, noEmail bool

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Run the daily signal pipeline",
		Long: `Collect fresh posts, filter them through the gate chain, score the
survivors and assemble the daily report, backfilling from the catalog archive
when fewer than five qualify.

Exit codes: 0 full (or skipped), 1 partial, 2 fatal.

Examples:
  signalradar daily
  signalradar daily --force
  signalradar daily --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.RunDaily(context.Background(), usecase.Options{
				Force:   force,
				DryRun:  dryRun,
				NoEmail: noEmail,
			})
			if err != nil {
				return err
			}

			switch result.Outcome {
			case usecase.OutcomeSkipped:
				fmt.Println(color.New(color.FgYellow).Sprint("skipped:"), "a recent successful run already covered this window")
				return nil
			case usecase.OutcomePartial:
				printReport(result.Report)
				fmt.Println(color.New(color.FgYellow).Sprintf("partial: every rung exhausted at %d entries", len(result.Report.Entries)))
				return errPartialResult
			default:
				printReport(result.Report)
				fmt.Println(color.New(color.FgGreen).Sprint("full report assembled"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "bypass the duplicate-run guard")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "run without writing to the catalog or sending email")
	cmd.Flags().BoolVar(&noEmail, "no-email", false, "record the run but send nothing")

	return cmd
}

func printReport(report domain.Report) {
	if len(report.Entries) == 0 {
		fmt.Println("No qualifying posts found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "#\tSIGNAL\tTIER\tPLATFORM\tTITLE")
	for _, e := range report.Entries {
		fmt.Fprintf(w, "%d\t%.2f\t%s\t%s\t%s\n",
			e.Rank, e.Post.SignalScore, e.Post.SourceTier, e.Post.Platform, e.Post.Title)
	}
	w.Flush()

	if len(report.SourceStatuses) > 0 {
		fmt.Println()
		for platform, status := range report.SourceStatuses {
			fmt.Printf("  %s: %s\n", platform, colorStatus(status))
		}
	}
}

func colorStatus(status domain.SourceStatus) string {
	switch status {
	case domain.SourceOK:
		return color.New(color.FgGreen).Sprint(string(status))
	case domain.SourceFailed:
		return color.New(color.FgRed).Sprint(string(status))
	default:
		return color.New(color.FgYellow).Sprint(string(status))
	}
}
