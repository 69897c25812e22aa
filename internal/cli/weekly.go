package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"signalradar/internal/usecase"
)

// WeeklyCmd returns the weekly digest command.
func WeeklyCmd() *cobra.Command {
	var noEmail bool

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Send the weekly digest",
		Long: `Build the weekly digest from the posts surfaced by daily reports during
the last seven days, with per-platform and per-category breakdowns.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.RunWeekly(context.Background(), usecase.Options{NoEmail: noEmail})
			if err != nil {
				return err
			}

			printReport(result.Report)
			if len(result.Report.PlatformBreakdown) > 0 {
				fmt.Println("\nBy platform:")
				for platform, count := range result.Report.PlatformBreakdown {
					fmt.Printf("  %s: %d\n", platform, count)
				}
			}
			if len(result.Report.CategoryBreakdown) > 0 {
				fmt.Println("By category:")
				for category, count := range result.Report.CategoryBreakdown {
					fmt.Printf("  %s: %d\n", category, count)
				}
			}
			fmt.Println(color.New(color.FgGreen).Sprint("weekly digest assembled"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noEmail, "no-email", false, "build the digest but send nothing")

	return cmd
}
