package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"signalradar/internal/config"
)

// ValidateCmd returns the configuration check command.
func ValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Load the configuration the same way the pipeline would (defaults, config
file, environment overrides) and check its invariants.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}

			fmt.Println(color.New(color.FgGreen).Sprint("configuration valid"))
			fmt.Printf("  database: %s\n", cfg.Database.Path)
			fmt.Printf("  report size: %d, guard window: %s\n", cfg.Report.Size, cfg.Report.GuardWindow())
			fmt.Printf("  sentiment threshold: %.2f\n", cfg.Sentiment.Threshold)
			fmt.Printf("  email enabled: %t\n", cfg.Notifications.Email.Enabled)
			return nil
		},
	}

	return cmd
}
