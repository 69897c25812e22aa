package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"signalradar/internal/app"
	"signalradar/internal/config"
)

// errPartialResult signals a daily run that finished with fewer entries than
// the report size. It propagates through cobra so deferred cleanup in the
// command still runs before the process exits.
var errPartialResult = errors.New("partial result")

// Execute runs the CLI. Fatal conditions exit with code 2; a partial daily
// result exits with 1.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	code := exitCode(err)
	if code == 2 {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed).Sprint("error:"), err)
	}
	if code != 0 {
		os.Exit(code)
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errPartialResult):
		return 1
	default:
		return 2
	}
}

// NewRootCmd assembles the command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "signalradar",
		Short:         "Maintainer pain-signal radar",
		Long:          `Collects posts from developer platforms, filters them down to genuine maintainer pain signals, ranks them and reports the top findings daily.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(DailyCmd())
	cmd.AddCommand(WeeklyCmd())
	cmd.AddCommand(ScrapeCmd())
	cmd.AddCommand(StatsCmd())
	cmd.AddCommand(ValidateCmd())
	cmd.AddCommand(ScheduleCmd())

	return cmd
}

func buildApp() (*app.Application, error) {
	cfg := config.Load()
	a, err := app.New(cfg, nil)
	if err != nil {
		return nil, err
	}
	return a, nil
}
