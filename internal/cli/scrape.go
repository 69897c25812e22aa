package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// ScrapeCmd returns the collection-only command.
func ScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Collect posts from every platform without filtering",
		Long: `Run only the source fan-out and print what each platform returned.
Nothing is filtered, scored or written; useful for checking feed health and
credentials.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			posts, statuses := a.Collect(context.Background())

			byPlatform := map[string]int{}
			for _, p := range posts {
				byPlatform[p.Platform]++
			}
			for platform, status := range statuses {
				fmt.Printf("%s: %s (%d posts)\n", platform, colorStatus(status), byPlatform[platform])
			}
			fmt.Printf("total: %d posts\n", len(posts))
			return nil
		},
	}

	return cmd
}
