package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ActivityLogCmd creates the activityLog command
func ActivityLogCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activityLog",
		Short: "Show recent entries from the persistent activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Postgres == nil {
				return fmt.Errorf("no postgresURL configured: the persistent activity log is disabled")
			}

			limit, _ := cmd.Flags().GetInt("limit")
			entries, err := app.Postgres.RecentEntries(app.Ctx, limit)
			if err != nil {
				return err
			}

			fmt.Printf("\nLast %d activity log entries:\n\n", len(entries))
			for _, e := range entries {
				fmt.Printf("- [%s] %s %s", e.LoggedAt.Format("2006-01-02 15:04:05"), e.Kind, e.Message)
				if e.Details != "" {
					fmt.Printf(" (%s)", e.Details)
				}
				fmt.Println()
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Int("limit", 50, "Maximum number of entries to show")

	return cmd
}
