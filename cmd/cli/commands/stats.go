package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashort/ride-sub002/pkg/core/model"
	"github.com/dashort/ride-sub002/pkg/core/services"
)

// StatsCmd creates the stats command
func StatsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show notification totals for the assignment collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reporter := services.NewReporter(app.Store)
			stats, err := reporter.GetStats(app.Ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\nNotification stats\n\n")
			fmt.Printf("Total assignments:    %d\n", stats.Total)
			fmt.Printf("Pending notification: %d\n", stats.Pending)
			fmt.Printf("Notified today:       %d\n\n", stats.SentToday)

			fmt.Printf("By state:\n")
			for _, state := range []model.NotifyState{
				model.StateBothSent,
				model.StateSMSSent,
				model.StateEmailSent,
				model.StateNotified,
				model.StatePending,
				model.StateNoRider,
			} {
				fmt.Printf("  %-12s %d\n", state, stats.ByState[state])
			}
			fmt.Println()

			return nil
		},
	}
}
