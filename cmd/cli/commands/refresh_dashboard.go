package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashort/ride-sub002/pkg/core/services"
)

// RefreshDashboardCmd creates the refreshDashboard command
func RefreshDashboardCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refreshDashboard",
		Short: "Recompute notification stats onto the dashboard tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reporter := services.NewReporter(app.Store)
			dashboard := services.NewDashboard(reporter, app.Store, app.Logger, app.Cfg.DashboardTab)

			ran, err := dashboard.Refresh(app.Ctx)
			if err != nil {
				return err
			}
			if !ran {
				fmt.Println("Dashboard refresh already in progress, skipped.")
				return nil
			}

			fmt.Printf("\n✓ Dashboard refreshed on tab %q\n\n", app.Cfg.DashboardTab)
			return nil
		},
	}
}
