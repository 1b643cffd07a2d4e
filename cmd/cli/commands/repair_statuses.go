package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashort/ride-sub002/pkg/core/services"
)

// RepairStatusesCmd creates the repairStatuses command
func RepairStatusesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "repairStatuses",
		Short: "Backfill blank assignment statuses from their parent requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reconciler := services.NewReconciler(app.Store, app.Logger, app.Audit)
			result, err := reconciler.RepairStatuses(app.Ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Status repair complete\n\n")
			fmt.Printf("Blank rows examined: %d\n", result.Examined)
			fmt.Printf("Updated:             %d\n", result.Updated)
			fmt.Printf("Skipped:             %d\n", result.Skipped)
			fmt.Printf("Failed:              %d\n\n", result.Failed)

			return nil
		},
	}
}
