package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashort/ride-sub002/pkg/core/services"
)

// PropagateRequestCmd creates the propagateRequest command
func PropagateRequestCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propagateRequest <request_id>",
		Short: "Push edited request fields down to its assignments",
		Long: `Overwrite the duplicated event fields on every assignment belonging to
the request. Only the fields passed as flags are written; everything else
is left as-is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes := services.FieldChanges{
				EventDate:      flagIfSet(cmd, "event-date"),
				StartTime:      flagIfSet(cmd, "start-time"),
				StartLocation:  flagIfSet(cmd, "start-location"),
				SecondLocation: flagIfSet(cmd, "second-location"),
				EndLocation:    flagIfSet(cmd, "end-location"),
				Notes:          flagIfSet(cmd, "notes"),
			}
			if changes == (services.FieldChanges{}) {
				return fmt.Errorf("no fields to propagate: pass at least one field flag")
			}

			// Edit triggers arrive in bursts when a request is saved
			// repeatedly; collapse back-to-back propagations.
			debouncer := services.NewDebouncer(app.Store)
			allowed, err := debouncer.ShouldRun(app.Ctx, "propagate_"+args[0])
			if err != nil {
				return err
			}
			if !allowed {
				app.Logger.Info("Duplicate edit trigger suppressed")
				fmt.Println("Duplicate trigger, skipped.")
				return nil
			}

			reconciler := services.NewReconciler(app.Store, app.Logger, app.Audit)
			result, err := reconciler.PropagateRequestFields(app.Ctx, args[0], changes)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Propagation complete for request %s\n\n", args[0])
			fmt.Printf("Assignments examined: %d\n", result.Examined)
			fmt.Printf("Updated:              %d\n", result.Updated)
			fmt.Printf("Already current:      %d\n", result.Skipped)
			fmt.Printf("Failed:               %d\n\n", result.Failed)

			return nil
		},
	}

	cmd.Flags().String("event-date", "", "New event date")
	cmd.Flags().String("start-time", "", "New start time")
	cmd.Flags().String("start-location", "", "New start location")
	cmd.Flags().String("second-location", "", "New second location")
	cmd.Flags().String("end-location", "", "New end location")
	cmd.Flags().String("notes", "", "New notes")

	return cmd
}

// flagIfSet returns the flag value only when the operator actually passed
// the flag, so an empty string can be propagated deliberately.
func flagIfSet(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, _ := cmd.Flags().GetString(name)
	return &value
}
