package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashort/ride-sub002/pkg/core/services"
)

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List every assignment with its notification state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reporter := services.NewReporter(app.Store)
			entries, err := reporter.GetHistory(app.Ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d assignments:\n\n", len(entries))
			for _, e := range entries {
				rider := e.RiderName
				if rider == "" {
					rider = "(no rider)"
				}
				fmt.Printf("- %s (%s) %s - %s - %s", e.AssignmentID, e.RequestID, rider, e.EventDate, e.State)
				if e.NotifiedAt != "" {
					fmt.Printf(" at %s", e.NotifiedAt)
				}
				fmt.Println()
			}
			fmt.Println()

			return nil
		},
	}
}
