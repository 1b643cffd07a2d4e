package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashort/ride-sub002/pkg/core/model"
	"github.com/dashort/ride-sub002/pkg/core/services"
)

// NotifyAllCmd creates the notifyAll command
func NotifyAllCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifyAll",
		Short: "Send notifications to a selection of assignments",
		Long: `Send notifications in bulk. Pick exactly one selector:
  --ids       comma-separated assignment ids
  --today     assignments with an event today
  --week      assignments with an event in the next 7 days
  --pending   assignments with a rider that have never been notified
  --assigned  all non-terminal assignments with a rider`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			channelFlag, _ := cmd.Flags().GetString("channel")
			channel, ok := model.ParseChannel(channelFlag)
			if !ok {
				return fmt.Errorf("invalid channel %q (want sms, email or both)", channelFlag)
			}

			selector, err := selectorFromFlags(cmd)
			if err != nil {
				return err
			}

			notifier := services.NewNotifier(app.Store, app.SheetsClient, app.GmailClient, app.Cfg, app.Logger, app.Audit)
			result, err := notifier.NotifyAll(app.Ctx, selector, channel)
			if err != nil {
				return err
			}

			fmt.Printf("\n%s\n", result.Message)
			if len(result.Errors) > 0 {
				fmt.Printf("\nFirst %d failures:\n", len(result.Errors))
				for _, e := range result.Errors {
					fmt.Printf("  ✗ %s\n", e)
				}
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("channel", "sms", "Channel to use: sms, email or both")
	cmd.Flags().StringSlice("ids", nil, "Explicit assignment ids")
	cmd.Flags().Bool("today", false, "Target assignments with an event today")
	cmd.Flags().Bool("week", false, "Target assignments with an event in the next 7 days")
	cmd.Flags().Bool("pending", false, "Target never-notified assignments")
	cmd.Flags().Bool("assigned", false, "Target all non-terminal assignments with a rider")

	return cmd
}

// selectorFromFlags builds the bulk selector, rejecting ambiguous input.
func selectorFromFlags(cmd *cobra.Command) (services.Selector, error) {
	ids, _ := cmd.Flags().GetStringSlice("ids")
	today, _ := cmd.Flags().GetBool("today")
	week, _ := cmd.Flags().GetBool("week")
	pending, _ := cmd.Flags().GetBool("pending")
	assigned, _ := cmd.Flags().GetBool("assigned")

	count := 0
	if len(ids) > 0 {
		count++
	}
	for _, set := range []bool{today, week, pending, assigned} {
		if set {
			count++
		}
	}
	if count != 1 {
		return services.Selector{}, fmt.Errorf("pick exactly one of --ids, --today, --week, --pending, --assigned")
	}

	switch {
	case len(ids) > 0:
		return services.Selector{IDs: ids}, nil
	case today:
		return services.Selector{Range: services.RangeToday}, nil
	case week:
		return services.Selector{Range: services.RangeWeek}, nil
	case pending:
		return services.Selector{Pending: true}, nil
	default:
		return services.Selector{Assigned: true}, nil
	}
}
