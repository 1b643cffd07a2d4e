package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashort/ride-sub002/pkg/core/model"
	"github.com/dashort/ride-sub002/pkg/core/services"
)

// NotifyCmd creates the notify command
func NotifyCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify <assignment_id>",
		Short: "Send a notification for one assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channelFlag, _ := cmd.Flags().GetString("channel")
			channel, ok := model.ParseChannel(channelFlag)
			if !ok {
				return fmt.Errorf("invalid channel %q (want sms, email or both)", channelFlag)
			}

			notifier := services.NewNotifier(app.Store, app.SheetsClient, app.GmailClient, app.Cfg, app.Logger, app.Audit)
			result, err := notifier.Dispatch(app.Ctx, args[0], channel)
			if err != nil {
				return err
			}

			if result.Success {
				fmt.Printf("\n✓ Notification sent for %s\n", args[0])
			} else {
				fmt.Printf("\n✗ Notification failed for %s [%s]\n", args[0], result.Code)
			}
			if result.Message != "" {
				fmt.Printf("  %s\n", result.Message)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("channel", "sms", "Channel to use: sms, email or both")

	return cmd
}
