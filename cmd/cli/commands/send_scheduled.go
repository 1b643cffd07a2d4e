package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dashort/ride-sub002/pkg/core/model"
	"github.com/dashort/ride-sub002/pkg/core/services"
)

// SendScheduledCmd creates the sendScheduled command
func SendScheduledCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sendScheduled",
		Short: "Send today's notifications if the reminder rule fires today",
		Long: `Meant to run from cron. When the configured reminder recurrence rule has
an occurrence today, this runs the bulk processor over today's assignments;
otherwise it exits without sending anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Cfg.ReminderRule == "" {
				return fmt.Errorf("no reminderRule configured")
			}

			channelFlag, _ := cmd.Flags().GetString("channel")
			channel, ok := model.ParseChannel(channelFlag)
			if !ok {
				return fmt.Errorf("invalid channel %q (want sms, email or both)", channelFlag)
			}

			due, err := services.ShouldRunToday(app.Cfg.ReminderRule, time.Now())
			if err != nil {
				return err
			}
			if !due {
				app.Logger.Info("Reminder rule has no occurrence today, nothing to send",
					zap.String("rule", app.Cfg.ReminderRule))
				fmt.Println("No scheduled notifications today.")
				return nil
			}

			// Cron setups sometimes fire the same minute twice; collapse
			// back-to-back triggers before sending anything.
			debouncer := services.NewDebouncer(app.Store)
			allowed, err := debouncer.ShouldRun(app.Ctx, "send_scheduled")
			if err != nil {
				return err
			}
			if !allowed {
				app.Logger.Info("Duplicate scheduled trigger suppressed")
				fmt.Println("Duplicate trigger, skipped.")
				return nil
			}

			notifier := services.NewNotifier(app.Store, app.SheetsClient, app.GmailClient, app.Cfg, app.Logger, app.Audit)
			result, err := notifier.NotifyAll(app.Ctx, services.Selector{Range: services.RangeToday}, channel)
			if err != nil {
				return err
			}

			fmt.Printf("\n%s\n\n", result.Message)
			return nil
		},
	}

	cmd.Flags().String("channel", "sms", "Channel to use: sms, email or both")

	return cmd
}
