package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dashort/ride-sub002/cmd/cli/commands"
	"github.com/dashort/ride-sub002/internal/config"
	"github.com/dashort/ride-sub002/pkg/audit"
	"github.com/dashort/ride-sub002/pkg/clients/gmailclient"
	"github.com/dashort/ride-sub002/pkg/clients/sheetsclient"
	"github.com/dashort/ride-sub002/pkg/db"
	"github.com/dashort/ride-sub002/pkg/postgres"
	"github.com/dashort/ride-sub002/pkg/sheetssql"
	"github.com/dashort/ride-sub002/pkg/utils/logging"
)

var (
	env string
	app *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Escort dispatch CLI - rider notifications and status reconciliation",
		Long:  `A CLI tool for sending escort assignment notifications, reconciling assignment statuses, and reporting notification state.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.Postgres != nil {
					app.Postgres.Close()
				}
				if app.Logger != nil {
					app.Logger.Sync()
				}
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands. The AppContext is allocated now and populated by
	// initApp once flags are parsed, so commands can capture the pointer.
	app = &commands.AppContext{}
	rootCmd.AddCommand(commands.NotifyCmd(app))
	rootCmd.AddCommand(commands.NotifyAllCmd(app))
	rootCmd.AddCommand(commands.RepairStatusesCmd(app))
	rootCmd.AddCommand(commands.PropagateRequestCmd(app))
	rootCmd.AddCommand(commands.StatsCmd(app))
	rootCmd.AddCommand(commands.HistoryCmd(app))
	rootCmd.AddCommand(commands.SendScheduledCmd(app))
	rootCmd.AddCommand(commands.RefreshDashboardCmd(app))
	rootCmd.AddCommand(commands.ActivityLogCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, clients, and the record store. The
// AppContext is created up front and filled in here so the command
// constructors can capture it before flags are parsed.
func initApp() error {
	var err error
	app.Ctx = context.Background()

	// Initialize logger
	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	// Load OAuth client configuration
	app.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}
	app.Logger.Debug("OAuth configuration loaded successfully")

	// Initialize sheets client
	app.Logger.Info("Initializing sheets client")
	app.SheetsClient, err = sheetsclient.NewClient(app.Ctx, oauthCfg)
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %w", err)
	}
	app.Logger.Debug("Sheets client initialized successfully")

	// Initialize gmail client (uses same OAuth token from sheets client)
	app.Logger.Info("Initializing gmail client")
	app.GmailClient, err = gmailclient.NewClient(app.Ctx, oauthCfg, app.SheetsClient.Token(), app.Cfg.GmailUserID, app.Cfg.GmailSender)
	if err != nil {
		return fmt.Errorf("failed to create gmail client: %w", err)
	}
	app.Logger.Debug("Gmail client initialized successfully")

	// Initialize record store schema
	app.Logger.Info("Initializing record store schema")
	schema, err := sheetssql.SchemaFromModels(
		db.Request{},
		db.Assignment{},
		db.Property{},
	)
	if err != nil {
		return fmt.Errorf("failed to create record store schema: %w", err)
	}
	app.Logger.Debug("Record store schema created", zap.Int("tables", len(schema.Tables)))

	// Initialize SheetsSQL database
	app.Logger.Info("Connecting to record store", zap.String("spreadsheet_id", app.Cfg.DatabaseSheetID))
	ssqlDB, err := sheetssql.NewDB(app.SheetsClient, app.Cfg.DatabaseSheetID, schema)
	if err != nil {
		return fmt.Errorf("failed to initialize record store: %w", err)
	}

	// Initialize store layer with the read cache
	app.Store = db.NewStore(ssqlDB, app.Cfg.CacheTTL())
	app.Logger.Info("Record store initialized successfully")

	// Optional persistent activity log
	if app.Cfg.PostgresURL != "" {
		app.Logger.Info("Connecting to activity log database")
		app.Postgres, err = postgres.NewDB(app.Ctx, app.Cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("failed to connect to activity log database: %w", err)
		}
		if err := app.Postgres.RunMigrations(app.Ctx); err != nil {
			return fmt.Errorf("failed to run activity log migrations: %w", err)
		}
		app.Audit = audit.NewLogger(app.Logger, app.Postgres)
	} else {
		app.Audit = audit.NewLogger(app.Logger, nil)
	}

	return nil
}
