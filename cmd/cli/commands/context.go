package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/dashort/ride-sub002/internal/config"
	"github.com/dashort/ride-sub002/pkg/audit"
	"github.com/dashort/ride-sub002/pkg/clients/gmailclient"
	"github.com/dashort/ride-sub002/pkg/clients/sheetsclient"
	"github.com/dashort/ride-sub002/pkg/db"
	"github.com/dashort/ride-sub002/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg          *config.Config
	SheetsClient *sheetsclient.Client
	GmailClient  *gmailclient.Client
	Store        *db.Store
	Postgres     *postgres.DB // nil when no postgres URL is configured
	Audit        *audit.Logger
	Logger       *zap.Logger
	Ctx          context.Context
}
