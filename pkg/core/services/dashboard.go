package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dashort/ride-sub002/pkg/core/model"
)

// DashboardWriter writes a block of rows to a dashboard tab.
type DashboardWriter interface {
	WriteDashboard(tab string, rows [][]interface{}) error
}

// Dashboard recomputes notification stats and renders them onto a dashboard
// tab. Concurrent refreshes are collapsed by the lock: a caller that cannot
// take it within the timeout skips the refresh, trusting the holder to
// leave a fresh dashboard behind.
type Dashboard struct {
	Reporter *Reporter
	Writer   DashboardWriter
	Lock     *RefreshLock
	Logger   *zap.Logger
	Tab      string
}

// NewDashboard creates a Dashboard with its own refresh lock.
func NewDashboard(reporter *Reporter, writer DashboardWriter, logger *zap.Logger, tab string) *Dashboard {
	return &Dashboard{
		Reporter: reporter,
		Writer:   writer,
		Lock:     NewRefreshLock(),
		Logger:   logger,
		Tab:      tab,
	}
}

// Refresh recomputes the stats block and writes it out. It reports whether
// a refresh actually ran; false means the lock was held and the refresh
// was skipped.
func (d *Dashboard) Refresh(ctx context.Context) (bool, error) {
	if !d.Lock.TryAcquire(ctx) {
		d.Logger.Info("Dashboard refresh already in progress, skipping")
		return false, nil
	}
	defer d.Lock.Release()

	stats, err := d.Reporter.GetStats(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}

	if err := d.Writer.WriteDashboard(d.Tab, dashboardRows(stats, d.Reporter.Now())); err != nil {
		return false, err
	}

	d.Logger.Info("Dashboard refreshed",
		zap.String("tab", d.Tab),
		zap.Int("total", stats.Total),
		zap.Int("pending", stats.Pending))
	return true, nil
}

// dashboardRows renders the stats block. Row layout is fixed so operators
// can point charts at stable cells.
func dashboardRows(stats Stats, now time.Time) [][]interface{} {
	rows := [][]interface{}{
		{"Notification Dashboard", ""},
		{"Refreshed", formatTimestamp(now)},
		{"", ""},
		{"Total assignments", stats.Total},
		{"Pending notification", stats.Pending},
		{"Notified today", stats.SentToday},
		{"", ""},
		{"By state", ""},
	}

	for _, state := range []model.NotifyState{
		model.StateBothSent,
		model.StateSMSSent,
		model.StateEmailSent,
		model.StateNotified,
		model.StatePending,
		model.StateNoRider,
	} {
		rows = append(rows, []interface{}{string(state), stats.ByState[state]})
	}
	return rows
}
