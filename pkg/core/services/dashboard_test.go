package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dashort/ride-sub002/pkg/db"
)

// mockDashboardWriter captures dashboard writes.
type mockDashboardWriter struct {
	tab  string
	rows [][]interface{}
}

func (m *mockDashboardWriter) WriteDashboard(tab string, rows [][]interface{}) error {
	m.tab = tab
	m.rows = rows
	return nil
}

func TestDashboardRefresh(t *testing.T) {
	store := &mockStore{
		assignments: []db.Assignment{
			{ID: "A-0001", RiderName: "Jane", SMSSentAt: "2025-06-01 09:00:00", NotifiedAt: "2025-06-01 09:00:00"},
			{ID: "A-0002", RiderName: "Jane"},
		},
	}
	writer := &mockDashboardWriter{}
	reporter := &Reporter{Store: store, Now: func() time.Time { return fixedNow }}
	d := NewDashboard(reporter, writer, zap.NewNop(), "dashboard")

	ran, err := d.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)

	assert.Equal(t, "dashboard", writer.tab)
	require.NotEmpty(t, writer.rows)
	assert.Equal(t, []interface{}{"Total assignments", 2}, writer.rows[3])
	assert.Equal(t, []interface{}{"Pending notification", 1}, writer.rows[4])
	assert.Equal(t, []interface{}{"Notified today", 1}, writer.rows[5])
}

func TestDashboardRefresh_SkipsWhenLockHeld(t *testing.T) {
	store := &mockStore{}
	writer := &mockDashboardWriter{}
	reporter := &Reporter{Store: store, Now: func() time.Time { return fixedNow }}
	d := NewDashboard(reporter, writer, zap.NewNop(), "dashboard")
	d.Lock.timeout = 10 * time.Millisecond

	require.True(t, d.Lock.TryAcquire(context.Background()))
	defer d.Lock.Release()

	ran, err := d.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Empty(t, writer.rows)
}
