package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dashort/ride-sub002/pkg/db"
)

// debounceWindow is how long after one trigger a second trigger of the same
// event is ignored. The spreadsheet fires edit triggers in bursts; one
// second is enough to collapse them.
const debounceWindow = time.Second

// Debouncer suppresses rapid repeat triggers. The last-trigger time is
// persisted in the property table so the suppression survives across
// process invocations, matching how the triggers actually arrive.
type Debouncer struct {
	Props db.PropertyStore
	Now   func() time.Time
}

// NewDebouncer creates a Debouncer with the real clock.
func NewDebouncer(props db.PropertyStore) *Debouncer {
	return &Debouncer{Props: props, Now: time.Now}
}

// ShouldRun reports whether the named event may run now, and records the
// trigger time when it may. A trigger within the debounce window of the
// previous one is rejected.
func (d *Debouncer) ShouldRun(ctx context.Context, event string) (bool, error) {
	key := "debounce_" + event
	now := d.Now()

	last, err := d.Props.GetProperty(ctx, key)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return false, fmt.Errorf("failed to read debounce property %s: %w", key, err)
	}
	if err == nil {
		if lastAt, ok := parseTimestampNanos(last); ok && now.Sub(lastAt) < debounceWindow {
			return false, nil
		}
	}

	if err := d.Props.SetProperty(ctx, key, formatTimestampNanos(now)); err != nil {
		return false, fmt.Errorf("failed to record debounce property %s: %w", key, err)
	}
	return true, nil
}

// Debounce timestamps need sub-second precision, unlike the notification
// stamps, so they are stored as RFC 3339 with nanoseconds.
func formatTimestampNanos(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTimestampNanos(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// refreshLockTimeout is how long an acquirer waits for the dashboard
// refresh lock before giving up.
const refreshLockTimeout = 10 * time.Second

// RefreshLock serializes dashboard refreshes. Acquisition waits up to the
// timeout and then reports failure; callers skip the refresh rather than
// retry, since the holder will leave a fresh dashboard behind anyway.
type RefreshLock struct {
	slot    chan struct{}
	timeout time.Duration
}

// NewRefreshLock creates an unheld RefreshLock.
func NewRefreshLock() *RefreshLock {
	l := &RefreshLock{
		slot:    make(chan struct{}, 1),
		timeout: refreshLockTimeout,
	}
	l.slot <- struct{}{}
	return l
}

// TryAcquire attempts to take the lock, waiting up to the timeout. It
// returns false when the lock could not be taken; the context cancelling
// also gives up.
func (l *RefreshLock) TryAcquire(ctx context.Context) bool {
	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case <-l.slot:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

// Release returns the lock. Only call after a successful TryAcquire.
func (l *RefreshLock) Release() {
	l.slot <- struct{}{}
}
