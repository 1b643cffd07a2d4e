package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashort/ride-sub002/pkg/db"
)

// mockProps is an in-memory db.PropertyStore.
type mockProps struct {
	values map[string]string
}

func newMockProps() *mockProps {
	return &mockProps{values: map[string]string{}}
}

func (m *mockProps) GetProperty(ctx context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", db.ErrNotFound
	}
	return v, nil
}

func (m *mockProps) SetProperty(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func TestDebouncer_SuppressesRapidRepeat(t *testing.T) {
	props := newMockProps()
	now := fixedNow
	d := &Debouncer{Props: props, Now: func() time.Time { return now }}

	ok, err := d.ShouldRun(context.Background(), "edit")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(300 * time.Millisecond)
	ok, err = d.ShouldRun(context.Background(), "edit")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDebouncer_AllowsAfterWindow(t *testing.T) {
	props := newMockProps()
	now := fixedNow
	d := &Debouncer{Props: props, Now: func() time.Time { return now }}

	ok, err := d.ShouldRun(context.Background(), "edit")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(1100 * time.Millisecond)
	ok, err = d.ShouldRun(context.Background(), "edit")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDebouncer_EventsIndependent(t *testing.T) {
	props := newMockProps()
	d := &Debouncer{Props: props, Now: func() time.Time { return fixedNow }}

	ok, err := d.ShouldRun(context.Background(), "edit")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.ShouldRun(context.Background(), "refresh")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDebouncer_GarbagePropertyAllowsRun(t *testing.T) {
	props := newMockProps()
	props.values["debounce_edit"] = "not a timestamp"
	d := &Debouncer{Props: props, Now: func() time.Time { return fixedNow }}

	ok, err := d.ShouldRun(context.Background(), "edit")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRefreshLock_AcquireAndRelease(t *testing.T) {
	l := NewRefreshLock()

	require.True(t, l.TryAcquire(context.Background()))
	l.Release()
	require.True(t, l.TryAcquire(context.Background()))
	l.Release()
}

func TestRefreshLock_HeldLockTimesOut(t *testing.T) {
	l := NewRefreshLock()
	l.timeout = 20 * time.Millisecond

	require.True(t, l.TryAcquire(context.Background()))
	assert.False(t, l.TryAcquire(context.Background()))
	l.Release()
}

func TestRefreshLock_ContextCancelGivesUp(t *testing.T) {
	l := NewRefreshLock()
	require.True(t, l.TryAcquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, l.TryAcquire(ctx))
	l.Release()
}
