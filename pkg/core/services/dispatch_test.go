package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dashort/ride-sub002/internal/config"
	"github.com/dashort/ride-sub002/pkg/audit"
	"github.com/dashort/ride-sub002/pkg/core/model"
	"github.com/dashort/ride-sub002/pkg/db"
)

var fixedNow = time.Date(2025, 6, 1, 10, 30, 45, 123, time.UTC)

func testNotifier(store *mockStore, riders *mockRiderClient, messenger *mockMessenger) *Notifier {
	cfg := &config.Config{
		DefaultSMSDomain:   "vtext.com",
		RateLimitBatchSize: 5,
		RateLimitPauseMs:   1000,
	}
	logger := zap.NewNop()
	return &Notifier{
		Store:     store,
		Riders:    riders,
		Messenger: messenger,
		Cfg:       cfg,
		Logger:    logger,
		Audit:     audit.NewLogger(logger, nil),
		Now:       func() time.Time { return fixedNow },
		Sleep:     func(time.Duration) {},
	}
}

func dispatchFixtures() (*mockStore, *mockRiderClient, *mockMessenger) {
	store := &mockStore{
		requests: []db.Request{
			{ID: "B-02-01", Status: "Assigned", Courtesy: "No", Notes: ""},
		},
		assignments: []db.Assignment{
			{
				ID:            "A-0001",
				RequestID:     "B-02-01",
				RiderID:       "R-001",
				RiderName:     "Jane Doe",
				EventDate:     "2025-06-01",
				StartTime:     "14:00",
				StartLocation: "Depot",
				EndLocation:   "City Hall",
				Status:        "Assigned",
			},
		},
	}
	riders := &mockRiderClient{
		riders: []model.Rider{
			{ID: "R-001", Name: "Jane Doe", Phone: "504-555-1234", Carrier: "Verizon", Email: "jane@example.com", Status: "Active"},
		},
	}
	return store, riders, &mockMessenger{}
}

func TestDispatch_SMSSuccess(t *testing.T) {
	store, riders, messenger := dispatchFixtures()
	n := testNotifier(store, riders, messenger)

	result, err := n.Dispatch(context.Background(), "A-0001", model.ChannelSMS)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, model.CodeOK, result.Code)
	assert.True(t, result.SMSSent)
	assert.False(t, result.EmailSent)

	require.Len(t, messenger.sent, 1)
	msg := messenger.sent[0]
	assert.Equal(t, "5045551234@vtext.com", msg.to)
	assert.Contains(t, msg.body, "A-0001")
	assert.Contains(t, msg.body, "B-02-01")
	assert.Contains(t, msg.body, "Jane Doe")

	// smsSentAt and notifiedAt are stamped with the same second
	a, err := store.GetAssignment(context.Background(), "A-0001")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01 10:30:45", a.SMSSentAt)
	assert.Equal(t, a.SMSSentAt, a.NotifiedAt)
	assert.Empty(t, a.EmailSentAt)
	assert.Greater(t, store.invalidations, 0)
}

func TestDispatch_EmailSuccess(t *testing.T) {
	store, riders, messenger := dispatchFixtures()
	n := testNotifier(store, riders, messenger)

	result, err := n.Dispatch(context.Background(), "A-0001", model.ChannelEmail)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"jane@example.com"}, messenger.sentTo())

	a, _ := store.GetAssignment(context.Background(), "A-0001")
	assert.Empty(t, a.SMSSentAt)
	assert.NotEmpty(t, a.EmailSentAt)
	assert.Equal(t, a.EmailSentAt, a.NotifiedAt)
}

func TestDispatch_NotFound(t *testing.T) {
	store, riders, messenger := dispatchFixtures()
	n := testNotifier(store, riders, messenger)

	result, err := n.Dispatch(context.Background(), "A-9999", model.ChannelSMS)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, model.CodeNotFound, result.Code)
	assert.Empty(t, messenger.sent)
}

func TestDispatch_MissingRider(t *testing.T) {
	store, riders, messenger := dispatchFixtures()
	store.assignments[0].RiderID = ""
	store.assignments[0].RiderName = "  "
	n := testNotifier(store, riders, messenger)

	result, err := n.Dispatch(context.Background(), "A-0001", model.ChannelSMS)
	require.NoError(t, err)

	assert.Equal(t, model.CodeMissingRider, result.Code)
	assert.Empty(t, messenger.sent)
}

func TestDispatch_RiderNotFound(t *testing.T) {
	store, riders, messenger := dispatchFixtures()
	store.assignments[0].RiderID = ""
	store.assignments[0].RiderName = "Nobody Known"
	n := testNotifier(store, riders, messenger)

	result, err := n.Dispatch(context.Background(), "A-0001", model.ChannelSMS)
	require.NoError(t, err)

	assert.Equal(t, model.CodeRiderNotFound, result.Code)
	assert.Empty(t, messenger.sent)
}

func TestDispatch_AmbiguousRider(t *testing.T) {
	store, riders, messenger := dispatchFixtures()
	store.assignments[0].RiderID = ""
	riders.riders = append(riders.riders, model.Rider{ID: "R-002", Name: "Jane Doe", Phone: "504-555-9999"})
	n := testNotifier(store, riders, messenger)

	result, err := n.Dispatch(context.Background(), "A-0001", model.ChannelSMS)
	require.NoError(t, err)

	assert.Equal(t, model.CodeAmbiguousRider, result.Code)
	assert.Empty(t, messenger.sent)
}

func TestDispatch_NoContactInfo(t *testing.T) {
	store, riders, messenger := dispatchFixtures()
	riders.riders[0].Phone = ""
	riders.riders[0].Email = ""
	n := testNotifier(store, riders, messenger)

	result, err := n.Dispatch(context.Background(), "A-0001", model.ChannelBoth)
	require.NoError(t, err)

	assert.Equal(t, model.CodeNoContactInfo, result.Code)
	assert.Empty(t, messenger.sent)
}

func TestDispatch_InvalidPhoneNeverReachesGateway(t *testing.T) {
	store, riders, messenger := dispatchFixtures()
	riders.riders[0].Phone = "555-1234" // 7 digits
	n := testNotifier(store, riders, messenger)

	result, err := n.Dispatch(context.Background(), "A-0001", model.ChannelSMS)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, model.CodeInvalidPhone, result.Code)
	assert.Empty(t, messenger.sent)

	// No side effects on validation failure
	a, _ := store.GetAssignment(context.Background(), "A-0001")
	assert.Empty(t, a.SMSSentAt)
	assert.Empty(t, a.NotifiedAt)
}

func TestDispatch_InvalidEmail(t *testing.T) {
	store, riders, messenger := dispatchFixtures()
	riders.riders[0].Email = "not-an-address"
	n := testNotifier(store, riders, messenger)

	result, err := n.Dispatch(context.Background(), "A-0001", model.ChannelEmail)
	require.NoError(t, err)

	assert.Equal(t, model.CodeInvalidEmail, result.Code)
	assert.Empty(t, messenger.sent)
}

func TestDispatch_TransportFailure(t *testing.T) {
	store, riders, messenger := dispatchFixtures()
	messenger.failFor = map[string]bool{"5045551234@vtext.com": true}
	n := testNotifier(store, riders, messenger)

	result, err := n.Dispatch(context.Background(), "A-0001", model.ChannelSMS)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, model.CodeTransportFailure, result.Code)

	a, _ := store.GetAssignment(context.Background(), "A-0001")
	assert.Empty(t, a.SMSSentAt)
	assert.Empty(t, a.NotifiedAt)
}

func TestDispatch_BothRequiresBothChannels(t *testing.T) {
	store, riders, messenger := dispatchFixtures()
	messenger.failFor = map[string]bool{"5045551234@vtext.com": true}
	n := testNotifier(store, riders, messenger)

	result, err := n.Dispatch(context.Background(), "A-0001", model.ChannelBoth)
	require.NoError(t, err)

	// SMS failed, email succeeded: the aggregate is a failure but the email
	// timestamp (and the union signal) are still stamped
	assert.False(t, result.Success)
	assert.False(t, result.SMSSent)
	assert.True(t, result.EmailSent)
	assert.Contains(t, result.Message, "jane@example.com")

	a, _ := store.GetAssignment(context.Background(), "A-0001")
	assert.Empty(t, a.SMSSentAt)
	assert.NotEmpty(t, a.EmailSentAt)
	assert.NotEmpty(t, a.NotifiedAt)
}

func TestDispatch_BothSuccess(t *testing.T) {
	store, riders, messenger := dispatchFixtures()
	n := testNotifier(store, riders, messenger)

	result, err := n.Dispatch(context.Background(), "A-0001", model.ChannelBoth)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"5045551234@vtext.com", "jane@example.com"}, messenger.sentTo())

	a, _ := store.GetAssignment(context.Background(), "A-0001")
	assert.Equal(t, a.SMSSentAt, a.EmailSentAt)
	assert.Equal(t, a.SMSSentAt, a.NotifiedAt)
}

func TestDispatch_CourtesyBannerAndNotes(t *testing.T) {
	store, riders, messenger := dispatchFixtures()
	store.requests[0].Courtesy = "Yes"
	store.requests[0].Notes = "Call dispatcher on arrival"
	n := testNotifier(store, riders, messenger)

	_, err := n.Dispatch(context.Background(), "A-0001", model.ChannelSMS)
	require.NoError(t, err)

	require.Len(t, messenger.sent, 1)
	body := messenger.sent[0].body
	assert.Contains(t, body, "COURTESY")
	assert.Contains(t, body, "Call dispatcher on arrival")
}

func TestDispatch_NoCourtesyBannerWhenNo(t *testing.T) {
	store, riders, messenger := dispatchFixtures()
	n := testNotifier(store, riders, messenger)

	_, err := n.Dispatch(context.Background(), "A-0001", model.ChannelSMS)
	require.NoError(t, err)

	require.Len(t, messenger.sent, 1)
	assert.NotContains(t, messenger.sent[0].body, "COURTESY")
}
