package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dashort/ride-sub002/pkg/core/model"
	"github.com/dashort/ride-sub002/pkg/db"
)

// ClassifyAssignment derives an assignment's notification state from its
// timestamps and rider. Precedence is strict: channel stamps beat the bare
// notified signal, which beats the pending/no-rider distinction.
func ClassifyAssignment(a db.Assignment) model.NotifyState {
	_, smsSent := parseTimestamp(a.SMSSentAt)
	_, emailSent := parseTimestamp(a.EmailSentAt)
	_, notified := parseTimestamp(a.NotifiedAt)

	switch {
	case smsSent && emailSent:
		return model.StateBothSent
	case smsSent:
		return model.StateSMSSent
	case emailSent:
		return model.StateEmailSent
	case notified:
		return model.StateNotified
	}

	if strings.TrimSpace(a.RiderID) == "" && strings.TrimSpace(a.RiderName) == "" {
		return model.StateNoRider
	}
	return model.StatePending
}

// Stats summarizes the notification state of the assignment collection.
type Stats struct {
	Total     int
	Pending   int
	SentToday int
	ByState   map[model.NotifyState]int
}

// HistoryEntry is one assignment's notification record.
type HistoryEntry struct {
	AssignmentID string
	RequestID    string
	RiderName    string
	EventDate    string
	State        model.NotifyState
	SMSSentAt    string
	EmailSentAt  string
	NotifiedAt   string
}

// Reporter computes notification stats and history over the store. It only
// reads; nothing here mutates the collections.
type Reporter struct {
	Store db.AssignmentStore
	Now   func() time.Time
}

// NewReporter creates a Reporter with the real clock.
func NewReporter(store db.AssignmentStore) *Reporter {
	return &Reporter{Store: store, Now: time.Now}
}

// GetStats reduces the assignment collection to totals: overall count,
// rows still pending a notification, and rows notified today.
func (r *Reporter) GetStats(ctx context.Context) (Stats, error) {
	assignments, err := r.Store.GetAssignments(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to load assignments: %w", err)
	}

	stats := Stats{ByState: map[model.NotifyState]int{}}
	today := r.Now()

	for _, a := range assignments {
		stats.Total++
		state := ClassifyAssignment(a)
		stats.ByState[state]++

		if state == model.StatePending {
			stats.Pending++
		}
		if notifiedAt, ok := parseTimestamp(a.NotifiedAt); ok && sameDay(notifiedAt, today) {
			stats.SentToday++
		}
	}

	return stats, nil
}

// GetHistory returns one entry per assignment, in collection order, with
// the derived state and raw timestamps.
func (r *Reporter) GetHistory(ctx context.Context) ([]HistoryEntry, error) {
	assignments, err := r.Store.GetAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(assignments))
	for _, a := range assignments {
		entries = append(entries, HistoryEntry{
			AssignmentID: a.ID,
			RequestID:    a.RequestID,
			RiderName:    a.RiderName,
			EventDate:    a.EventDate,
			State:        ClassifyAssignment(a),
			SMSSentAt:    a.SMSSentAt,
			EmailSentAt:  a.EmailSentAt,
			NotifiedAt:   a.NotifiedAt,
		})
	}
	return entries, nil
}
