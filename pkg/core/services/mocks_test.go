package services

import (
	"context"
	"fmt"

	"github.com/dashort/ride-sub002/internal/config"
	"github.com/dashort/ride-sub002/pkg/core/model"
	"github.com/dashort/ride-sub002/pkg/db"
)

// mockStore implements db.DispatchStore in memory. Cell updates are applied
// to the held assignments so later reads observe them, mirroring the
// cache-invalidation behavior of the real store.
type mockStore struct {
	requests      []db.Request
	assignments   []db.Assignment
	updates       []string // "{id}.{column}={value}" in write order
	invalidations int
	failUpdates   bool
}

func (m *mockStore) GetRequests(ctx context.Context) ([]db.Request, error) {
	return m.requests, nil
}

func (m *mockStore) GetRequest(ctx context.Context, id string) (db.Request, error) {
	for _, r := range m.requests {
		if r.ID == id {
			return r, nil
		}
	}
	return db.Request{}, fmt.Errorf("request %s: %w", id, db.ErrNotFound)
}

func (m *mockStore) GetAssignments(ctx context.Context) ([]db.Assignment, error) {
	return m.assignments, nil
}

func (m *mockStore) GetAssignment(ctx context.Context, id string) (db.Assignment, error) {
	for _, a := range m.assignments {
		if a.ID == id {
			return a, nil
		}
	}
	return db.Assignment{}, fmt.Errorf("assignment %s: %w", id, db.ErrNotFound)
}

func (m *mockStore) UpdateAssignmentCell(ctx context.Context, id, column string, value interface{}) error {
	if m.failUpdates {
		return fmt.Errorf("update refused")
	}

	for i := range m.assignments {
		if m.assignments[i].ID != id {
			continue
		}
		str := fmt.Sprintf("%v", value)
		switch column {
		case "sms_sent_at":
			m.assignments[i].SMSSentAt = str
		case "email_sent_at":
			m.assignments[i].EmailSentAt = str
		case "notified_at":
			m.assignments[i].NotifiedAt = str
		case "status":
			m.assignments[i].Status = str
		case "event_date":
			m.assignments[i].EventDate = str
		case "start_time":
			m.assignments[i].StartTime = str
		case "start_location":
			m.assignments[i].StartLocation = str
		case "second_location":
			m.assignments[i].SecondLocation = str
		case "end_location":
			m.assignments[i].EndLocation = str
		case "notes":
			m.assignments[i].Notes = str
		default:
			return fmt.Errorf("unknown column %s", column)
		}
		m.updates = append(m.updates, fmt.Sprintf("%s.%s=%s", id, column, str))
		return nil
	}
	return fmt.Errorf("assignment %s: %w", id, db.ErrNotFound)
}

func (m *mockStore) InvalidateAssignments() {
	m.invalidations++
}

// updatesFor returns the recorded updates for one assignment id.
func (m *mockStore) updatesFor(id string) []string {
	var out []string
	for _, u := range m.updates {
		if len(u) > len(id) && u[:len(id)] == id && u[len(id)] == '.' {
			out = append(out, u)
		}
	}
	return out
}

// mockRiderClient serves a fixed roster
type mockRiderClient struct {
	riders []model.Rider
	err    error
}

func (m *mockRiderClient) ListRiders(cfg *config.Config) ([]model.Rider, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.riders, nil
}

// sentMessage records one gateway send
type sentMessage struct {
	to      string
	subject string
	body    string
}

// mockMessenger records sends and can fail for specific addresses
type mockMessenger struct {
	sent    []sentMessage
	failFor map[string]bool
}

func (m *mockMessenger) Send(to, subject, body string) error {
	if m.failFor[to] {
		return fmt.Errorf("gateway refused %s", to)
	}
	m.sent = append(m.sent, sentMessage{to: to, subject: subject, body: body})
	return nil
}

func (m *mockMessenger) sentTo() []string {
	addrs := make([]string, len(m.sent))
	for i, s := range m.sent {
		addrs[i] = s.to
	}
	return addrs
}
