package db

import "context"

// RequestStore defines read access to the requests collection.
type RequestStore interface {
	GetRequests(ctx context.Context) ([]Request, error)
	GetRequest(ctx context.Context, id string) (Request, error)
}

// AssignmentStore defines the assignment operations the engine needs:
// full-table reads plus single-cell writes for timestamps, statuses and
// propagated fields.
type AssignmentStore interface {
	GetAssignments(ctx context.Context) ([]Assignment, error)
	GetAssignment(ctx context.Context, id string) (Assignment, error)
	UpdateAssignmentCell(ctx context.Context, id, column string, value interface{}) error
	InvalidateAssignments()
}

// PropertyStore defines persisted key/value state (debounce timestamps).
type PropertyStore interface {
	GetProperty(ctx context.Context, key string) (string, error)
	SetProperty(ctx context.Context, key, value string) error
}

// DispatchStore is the store surface required by notification dispatch and
// reconciliation.
type DispatchStore interface {
	RequestStore
	AssignmentStore
}
