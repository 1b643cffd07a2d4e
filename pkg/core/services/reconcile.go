package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dashort/ride-sub002/pkg/audit"
	"github.com/dashort/ride-sub002/pkg/core/model"
	"github.com/dashort/ride-sub002/pkg/db"
)

// Reconciler keeps assignment rows consistent with their parent request:
// it propagates edited request fields to the duplicated assignment columns
// and backfills missing assignment statuses.
type Reconciler struct {
	Store  db.DispatchStore
	Logger *zap.Logger
	Audit  *audit.Logger
	Now    func() time.Time
}

// NewReconciler creates a Reconciler with the real clock.
func NewReconciler(store db.DispatchStore, logger *zap.Logger, auditLog *audit.Logger) *Reconciler {
	return &Reconciler{Store: store, Logger: logger, Audit: auditLog, Now: time.Now}
}

// FieldChanges carries the request fields to push down to assignments. Nil
// fields are left untouched on every row.
type FieldChanges struct {
	EventDate      *string
	StartTime      *string
	StartLocation  *string
	SecondLocation *string
	EndLocation    *string
	Notes          *string
}

// ReconcileResult summarizes one reconciliation pass.
type ReconcileResult struct {
	Examined int
	Updated  int
	Skipped  int
	Failed   int
}

// PropagateRequestFields overwrites the duplicated request fields on every
// assignment whose request id matches exactly. Fields absent from the
// change-set are skipped, and rows already holding the new values are not
// rewritten, so repeated runs are no-ops. A failing row is logged and the
// pass continues.
func (r *Reconciler) PropagateRequestFields(ctx context.Context, requestID string, changes FieldChanges) (ReconcileResult, error) {
	assignments, err := r.Store.GetAssignments(ctx)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("failed to load assignments: %w", err)
	}

	var result ReconcileResult
	for _, a := range assignments {
		if a.RequestID != requestID {
			continue
		}
		result.Examined++

		updates := map[string]interface{}{}
		applyChange(updates, "event_date", changes.EventDate, a.EventDate)
		applyChange(updates, "start_time", changes.StartTime, a.StartTime)
		applyChange(updates, "start_location", changes.StartLocation, a.StartLocation)
		applyChange(updates, "second_location", changes.SecondLocation, a.SecondLocation)
		applyChange(updates, "end_location", changes.EndLocation, a.EndLocation)
		applyChange(updates, "notes", changes.Notes, a.Notes)

		if len(updates) == 0 {
			result.Skipped++
			continue
		}

		if err := r.updateCells(ctx, a.ID, updates); err != nil {
			result.Failed++
			r.Logger.Error("Failed to propagate request fields",
				zap.String("assignment_id", a.ID),
				zap.Error(err))
			continue
		}
		result.Updated++
	}

	if result.Updated > 0 {
		r.Store.InvalidateAssignments()
	}
	r.Audit.Activity(ctx,
		fmt.Sprintf("Propagated request %s fields: %d updated, %d failed", requestID, result.Updated, result.Failed),
		fmt.Sprintf("%d assignments examined", result.Examined))

	return result, nil
}

// applyChange stages one cell write when the change is present and differs
// from the current value.
func applyChange(updates map[string]interface{}, column string, change *string, current string) {
	if change == nil || *change == current {
		return
	}
	updates[column] = *change
}

func (r *Reconciler) updateCells(ctx context.Context, assignmentID string, updates map[string]interface{}) error {
	for column, value := range updates {
		if err := r.Store.UpdateAssignmentCell(ctx, assignmentID, column, value); err != nil {
			return fmt.Errorf("column %s: %w", column, err)
		}
	}
	return nil
}

// RepairStatuses backfills the status of every assignment whose status cell
// is blank, derived from the parent request. Set statuses are never
// overwritten: a manual override survives every repair pass.
func (r *Reconciler) RepairStatuses(ctx context.Context) (ReconcileResult, error) {
	assignments, err := r.Store.GetAssignments(ctx)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("failed to load assignments: %w", err)
	}
	requests, err := r.Store.GetRequests(ctx)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("failed to load requests: %w", err)
	}

	requestsByID := make(map[string]db.Request, len(requests))
	for _, req := range requests {
		requestsByID[req.ID] = req
	}

	var result ReconcileResult
	for _, a := range assignments {
		if model.StatusOf(a.Status).Set {
			continue
		}
		result.Examined++

		parent, ok := requestsByID[a.RequestID]
		if !ok {
			result.Skipped++
			r.Logger.Debug("Assignment has no parent request, leaving status unset",
				zap.String("assignment_id", a.ID),
				zap.String("request_id", a.RequestID))
			continue
		}

		repaired := r.derivedStatus(a, parent)
		if repaired == "" {
			result.Skipped++
			continue
		}

		if err := r.Store.UpdateAssignmentCell(ctx, a.ID, "status", repaired); err != nil {
			result.Failed++
			r.Logger.Error("Failed to repair assignment status",
				zap.String("assignment_id", a.ID),
				zap.Error(err))
			continue
		}
		result.Updated++
	}

	if result.Updated > 0 {
		r.Store.InvalidateAssignments()
	}
	r.Audit.Activity(ctx,
		fmt.Sprintf("Repaired statuses: %d updated, %d failed", result.Updated, result.Failed),
		fmt.Sprintf("%d blank rows examined", result.Examined))

	return result, nil
}

// derivedStatus maps a parent request status onto a blank assignment row.
func (r *Reconciler) derivedStatus(a db.Assignment, parent db.Request) string {
	hasRider := strings.TrimSpace(a.RiderID) != "" || strings.TrimSpace(a.RiderName) != ""
	parentStatus := strings.TrimSpace(parent.Status)

	switch parentStatus {
	case model.StatusCompleted:
		if hasRider {
			return model.StatusCompleted
		}
		return model.StatusCompletedNoRider

	case model.StatusCancelled:
		return model.StatusCancelled

	case model.StatusAssigned:
		if !hasRider {
			return model.StatusPendingAssignment
		}
		day, err := parseEventDate(a.EventDate)
		if err == nil && dayOf(day).Before(dayOf(r.Now())) {
			return model.StatusCompleted
		}
		return model.StatusAssigned
	}

	return parentStatus
}
