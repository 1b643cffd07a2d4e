package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dashort/ride-sub002/pkg/core/model"
	"github.com/dashort/ride-sub002/pkg/db"
)

// maxBatchErrors caps how many failure descriptions a batch result carries.
// Counting continues past the cap.
const maxBatchErrors = 10

// Selector picks which assignments a bulk run targets. Exactly one mode is
// active: explicit IDs, a date range, or a state filter.
type Selector struct {
	IDs      []string
	Range    DateRange
	Pending  bool
	Assigned bool
}

// DateRange selects assignments by event day.
type DateRange string

const (
	RangeNone  DateRange = ""
	RangeToday DateRange = "today"
	RangeWeek  DateRange = "week"
)

// Description names the selector for logs and the batch summary message.
func (s Selector) Description() string {
	switch {
	case len(s.IDs) > 0:
		return fmt.Sprintf("%d selected assignments", len(s.IDs))
	case s.Range == RangeToday:
		return "today's assignments"
	case s.Range == RangeWeek:
		return "this week's assignments"
	case s.Pending:
		return "pending assignments"
	case s.Assigned:
		return "assigned riders"
	}
	return "no assignments"
}

// NotifyAll dispatches notifications to every assignment the selector
// matches, in collection order. A "Both" run makes two independent attempts
// per target (SMS then email), each with its own tally. The batch never
// aborts early: per-target errors and panics are recovered into the failure
// count.
func (n *Notifier) NotifyAll(ctx context.Context, selector Selector, channel model.Channel) (model.BatchResult, error) {
	batchID := uuid.New().String()
	description := selector.Description()

	n.Logger.Info("Starting bulk notification run",
		zap.String("batch_id", batchID),
		zap.String("channel", string(channel)),
		zap.String("selector", description))

	targets, err := n.selectTargets(ctx, selector)
	if err != nil {
		return model.BatchResult{}, fmt.Errorf("failed to select targets: %w", err)
	}

	var result model.BatchResult
	pacer := newPacer(n.Cfg.RateLimitBatchSize, n.Cfg.RateLimitPause(), n.Sleep)

	for i, target := range targets {
		if channel == model.ChannelBoth {
			n.notifyOne(ctx, target, model.ChannelSMS, &result)
			n.notifyOne(ctx, target, model.ChannelEmail, &result)
		} else {
			n.notifyOne(ctx, target, channel, &result)
		}
		// No point pausing after the last target
		if i < len(targets)-1 {
			pacer.processed()
		}
	}

	result.Message = fmt.Sprintf("%s for %s: %d successful, %d failed",
		channel, description, result.Successful, result.Failed)
	n.Audit.Activity(ctx, result.Message, "batch "+batchID)

	return result, nil
}

// notifyOne runs a single-channel dispatch for one target, folding the
// outcome into the batch tallies. A panic inside the dispatch counts as a
// failure for that target instead of taking down the run.
func (n *Notifier) notifyOne(ctx context.Context, target db.Assignment, channel model.Channel, result *model.BatchResult) {
	defer func() {
		if r := recover(); r != nil {
			n.Logger.Error("Recovered panic during bulk dispatch",
				zap.String("assignment_id", target.ID),
				zap.Any("panic", r))
			recordFailure(result, channel, target, fmt.Sprintf("%v", r))
		}
	}()

	dispatched, err := n.Dispatch(ctx, target.ID, channel)
	if err != nil {
		recordFailure(result, channel, target, err.Error())
		return
	}
	if !dispatched.Success {
		recordFailure(result, channel, target, dispatched.Message)
		return
	}
	result.Successful++
}

func recordFailure(result *model.BatchResult, channel model.Channel, target db.Assignment, message string) {
	result.Failed++
	if len(result.Errors) < maxBatchErrors {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s to %s (%s): %s", channel, target.RiderName, target.RequestID, message))
	}
}

// selectTargets loads the assignment collection and filters it per the
// selector, preserving collection order.
func (n *Notifier) selectTargets(ctx context.Context, selector Selector) ([]db.Assignment, error) {
	assignments, err := n.Store.GetAssignments(ctx)
	if err != nil {
		return nil, err
	}

	if len(selector.IDs) > 0 {
		wanted := make(map[string]bool, len(selector.IDs))
		for _, id := range selector.IDs {
			wanted[id] = true
		}
		var out []db.Assignment
		for _, a := range assignments {
			if wanted[a.ID] {
				out = append(out, a)
			}
		}
		return out, nil
	}

	var out []db.Assignment
	for _, a := range assignments {
		if n.matches(a, selector) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (n *Notifier) matches(a db.Assignment, selector Selector) bool {
	hasRider := strings.TrimSpace(a.RiderID) != "" || strings.TrimSpace(a.RiderName) != ""

	switch {
	case selector.Range != RangeNone:
		if !hasRider || model.IsTerminalStatus(strings.TrimSpace(a.Status)) {
			return false
		}
		day, err := parseEventDate(a.EventDate)
		if err != nil {
			return false
		}
		today := dayOf(n.Now())
		switch selector.Range {
		case RangeToday:
			return sameDay(day, today)
		case RangeWeek:
			end := today.AddDate(0, 0, 7)
			d := dayOf(day)
			return !d.Before(today) && !d.After(end)
		}
		return false

	case selector.Pending:
		if !hasRider || !model.IsActiveStatus(strings.TrimSpace(a.Status)) {
			return false
		}
		_, smsSent := parseTimestamp(a.SMSSentAt)
		_, emailSent := parseTimestamp(a.EmailSentAt)
		_, notified := parseTimestamp(a.NotifiedAt)
		return !smsSent && !emailSent && !notified

	case selector.Assigned:
		return hasRider && !model.IsTerminalStatus(strings.TrimSpace(a.Status))
	}

	return false
}

// pacer pauses after every batchSize processed targets so the gateway's
// send quota is not burned through in one burst. Callers skip the final
// target's call so a run never ends on an idle pause.
type pacer struct {
	batchSize int
	pause     func()
	count     int
}

func newPacer(batchSize int, pause time.Duration, sleep func(time.Duration)) *pacer {
	return &pacer{
		batchSize: batchSize,
		pause:     func() { sleep(pause) },
	}
}

func (p *pacer) processed() {
	p.count++
	if p.batchSize > 0 && p.count%p.batchSize == 0 {
		p.pause()
	}
}
