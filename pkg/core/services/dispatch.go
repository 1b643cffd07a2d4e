package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dashort/ride-sub002/internal/config"
	"github.com/dashort/ride-sub002/pkg/audit"
	"github.com/dashort/ride-sub002/pkg/core/model"
	"github.com/dashort/ride-sub002/pkg/db"
)

// Messenger sends one message through the gateway. The address may be a
// plain email or a carrier SMS relay address.
type Messenger interface {
	Send(to, subject, body string) error
}

// Notifier dispatches assignment notifications. Now and Sleep exist so
// tests can control timestamps and skip real rate-limit pauses; production
// callers use NewNotifier which wires the real clock.
type Notifier struct {
	Store     db.DispatchStore
	Riders    RiderClient
	Messenger Messenger
	Cfg       *config.Config
	Logger    *zap.Logger
	Audit     *audit.Logger
	Now       func() time.Time
	Sleep     func(time.Duration)
}

// NewNotifier creates a Notifier with the real clock and sleeper.
func NewNotifier(store db.DispatchStore, riders RiderClient, messenger Messenger, cfg *config.Config, logger *zap.Logger, auditLog *audit.Logger) *Notifier {
	return &Notifier{
		Store:     store,
		Riders:    riders,
		Messenger: messenger,
		Cfg:       cfg,
		Logger:    logger,
		Audit:     auditLog,
		Now:       time.Now,
		Sleep:     time.Sleep,
	}
}

// Dispatch sends one notification for an assignment over the requested
// channel(s). Every failure mode is reported in the result; the returned
// error is reserved for infrastructure problems (an unreadable collection).
// For ChannelBoth the result is successful only when both channels succeed.
func (n *Notifier) Dispatch(ctx context.Context, assignmentID string, channel model.Channel) (model.DispatchResult, error) {
	n.Logger.Debug("Dispatching notification",
		zap.String("assignment_id", assignmentID),
		zap.String("channel", string(channel)))

	assignment, err := n.Store.GetAssignment(ctx, assignmentID)
	if errors.Is(err, db.ErrNotFound) {
		return failure(model.CodeNotFound, fmt.Sprintf("assignment %s not found", assignmentID)), nil
	}
	if err != nil {
		return model.DispatchResult{}, fmt.Errorf("failed to load assignment %s: %w", assignmentID, err)
	}

	if strings.TrimSpace(assignment.RiderID) == "" && strings.TrimSpace(assignment.RiderName) == "" {
		return failure(model.CodeMissingRider, fmt.Sprintf("assignment %s has no rider", assignmentID)), nil
	}

	riders, err := n.Riders.ListRiders(n.Cfg)
	if err != nil {
		return model.DispatchResult{}, fmt.Errorf("failed to load rider roster: %w", err)
	}

	contact, err := ResolveContact(riders, assignment.RiderID, assignment.RiderName)
	if errors.Is(err, ErrAmbiguousRider) {
		return failure(model.CodeAmbiguousRider, fmt.Sprintf("rider %q matches multiple roster entries", assignment.RiderName)), nil
	}
	if err != nil {
		return failure(model.CodeRiderNotFound, fmt.Sprintf("rider %q not found in roster", assignment.RiderName)), nil
	}

	if contact.Phone == "" && contact.Email == "" {
		return failure(model.CodeNoContactInfo, fmt.Sprintf("rider %q has no phone or email", assignment.RiderName)), nil
	}

	body := n.buildMessageBody(ctx, assignment)
	subject := "Escort Assignment " + assignment.ID

	var smsOutcome, emailOutcome channelOutcome
	if channel == model.ChannelSMS || channel == model.ChannelBoth {
		smsOutcome = n.sendSMS(contact, subject, body)
	}
	if channel == model.ChannelEmail || channel == model.ChannelBoth {
		emailOutcome = n.sendEmail(contact, subject, body)
	}

	n.stampTimestamps(ctx, assignment.ID, smsOutcome.sent, emailOutcome.sent)

	return n.aggregate(channel, smsOutcome, emailOutcome), nil
}

// channelOutcome is the result of one channel attempt within a dispatch.
type channelOutcome struct {
	attempted bool
	sent      bool
	code      model.ResultCode
	message   string
}

func (n *Notifier) sendSMS(contact model.Contact, subject, body string) channelOutcome {
	addr, err := SMSAddress(contact.Phone, contact.Carrier, n.Cfg)
	if err != nil {
		// Validation failure: the gateway is never contacted
		return channelOutcome{attempted: true, code: model.CodeInvalidPhone, message: err.Error()}
	}

	if err := n.Messenger.Send(addr, subject, body); err != nil {
		return channelOutcome{attempted: true, code: model.CodeTransportFailure, message: fmt.Sprintf("SMS to %s failed: %v", addr, err)}
	}

	return channelOutcome{attempted: true, sent: true, code: model.CodeOK, message: "SMS sent to " + addr}
}

func (n *Notifier) sendEmail(contact model.Contact, subject, body string) channelOutcome {
	if !strings.Contains(contact.Email, "@") {
		return channelOutcome{attempted: true, code: model.CodeInvalidEmail, message: fmt.Sprintf("invalid email address %q", contact.Email)}
	}

	if err := n.Messenger.Send(contact.Email, subject, body); err != nil {
		return channelOutcome{attempted: true, code: model.CodeTransportFailure, message: fmt.Sprintf("email to %s failed: %v", contact.Email, err)}
	}

	return channelOutcome{attempted: true, sent: true, code: model.CodeOK, message: "email sent to " + contact.Email}
}

// stampTimestamps writes the per-channel sent timestamps plus the union
// notified_at signal. A write failure is logged but does not undo a send
// that already happened.
func (n *Notifier) stampTimestamps(ctx context.Context, assignmentID string, smsSent, emailSent bool) {
	if !smsSent && !emailSent {
		return
	}

	stamp := formatTimestamp(n.Now())

	if smsSent {
		if err := n.Store.UpdateAssignmentCell(ctx, assignmentID, "sms_sent_at", stamp); err != nil {
			n.Audit.Error(ctx, "failed to stamp sms_sent_at for "+assignmentID, err)
		}
	}
	if emailSent {
		if err := n.Store.UpdateAssignmentCell(ctx, assignmentID, "email_sent_at", stamp); err != nil {
			n.Audit.Error(ctx, "failed to stamp email_sent_at for "+assignmentID, err)
		}
	}
	// notified_at is the union signal: set whenever either channel went out
	if err := n.Store.UpdateAssignmentCell(ctx, assignmentID, "notified_at", stamp); err != nil {
		n.Audit.Error(ctx, "failed to stamp notified_at for "+assignmentID, err)
	}

	n.Store.InvalidateAssignments()
}

func (n *Notifier) aggregate(channel model.Channel, sms, email channelOutcome) model.DispatchResult {
	var parts []string
	if sms.attempted {
		parts = append(parts, sms.message)
	}
	if email.attempted {
		parts = append(parts, email.message)
	}
	message := strings.Join(parts, "; ")

	result := model.DispatchResult{
		Message:   message,
		SMSSent:   sms.sent,
		EmailSent: email.sent,
	}

	switch channel {
	case model.ChannelBoth:
		result.Success = sms.sent && email.sent
	case model.ChannelSMS:
		result.Success = sms.sent
	case model.ChannelEmail:
		result.Success = email.sent
	}

	if result.Success {
		result.Code = model.CodeOK
		return result
	}

	// Report the first failing channel's code
	if sms.attempted && !sms.sent {
		result.Code = sms.code
	} else if email.attempted && !email.sent {
		result.Code = email.code
	}
	return result
}

// buildMessageBody assembles the notification text: a header naming the
// assignment, request and rider, the event details that are present, and
// the courtesy banner and notes from the parent request.
func (n *Notifier) buildMessageBody(ctx context.Context, assignment db.Assignment) string {
	header := "Escort assignment " + assignment.ID
	if assignment.RequestID != "" {
		header += " (request " + assignment.RequestID + ")"
	}
	if assignment.RiderName != "" {
		header += " - " + assignment.RiderName
	}

	lines := []string{header}

	if assignment.EventDate != "" {
		lines = append(lines, "Date: "+formatEventDate(assignment.EventDate))
	}
	if assignment.StartTime != "" {
		lines = append(lines, "Time: "+formatEventTime(assignment.StartTime))
	}
	if assignment.StartLocation != "" {
		lines = append(lines, "Start: "+assignment.StartLocation)
	}
	if assignment.EndLocation != "" {
		lines = append(lines, "End: "+assignment.EndLocation)
	}

	// Courtesy flag and notes live on the parent request. A missing parent
	// just means those lines are omitted.
	if assignment.RequestID != "" {
		request, err := n.Store.GetRequest(ctx, assignment.RequestID)
		if err == nil {
			if strings.EqualFold(strings.TrimSpace(request.Courtesy), "Yes") {
				lines = append(lines, "*** COURTESY ESCORT ***")
			}
			if strings.TrimSpace(request.Notes) != "" {
				lines = append(lines, "Notes: "+strings.TrimSpace(request.Notes))
			}
		} else if !errors.Is(err, db.ErrNotFound) {
			n.Logger.Warn("Failed to load parent request for message body",
				zap.String("request_id", assignment.RequestID),
				zap.Error(err))
		}
	}

	return strings.Join(lines, "\n")
}

func failure(code model.ResultCode, message string) model.DispatchResult {
	return model.DispatchResult{Success: false, Code: code, Message: message}
}
