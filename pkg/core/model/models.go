package model

import "strings"

// Channel selects which notification channels a dispatch attempts.
type Channel string

const (
	ChannelSMS   Channel = "SMS"
	ChannelEmail Channel = "Email"
	ChannelBoth  Channel = "Both"
)

func (c Channel) IsValid() bool {
	return c == ChannelSMS || c == ChannelEmail || c == ChannelBoth
}

// ParseChannel normalizes user input ("sms", "EMAIL", "both") into a Channel.
func ParseChannel(s string) (Channel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sms":
		return ChannelSMS, true
	case "email":
		return ChannelEmail, true
	case "both":
		return ChannelBoth, true
	}
	return "", false
}

// Assignment status values. Completed, Cancelled and No Show are terminal:
// assignments in those states are excluded from bulk notification targeting.
const (
	StatusAssigned          = "Assigned"
	StatusConfirmed         = "Confirmed"
	StatusEnRoute           = "En Route"
	StatusInProgress        = "In Progress"
	StatusCompleted         = "Completed"
	StatusCancelled         = "Cancelled"
	StatusNoShow            = "No Show"
	StatusCompletedNoRider  = "Completed (No Rider)"
	StatusPendingAssignment = "Pending Assignment"
)

// IsTerminalStatus reports whether a status ends an assignment's lifecycle.
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsActiveStatus reports whether an assignment is still in flight and a
// candidate for pending notifications.
func IsActiveStatus(status string) bool {
	switch status {
	case StatusAssigned, StatusConfirmed, StatusEnRoute, StatusInProgress:
		return true
	}
	return false
}

// Status is an assignment status as stored, made explicit about whether the
// underlying cell held a value at all. Status repair only ever writes rows
// whose status is unset; manual overrides are never touched.
type Status struct {
	Value string
	Set   bool
}

// StatusOf converts a raw status cell into a Status. Whitespace-only cells
// count as unset.
func StatusOf(raw string) Status {
	trimmed := strings.TrimSpace(raw)
	return Status{Value: trimmed, Set: trimmed != ""}
}

// Rider is an on-call escort rider from the roster sheet. Read-only from
// this engine's perspective.
type Rider struct {
	ID      string
	Name    string
	Phone   string
	Carrier string
	Email   string
	Status  string // Active, Inactive, Vacation, Training, Suspended
}

// Contact is the resolved contact information for a rider.
type Contact struct {
	Phone   string
	Carrier string
	Email   string
}

// ResultCode classifies the outcome of a single dispatch attempt.
type ResultCode string

const (
	CodeOK               ResultCode = "OK"
	CodeNotFound         ResultCode = "NotFound"
	CodeMissingRider     ResultCode = "MissingRider"
	CodeRiderNotFound    ResultCode = "RiderNotFound"
	CodeAmbiguousRider   ResultCode = "AmbiguousRider"
	CodeNoContactInfo    ResultCode = "NoContactInfo"
	CodeInvalidPhone     ResultCode = "InvalidPhone"
	CodeInvalidEmail     ResultCode = "InvalidEmail"
	CodeTransportFailure ResultCode = "TransportFailure"
)

// DispatchResult is the aggregate outcome of dispatching one notification.
// Failures are reported here rather than as errors; only infrastructure
// problems (an unreadable collection) surface as an error.
type DispatchResult struct {
	Success   bool
	Code      ResultCode
	Message   string
	SMSSent   bool
	EmailSent bool
}

// BatchResult summarizes a bulk notification run. Successful and Failed
// count individual channel attempts, so a "Both" run over N targets tallies
// 2N attempts. Errors holds at most the first 10 failure descriptions.
type BatchResult struct {
	Successful int
	Failed     int
	Errors     []string
	Message    string
}

// NotifyState is the derived per-assignment notification state used by
// history and stats reporting.
type NotifyState string

const (
	StateBothSent  NotifyState = "both_sent"
	StateSMSSent   NotifyState = "sms_sent"
	StateEmailSent NotifyState = "email_sent"
	StateNotified  NotifyState = "notified"
	StatePending   NotifyState = "pending"
	StateNoRider   NotifyState = "no_rider"
)
