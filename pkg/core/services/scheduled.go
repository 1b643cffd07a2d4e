package services

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// ShouldRunToday reports whether today falls on an occurrence of the
// recurrence rule. The rule string is validated at config load, so a parse
// failure here still surfaces as an error rather than a silent no-op.
func ShouldRunToday(ruleStr string, now time.Time) (bool, error) {
	rule, err := rrule.StrToRRule(ruleStr)
	if err != nil {
		return false, fmt.Errorf("failed to parse reminder rule: %w", err)
	}

	// Anchor DTSTART just before today so Between sees today's occurrence
	// regardless of the rule's own anchor.
	dayStart := dayOf(now)
	rule.DTStart(dayStart.AddDate(0, 0, -7))

	occurrences := rule.Between(dayStart, dayStart.AddDate(0, 0, 1), true)
	for _, occurrence := range occurrences {
		if sameDay(occurrence, now) {
			return true, nil
		}
	}
	return false, nil
}
