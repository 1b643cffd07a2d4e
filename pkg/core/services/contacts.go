package services

import (
	"errors"
	"strings"

	"github.com/dashort/ride-sub002/internal/config"
	"github.com/dashort/ride-sub002/pkg/core/model"
)

// RiderClient provides the rider roster.
type RiderClient interface {
	ListRiders(cfg *config.Config) ([]model.Rider, error)
}

var (
	// ErrRiderNotFound means no roster entry matched the assignment's rider
	// reference.
	ErrRiderNotFound = errors.New("rider not found in roster")
	// ErrAmbiguousRider means more than one roster entry shares the
	// assignment's rider name and the assignment carries no rider id to
	// disambiguate. Treated as a hard resolution failure, never
	// first-match-wins.
	ErrAmbiguousRider = errors.New("rider name matches multiple roster entries")
)

// ResolveContact maps an assignment's rider reference to contact info.
// The stable rider id is preferred when present; the name is only a display
// value and a fallback for rows created before ids existed. Name matching
// is trimmed and case-insensitive but otherwise exact; typos are a miss,
// not a fuzzy match.
func ResolveContact(riders []model.Rider, riderID, riderName string) (model.Contact, error) {
	if id := strings.TrimSpace(riderID); id != "" {
		for _, r := range riders {
			if r.ID == id {
				return contactOf(r), nil
			}
		}
		return model.Contact{}, ErrRiderNotFound
	}

	name := strings.TrimSpace(riderName)
	if name == "" {
		return model.Contact{}, ErrRiderNotFound
	}

	var matched []model.Rider
	for _, r := range riders {
		if strings.EqualFold(strings.TrimSpace(r.Name), name) {
			matched = append(matched, r)
		}
	}

	switch len(matched) {
	case 0:
		return model.Contact{}, ErrRiderNotFound
	case 1:
		return contactOf(matched[0]), nil
	default:
		return model.Contact{}, ErrAmbiguousRider
	}
}

func contactOf(r model.Rider) model.Contact {
	return model.Contact{
		Phone:   strings.TrimSpace(r.Phone),
		Carrier: strings.TrimSpace(r.Carrier),
		Email:   strings.TrimSpace(r.Email),
	}
}
