package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashort/ride-sub002/pkg/core/model"
)

func rosterFixture() []model.Rider {
	return []model.Rider{
		{ID: "R-001", Name: "Jane Doe", Phone: "504-555-1234", Carrier: "Verizon", Email: "jane@example.com", Status: "Active"},
		{ID: "R-002", Name: "John Smith", Phone: "504-555-5678", Carrier: "AT&T", Email: "john@example.com", Status: "Active"},
		{ID: "R-003", Name: "Alex Gray", Phone: "504-555-9999", Carrier: "", Email: "", Status: "Vacation"},
		{ID: "R-004", Name: "Alex Gray", Phone: "504-555-0000", Carrier: "Verizon", Email: "gray2@example.com", Status: "Active"},
	}
}

func TestResolveContact_ByID(t *testing.T) {
	contact, err := ResolveContact(rosterFixture(), "R-002", "wrong name on purpose")
	require.NoError(t, err)
	assert.Equal(t, "504-555-5678", contact.Phone)
	assert.Equal(t, "AT&T", contact.Carrier)
	assert.Equal(t, "john@example.com", contact.Email)
}

func TestResolveContact_ByIDNotFound(t *testing.T) {
	_, err := ResolveContact(rosterFixture(), "R-999", "Jane Doe")
	// An explicit id that does not resolve is an error even when the name
	// would have matched
	assert.ErrorIs(t, err, ErrRiderNotFound)
}

func TestResolveContact_ByNameCaseInsensitive(t *testing.T) {
	contact, err := ResolveContact(rosterFixture(), "", "  jane doe ")
	require.NoError(t, err)
	assert.Equal(t, "504-555-1234", contact.Phone)
}

func TestResolveContact_NameNotFound(t *testing.T) {
	_, err := ResolveContact(rosterFixture(), "", "Jan Doe")
	assert.ErrorIs(t, err, ErrRiderNotFound)
}

func TestResolveContact_DuplicateNameIsAmbiguous(t *testing.T) {
	_, err := ResolveContact(rosterFixture(), "", "Alex Gray")
	assert.ErrorIs(t, err, ErrAmbiguousRider)
}

func TestResolveContact_DuplicateNameResolvedByID(t *testing.T) {
	contact, err := ResolveContact(rosterFixture(), "R-004", "Alex Gray")
	require.NoError(t, err)
	assert.Equal(t, "gray2@example.com", contact.Email)
}

func TestResolveContact_BlankReference(t *testing.T) {
	_, err := ResolveContact(rosterFixture(), "", "  ")
	assert.ErrorIs(t, err, ErrRiderNotFound)
}
