package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dashort/ride-sub002/pkg/cache"
	"github.com/dashort/ride-sub002/pkg/sheetssql"
)

// Table names derived from the model struct names
const (
	TableRequests    = "request"
	TableAssignments = "assignment"
	TableProperties  = "property"
)

// ErrNotFound is returned when a record id does not exist in its table.
var ErrNotFound = errors.New("record not found")

// Store provides record operations over the database spreadsheet, with a
// per-invocation TTL cache in front of full-table reads. Every write
// invalidates the affected table's cache entry so subsequent reads see
// fresh data.
type Store struct {
	ssql  *sheetssql.DB
	cache *cache.Cache
}

// NewStore creates a store over the given sheets database. ttl controls how
// long table reads are reused; a non-positive ttl uses the cache default.
func NewStore(ssql *sheetssql.DB, ttl time.Duration) *Store {
	return &Store{
		ssql:  ssql,
		cache: cache.New(ttl),
	}
}

// tableValues reads a table's raw values, serving repeated reads from the
// cache within the TTL.
func (s *Store) tableValues(table string) ([][]interface{}, error) {
	if cached, ok := s.cache.Get(table); ok {
		return cached.([][]interface{}), nil
	}

	values, err := s.ssql.Client().GetValues(s.ssql.SpreadsheetID(), table)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}

	s.cache.Set(table, values)
	return values, nil
}

// InvalidateAssignments drops the cached assignments table. Called after
// any assignment write so later reads in the same invocation see the new
// timestamps.
func (s *Store) InvalidateAssignments() {
	s.cache.Clear(TableAssignments)
}

// GetRequests returns all escort requests.
func (s *Store) GetRequests(ctx context.Context) ([]Request, error) {
	values, err := s.tableValues(TableRequests)
	if err != nil {
		return nil, err
	}
	return sheetssql.DecodeTable[Request](values)
}

// GetRequest returns the request with the given id.
func (s *Store) GetRequest(ctx context.Context, id string) (Request, error) {
	requests, err := s.GetRequests(ctx)
	if err != nil {
		return Request{}, err
	}
	for _, req := range requests {
		if req.ID == id {
			return req, nil
		}
	}
	return Request{}, fmt.Errorf("request %s: %w", id, ErrNotFound)
}

// GetAssignments returns all assignments.
func (s *Store) GetAssignments(ctx context.Context) ([]Assignment, error) {
	values, err := s.tableValues(TableAssignments)
	if err != nil {
		return nil, err
	}
	return sheetssql.DecodeTable[Assignment](values)
}

// GetAssignment returns the assignment with the given id.
func (s *Store) GetAssignment(ctx context.Context, id string) (Assignment, error) {
	assignments, err := s.GetAssignments(ctx)
	if err != nil {
		return Assignment{}, err
	}
	for _, a := range assignments {
		if a.ID == id {
			return a, nil
		}
	}
	return Assignment{}, fmt.Errorf("assignment %s: %w", id, ErrNotFound)
}

// UpdateAssignmentCell overwrites one column of one assignment row and
// invalidates the assignments cache.
func (s *Store) UpdateAssignmentCell(ctx context.Context, id, column string, value interface{}) error {
	if err := s.ssql.UpdateCellByID(TableAssignments, "id", id, column, value); err != nil {
		return err
	}
	s.InvalidateAssignments()
	return nil
}

// GetProperty returns the value stored under key, or "" if the key is
// absent.
func (s *Store) GetProperty(ctx context.Context, key string) (string, error) {
	values, err := s.tableValues(TableProperties)
	if err != nil {
		return "", err
	}
	props, err := sheetssql.DecodeTable[Property](values)
	if err != nil {
		return "", err
	}
	for _, p := range props {
		if p.Key == key {
			return p.Value, nil
		}
	}
	return "", nil
}

// SetProperty stores value under key, creating the row if needed.
func (s *Store) SetProperty(ctx context.Context, key, value string) error {
	err := s.ssql.UpdateCellByID(TableProperties, "key", key, "value", value)
	if errors.Is(err, sheetssql.ErrRowNotFound) {
		err = sheetssql.InsertModel(s.ssql, Property{Key: key, Value: value})
	}
	if err != nil {
		return fmt.Errorf("failed to set property %s: %w", key, err)
	}

	s.cache.Clear(TableProperties)
	return nil
}

// WriteDashboard overwrites the top-left block of the named dashboard tab
// with the given rows.
func (s *Store) WriteDashboard(tab string, rows [][]interface{}) error {
	if err := s.ssql.Client().UpdateValues(s.ssql.SpreadsheetID(), fmt.Sprintf("%s!A1", tab), rows); err != nil {
		return fmt.Errorf("failed to write dashboard: %w", err)
	}
	return nil
}
