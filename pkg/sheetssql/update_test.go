package sheetssql

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/sheets/v4"
)

// fakeSheetsClient serves canned table values and records updates
type fakeSheetsClient struct {
	values  map[string][][]interface{} // keyed by range / table name
	updates map[string][][]interface{} // keyed by range
}

func newFakeSheetsClient() *fakeSheetsClient {
	return &fakeSheetsClient{
		values:  make(map[string][][]interface{}),
		updates: make(map[string][][]interface{}),
	}
}

func (f *fakeSheetsClient) GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error) {
	return f.values[sheetRange], nil
}

func (f *fakeSheetsClient) UpdateValues(spreadsheetID, sheetRange string, values [][]interface{}) error {
	f.updates[sheetRange] = values
	return nil
}

func (f *fakeSheetsClient) AppendRows(spreadsheetID, sheetRange string, values [][]interface{}) error {
	f.values[sheetRange] = append(f.values[sheetRange], values...)
	return nil
}

func (f *fakeSheetsClient) CreateSheet(spreadsheetID, sheetTitle string) (int64, error) {
	return 1, nil
}

func (f *fakeSheetsClient) Service() *sheets.Service {
	return nil
}

func assignmentTable() [][]interface{} {
	return [][]interface{}{
		{"id", "request_id", "status", "sms_sent_at"},
		{"text", "text", "text", "text"},
		{"A-0001", "B-02-01", "Assigned", ""},
		{"A-0002", "B-02-01", "Confirmed", ""},
	}
}

func testDB(client SheetsClient) *DB {
	return &DB{client: client, spreadsheetID: "sheet-1", schema: &Schema{}}
}

func TestUpdateCellByID(t *testing.T) {
	client := newFakeSheetsClient()
	client.values["assignment"] = assignmentTable()
	db := testDB(client)

	err := db.UpdateCellByID("assignment", "id", "A-0002", "sms_sent_at", "2025-03-10 09:15:00")
	require.NoError(t, err)

	// A-0002 is the 2nd data row -> sheet row 4; sms_sent_at is column D
	update, ok := client.updates["assignment!D4"]
	require.True(t, ok, "expected update at assignment!D4, got %v", client.updates)
	assert.Equal(t, [][]interface{}{{"2025-03-10 09:15:00"}}, update)
}

func TestUpdateCellByID_RowNotFound(t *testing.T) {
	client := newFakeSheetsClient()
	client.values["assignment"] = assignmentTable()
	db := testDB(client)

	err := db.UpdateCellByID("assignment", "id", "A-9999", "status", "Cancelled")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRowNotFound))
	assert.Empty(t, client.updates)
}

func TestUpdateCellByID_UnknownColumn(t *testing.T) {
	client := newFakeSheetsClient()
	client.values["assignment"] = assignmentTable()
	db := testDB(client)

	err := db.UpdateCellByID("assignment", "id", "A-0001", "no_such_column", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_column")
}

func TestUpdateCellsByID(t *testing.T) {
	client := newFakeSheetsClient()
	client.values["assignment"] = assignmentTable()
	db := testDB(client)

	err := db.UpdateCellsByID("assignment", "id", "A-0001", map[string]interface{}{
		"status": "Cancelled",
	})
	require.NoError(t, err)

	update, ok := client.updates["assignment!C3"]
	require.True(t, ok)
	assert.Equal(t, [][]interface{}{{"Cancelled"}}, update)
}
