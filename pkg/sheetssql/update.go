package sheetssql

import (
	"errors"
	"fmt"
)

// ErrRowNotFound is returned when no data row matches the requested id.
var ErrRowNotFound = errors.New("row not found")

// firstDataRow is the 1-based sheet row where data begins (after the header
// and type rows).
const firstDataRow = 3

// UpdateCellByID overwrites a single cell in the row whose idColumn equals
// idValue. Comparison is exact. Returns ErrRowNotFound when no row matches
// and an error naming the column when idColumn or column is absent from the
// header row.
func (db *DB) UpdateCellByID(tableName, idColumn, idValue, column string, value interface{}) error {
	values, err := db.client.GetValues(db.spreadsheetID, tableName)
	if err != nil {
		return fmt.Errorf("failed to get table %s: %w", tableName, err)
	}

	if len(values) < 1 {
		return fmt.Errorf("table %s has no header row", tableName)
	}

	idIdx, err := columnIndex(values[0], idColumn)
	if err != nil {
		return err
	}
	colIdx, err := columnIndex(values[0], column)
	if err != nil {
		return err
	}

	rowIdx := -1
	for i := firstDataRow - 1; i < len(values); i++ {
		row := values[i]
		if idIdx < len(row) {
			if cell, ok := row[idIdx].(string); ok && cell == idValue {
				rowIdx = i
				break
			}
		}
	}
	if rowIdx == -1 {
		return fmt.Errorf("table %s, %s=%s: %w", tableName, idColumn, idValue, ErrRowNotFound)
	}

	cellRange := fmt.Sprintf("%s!%s%d", tableName, a1Column(colIdx), rowIdx+1)
	if err := db.client.UpdateValues(db.spreadsheetID, cellRange, [][]interface{}{{value}}); err != nil {
		return fmt.Errorf("failed to update %s: %w", cellRange, err)
	}

	return nil
}

// UpdateCellsByID overwrites several columns of one row in a single pass.
// Columns are updated one cell at a time; a failure part-way leaves earlier
// updates in place, matching the row-at-a-time semantics of the engine.
func (db *DB) UpdateCellsByID(tableName, idColumn, idValue string, updates map[string]interface{}) error {
	for column, value := range updates {
		if err := db.UpdateCellByID(tableName, idColumn, idValue, column, value); err != nil {
			return err
		}
	}
	return nil
}

// columnIndex locates a named column in the header row
func columnIndex(headers []interface{}, name string) (int, error) {
	for i, header := range headers {
		if headerStr, ok := header.(string); ok && headerStr == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %s not found in header row", name)
}

// a1Column converts a 0-based column index to its A1-notation letters
// (0 -> A, 25 -> Z, 26 -> AA).
func a1Column(index int) string {
	letters := ""
	for index >= 0 {
		letters = string(rune('A'+index%26)) + letters
		index = index/26 - 1
	}
	return letters
}
