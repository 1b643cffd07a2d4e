package sheetsclient

import (
	"fmt"

	"github.com/dashort/ride-sub002/internal/config"
	"github.com/dashort/ride-sub002/pkg/core/model"
)

// Expected column names in the rider roster sheet
var riderFields = []string{
	"Rider ID",
	"Full Name",
	"Phone Number",
	"Carrier",
	"Email",
	"Status",
}

// ListRiders retrieves and parses riders from the configured roster sheet
func (c *Client) ListRiders(cfg *config.Config) ([]model.Rider, error) {
	values, err := c.GetValues(cfg.RosterSheetID, cfg.RidersTab)
	if err != nil {
		return nil, fmt.Errorf("failed to get rider data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("rider roster is empty")
	}

	riders, err := parseRiders(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse riders: %w", err)
	}

	return riders, nil
}

// parseRiders converts raw spreadsheet data into Rider structs. Physical
// column order is irrelevant; columns are located by header name.
func parseRiders(raw [][]interface{}) ([]model.Rider, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	// Build field index map from header row
	fieldIndexes := make(map[string]int)
	headerRow := raw[0]

	for _, field := range riderFields {
		index := -1
		for i, cell := range headerRow {
			if cellStr, ok := cell.(string); ok && cellStr == field {
				index = i
				break
			}
		}
		if index == -1 {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		fieldIndexes[field] = index
	}

	// Helper to get field value from row
	getField := func(field string, row []interface{}) string {
		index, ok := fieldIndexes[field]
		if !ok {
			return ""
		}
		if index >= len(row) {
			return ""
		}
		if str, ok := row[index].(string); ok {
			return str
		}
		return ""
	}

	// Parse data rows
	riders := make([]model.Rider, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		name := getField("Full Name", row)
		// Skip empty rows (rows with no name)
		if name == "" {
			continue
		}

		rider := model.Rider{
			ID:      getField("Rider ID", row),
			Name:    name,
			Phone:   getField("Phone Number", row),
			Carrier: getField("Carrier", row),
			Email:   getField("Email", row),
			Status:  getField("Status", row),
		}

		riders = append(riders, rider)
	}

	return riders, nil
}
