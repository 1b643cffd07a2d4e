package sheetssql

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFieldValue_String(t *testing.T) {
	type TestStruct struct {
		Name string
	}

	var s TestStruct
	field := reflect.ValueOf(&s).Elem().Field(0)

	err := setFieldValue(field, "test value")
	assert.NoError(t, err)
	assert.Equal(t, "test value", s.Name)
}

func TestSetFieldValue_Int(t *testing.T) {
	type TestStruct struct {
		Count int
	}

	var s TestStruct
	field := reflect.ValueOf(&s).Elem().Field(0)

	err := setFieldValue(field, "42")
	assert.NoError(t, err)
	assert.Equal(t, 42, s.Count)
}

func TestSetFieldValue_EmptyInt(t *testing.T) {
	type TestStruct struct {
		Count int
	}

	var s TestStruct
	field := reflect.ValueOf(&s).Elem().Field(0)

	err := setFieldValue(field, "")
	assert.NoError(t, err)
	assert.Equal(t, 0, s.Count)
}

func TestSetFieldValue_InvalidInt(t *testing.T) {
	type TestStruct struct {
		Count int
	}

	var s TestStruct
	field := reflect.ValueOf(&s).Elem().Field(0)

	err := setFieldValue(field, "not a number")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse int")
}

func TestDecodeTable_MapsColumnsByHeader(t *testing.T) {
	type Record struct {
		ID     string `ssql_header:"id" ssql_type:"text"`
		Status string `ssql_header:"status" ssql_type:"text"`
		Count  int    `ssql_header:"count" ssql_type:"int"`
	}

	// Columns deliberately out of struct order
	values := [][]interface{}{
		{"status", "count", "id"},
		{"text", "int", "text"},
		{"Assigned", "2", "A-0001"},
		{"", "", "A-0002"},
	}

	records, err := DecodeTable[Record](values)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, Record{ID: "A-0001", Status: "Assigned", Count: 2}, records[0])
	assert.Equal(t, Record{ID: "A-0002"}, records[1])
}

func TestDecodeTable_HeaderAndTypeRowsOnly(t *testing.T) {
	type Record struct {
		ID string `ssql_header:"id" ssql_type:"text"`
	}

	values := [][]interface{}{
		{"id"},
		{"text"},
	}

	records, err := DecodeTable[Record](values)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSchemaFromModels(t *testing.T) {
	type EscortRequest struct {
		ID     string `ssql_header:"id" ssql_type:"text"`
		Status string `ssql_header:"status" ssql_type:"text"`
	}

	schema, err := SchemaFromModels(EscortRequest{})
	require.NoError(t, err)
	require.Len(t, schema.Tables, 1)

	table := schema.Tables[0]
	assert.Equal(t, "escort_request", table.Name)
	assert.Equal(t, []Column{{Name: "id", Type: "text"}, {Name: "status", Type: "text"}}, table.Columns)
}

func TestSchemaFromModels_MissingTag(t *testing.T) {
	type Broken struct {
		ID string
	}

	_, err := SchemaFromModels(Broken{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ssql_header")
}

func TestA1Column(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, a1Column(tt.index), "index %d", tt.index)
	}
}
