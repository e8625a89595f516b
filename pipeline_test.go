package datatable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pipelineColumns = Columns{
	{Key: ColumnSelect, Title: ""},
	{Key: "name", Title: "Name", Sortable: true},
	{Key: "age", Title: "Age", Sortable: true},
	{Key: "note", Title: "Note"},
	{Key: ColumnActions, Title: ""},
}

func pipelineRows() []Row {
	return []Row{
		{"id": "1", "name": "Charlie", "age": 35, "note": "vip"},
		{"id": "2", "name": "alice", "age": 30, "note": nil},
		{"id": "3", "name": "Bob", "age": 25},
		{"id": "4", "name": "Dora", "age": nil, "note": "new"},
	}
}

func rowIDs(t *testing.T, rows []Row) []string {
	t.Helper()
	ids := make([]string, len(rows))
	for i, row := range rows {
		id, ok := DefaultIDFunc(row)
		require.True(t, ok, "row %d has no id", i)
		ids[i] = id
	}
	return ids
}

func TestProcessSearch(t *testing.T) {
	tests := []struct {
		name        string
		searchValue string
		wantIDs     []string
	}{
		{name: "empty search keeps all rows", searchValue: "", wantIDs: []string{"1", "2", "3", "4"}},
		{name: "case-insensitive match", searchValue: "ALICE", wantIDs: []string{"2"}},
		{name: "substring match", searchValue: "li", wantIDs: []string{"1", "2"}},
		{name: "matches numeric field as string", searchValue: "25", wantIDs: []string{"3"}},
		{name: "no match", searchValue: "zebra", wantIDs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Process(pipelineRows(), tt.searchValue, SortState{}, pipelineColumns, false)
			assert.Equal(t, tt.wantIDs, rowIDs(t, got))
		})
	}
}

func TestProcessSearchIgnoresReservedColumns(t *testing.T) {
	rows := []Row{
		{"id": "1", "name": "Alice", ColumnSelect: "findme"},
	}
	got := Process(rows, "findme", SortState{}, pipelineColumns, false)
	assert.Empty(t, got, "values under reserved keys must not match")
}

func TestProcessSortStrings(t *testing.T) {
	got := Process(pipelineRows(), "", SortState{Key: "name", Direction: SortAsc}, pipelineColumns, false)
	// Locale-aware comparison orders "alice" before "Bob".
	assert.Equal(t, []string{"2", "3", "1", "4"}, rowIDs(t, got))

	got = Process(pipelineRows(), "", SortState{Key: "name", Direction: SortDesc}, pipelineColumns, false)
	assert.Equal(t, []string{"4", "1", "3", "2"}, rowIDs(t, got))
}

func TestProcessSortNumbers(t *testing.T) {
	got := Process(pipelineRows(), "", SortState{Key: "age", Direction: SortAsc}, pipelineColumns, false)
	assert.Equal(t, []string{"3", "2", "1", "4"}, rowIDs(t, got))
}

func TestProcessSortNilsLastBothDirections(t *testing.T) {
	for _, direction := range []SortDirection{SortAsc, SortDesc} {
		got := Process(pipelineRows(), "", SortState{Key: "age", Direction: direction}, pipelineColumns, false)
		require.Len(t, got, 4)
		lastID, ok := DefaultIDFunc(got[3])
		require.True(t, ok)
		assert.Equal(t, "4", lastID, "nil value must sort last with direction %s", direction)
	}
}

func TestProcessSortMissingFieldsLast(t *testing.T) {
	rows := []Row{
		{"id": "1"},
		{"id": "2", "score": 7},
		{"id": "3", "score": nil},
		{"id": "4", "score": 3},
	}
	columns := Columns{{Key: "score", Sortable: true}}

	got := Process(rows, "", SortState{Key: "score", Direction: SortAsc}, columns, false)
	assert.Equal(t, []string{"4", "2", "1", "3"}, rowIDs(t, got))

	got = Process(rows, "", SortState{Key: "score", Direction: SortDesc}, columns, false)
	assert.Equal(t, []string{"2", "4", "1", "3"}, rowIDs(t, got))
}

func TestProcessSortStable(t *testing.T) {
	rows := []Row{
		{"id": "1", "group": "b"},
		{"id": "2", "group": "a"},
		{"id": "3", "group": "b"},
		{"id": "4", "group": "a"},
	}
	columns := Columns{{Key: "group", Sortable: true}}
	got := Process(rows, "", SortState{Key: "group", Direction: SortAsc}, columns, false)
	assert.Equal(t, []string{"2", "4", "1", "3"}, rowIDs(t, got))
}

func TestProcessSortTimes(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := []Row{
		{"id": "1", "created": late},
		{"id": "2", "created": early},
	}
	columns := Columns{{Key: "created", Sortable: true}}
	got := Process(rows, "", SortState{Key: "created", Direction: SortAsc}, columns, false)
	assert.Equal(t, []string{"2", "1"}, rowIDs(t, got))
}

func TestProcessSortBools(t *testing.T) {
	rows := []Row{
		{"id": "1", "active": true},
		{"id": "2", "active": false},
	}
	columns := Columns{{Key: "active", Sortable: true}}
	got := Process(rows, "", SortState{Key: "active", Direction: SortAsc}, columns, false)
	assert.Equal(t, []string{"2", "1"}, rowIDs(t, got))
}

func TestProcessDoesNotMutateInput(t *testing.T) {
	rows := pipelineRows()
	Process(rows, "", SortState{Key: "name", Direction: SortAsc}, pipelineColumns, false)
	assert.Equal(t, []string{"1", "2", "3", "4"}, rowIDs(t, rows))
}

func TestProcessDisabled(t *testing.T) {
	rows := pipelineRows()
	got := Process(rows, "alice", SortState{Key: "name", Direction: SortDesc}, pipelineColumns, true)
	assert.Equal(t, []string{"1", "2", "3", "4"}, rowIDs(t, got),
		"disabled processing must return rows unchanged")
}
