package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/standings"
)

func TestToTable(t *testing.T) {
	grid := [][]string{
		{"esea_page", " team_name ", "esea_page"},
		{"/teams/1", "One", "ignored"},
		{"", " ", ""},
		{"/teams/2"},
	}

	table := toTable(grid)

	assert.Equal(t, []string{"esea_page", "team_name", "esea_page"}, table.Header)
	assert.Equal(t, []standings.Record{
		{"esea_page": "/teams/1", "team_name": "One"},
		{"esea_page": "/teams/2", "team_name": ""},
	}, table.Records)
	assert.Equal(t, []int{2, 4}, table.Rows)
	assert.Empty(t, table.MissingColumns("esea_page", "team_name"))
	assert.Equal(t, []string{"coach"}, table.MissingColumns("coach"))
}

func TestToTable_Empty(t *testing.T) {
	assert.True(t, toTable(nil).Empty())
	assert.False(t, toTable([][]string{{"esea_page"}}).Empty())
}

func TestStringGrid(t *testing.T) {
	got := stringGrid([][]interface{}{{"a", 3.0, nil, true}})
	assert.Equal(t, [][]string{{"a", "3", "", "true"}}, got)
}

func TestColumnLetter(t *testing.T) {
	tests := map[int]string{1: "A", 3: "C", 7: "G", 26: "Z", 27: "AA", 52: "AZ", 703: "AAA"}
	for col, want := range tests {
		assert.Equal(t, want, columnLetter(col))
	}
}

func TestA1(t *testing.T) {
	assert.Equal(t, "'Season 48'!A2", a1("Season 48", standings.Offset{Row: 2, Col: 1}))
	assert.Equal(t, "'Bob''s'!G2", a1("Bob's", standings.Offset{Row: 2, Col: 7}))
}

func TestDimensionRange(t *testing.T) {
	r := dimensionRange(0, 1, 6)
	assert.Equal(t, int64(0), r.SheetId)
	assert.Equal(t, int64(1), r.StartIndex)
	assert.Equal(t, int64(6), r.EndIndex)
	assert.Equal(t, "ROWS", r.Dimension)
	assert.Contains(t, r.ForceSendFields, "SheetId")
}
