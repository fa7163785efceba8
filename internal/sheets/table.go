package sheets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/standings"
)

// ErrSheetNotFound is returned when a worksheet title does not exist.
var ErrSheetNotFound = errors.New("worksheet not found")

// toTable turns a raw value grid (header row first) into a Table. Short rows
// are padded with empty cells; for repeated header titles the first column
// wins. Rows that are entirely blank are skipped.
func toTable(grid [][]string) standings.Table {
	if len(grid) == 0 {
		return standings.Table{}
	}
	header := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		header[i] = strings.TrimSpace(h)
	}

	records := make([]standings.Record, 0, len(grid)-1)
	rows := make([]int, 0, len(grid)-1)
	for i, row := range grid[1:] {
		if blank(row) {
			continue
		}
		rec := make(standings.Record, len(header))
		for i, h := range header {
			if _, dup := rec[h]; dup {
				continue
			}
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
		rows = append(rows, i+2)
	}
	return standings.Table{Header: header, Records: records, Rows: rows}
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// stringGrid converts API cell values into strings.
func stringGrid(values [][]interface{}) [][]string {
	grid := make([][]string, len(values))
	for i, row := range values {
		grid[i] = make([]string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			grid[i][j] = fmt.Sprint(v)
		}
	}
	return grid
}

// interfaceGrid converts string rows into API cell values.
func interfaceGrid(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		out[i] = make([]interface{}, len(row))
		for j, v := range row {
			out[i][j] = v
		}
	}
	return out
}

// columnLetter converts a 1-based column number to A1 notation.
func columnLetter(col int) string {
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}

// a1 renders the top-left cell of a write, e.g. 'Season 48'!A2.
func a1(sheet string, at standings.Offset) string {
	return fmt.Sprintf("%s!%s%d", quoteSheet(sheet), columnLetter(at.Col), at.Row)
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func checkOffset(at standings.Offset) error {
	if at.Row < 1 || at.Col < 1 {
		return fmt.Errorf("invalid offset row=%d col=%d", at.Row, at.Col)
	}
	return nil
}

func checkRange(r standings.RowRange) error {
	if r.Start < 1 || r.End < r.Start {
		return fmt.Errorf("invalid row range %d-%d", r.Start, r.End)
	}
	return nil
}
