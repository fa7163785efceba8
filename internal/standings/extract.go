package standings

import (
	"fmt"
	"strconv"
	"strings"
)

// Column offsets counted from the end of a standings row.
const (
	winsFromEnd   = 7
	lossesFromEnd = 6
)

// Diagnostic describes a raw row the extractor had to drop.
type Diagnostic struct {
	PageID   string
	Division Division
	Reason   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("drop %s (%s): %s", d.PageID, d.Division, d.Reason)
}

// Extract normalises raw rows into team records. Rows whose win or loss cell
// is missing or not a non-negative integer are dropped and reported; the
// remaining rows are still returned.
func Extract(rows []RawRow) ([]TeamRecord, []Diagnostic) {
	records := make([]TeamRecord, 0, len(rows))
	var diags []Diagnostic

	for _, row := range rows {
		rec, err := extractOne(row)
		if err != nil {
			diags = append(diags, Diagnostic{PageID: row.PageID, Division: row.Division, Reason: err.Error()})
			continue
		}
		records = append(records, rec)
	}
	return records, diags
}

func extractOne(row RawRow) (TeamRecord, error) {
	n := len(row.Cells)
	if n < winsFromEnd {
		return TeamRecord{}, fmt.Errorf("row has %d cells, need at least %d", n, winsFromEnd)
	}
	wins, err := parseCount(row.Cells[n-winsFromEnd])
	if err != nil {
		return TeamRecord{}, fmt.Errorf("wins: %w", err)
	}
	losses, err := parseCount(row.Cells[n-lossesFromEnd])
	if err != nil {
		return TeamRecord{}, fmt.Errorf("losses: %w", err)
	}

	var logo *string
	if row.LogoSrc != nil {
		src := *row.LogoSrc
		logo = &src
	}

	return TeamRecord{
		Name:     strings.TrimSpace(row.Name),
		LogoRef:  logo,
		Wins:     wins,
		Losses:   losses,
		Division: row.Division,
		PageID:   row.PageID,
	}, nil
}

// parseCount reads a non-negative integer cell.
func parseCount(cell string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(cell))
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", cell)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative count: %d", v)
	}
	return v, nil
}
