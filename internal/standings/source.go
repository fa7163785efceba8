package standings

import "context"

// ScrapeSource fetches the raw standings rows of one division page.
type ScrapeSource interface {
	FetchDivision(ctx context.Context, season int, division Division) ([]RawRow, error)
}

// TableStore is the spreadsheet document service. Row and column numbers are
// 1-based, matching the service's own addressing; row 1 is the header.
type TableStore interface {
	ReadTable(ctx context.Context, name string) (Table, error)
	WriteRows(ctx context.Context, name string, rows [][]string, at Offset) error
	DeleteRows(ctx context.Context, name string, r RowRange) error
	InsertRows(ctx context.Context, name string, rows [][]string, atRow int) error
}

// Record is one data row keyed by header text.
type Record map[string]string

// Table is a worksheet read wholesale: its header row plus data records.
// Rows holds the 1-based sheet row of each record, since blank rows are
// not returned as records.
type Table struct {
	Header  []string
	Records []Record
	Rows    []int
}

// Empty reports whether the worksheet has neither header nor data.
func (t Table) Empty() bool {
	return len(t.Header) == 0 && len(t.Records) == 0
}

// MissingColumns returns the required columns absent from the header.
func (t Table) MissingColumns(cols ...string) []string {
	have := make(map[string]struct{}, len(t.Header))
	for _, h := range t.Header {
		have[h] = struct{}{}
	}
	var missing []string
	for _, c := range cols {
		if _, ok := have[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// Offset addresses the top-left cell of a write.
type Offset struct {
	Row int
	Col int
}

// RowRange is an inclusive range of rows.
type RowRange struct {
	Start int
	End   int
}

// Len returns the number of rows covered.
func (r RowRange) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}
