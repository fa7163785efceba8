// Package publish writes assembled standings into the destination worksheet.
//
// Two modes exist. FullReplace overwrites the data block below the header.
// PartialReplace swaps only the professional-tier block at the top of the
// sheet, leaving scraped divisions untouched. The document service has no
// transactions: a failure midway leaves whatever was already written.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/standings"
)

// FirstDataRow is the row below the header where publication starts.
const FirstDataRow = 2

// ErrNoRows is returned by FullReplace when there is nothing to write.
var ErrNoRows = errors.New("no rows to publish")

// Adapter mutates a destination worksheet through a TableStore.
type Adapter struct {
	store  standings.TableStore
	logger *slog.Logger
}

// New creates an Adapter.
func New(store standings.TableStore, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{store: store, logger: logger}
}

// FullReplace writes every row starting at FirstDataRow, column A. The header
// row is never touched.
func (a *Adapter) FullReplace(ctx context.Context, sheet string, rows []standings.PublishedRow) error {
	if len(rows) == 0 {
		return ErrNoRows
	}
	at := standings.Offset{Row: FirstDataRow, Col: 1}
	if err := a.store.WriteRows(ctx, sheet, standings.RowValues(rows), at); err != nil {
		return fmt.Errorf("full replace %q: %w", sheet, err)
	}
	a.logger.Info("Sheet updated", "sheet", sheet, "rows", len(rows))
	return nil
}

// PartialResult reports what PartialReplace changed.
type PartialResult struct {
	Deleted  int
	Inserted int
}

// PartialReplace replaces the professional-tier block. The number of rows to
// delete is counted from the destination as it stands before any mutation;
// those rows are deleted from FirstDataRow down, and only then is the new
// block inserted at FirstDataRow. The delete count never depends on len(pro).
func (a *Adapter) PartialReplace(ctx context.Context, sheet string, pro []standings.PublishedRow) (PartialResult, error) {
	var res PartialResult

	current, err := a.store.ReadTable(ctx, sheet)
	if err != nil {
		return res, fmt.Errorf("read %q: %w", sheet, err)
	}
	if missing := current.MissingColumns(standings.ColumnDivision); len(missing) > 0 {
		return res, fmt.Errorf("destination %q has no %q column", sheet, standings.ColumnDivision)
	}
	existing := CountElevated(current)

	if existing > 0 {
		r := standings.RowRange{Start: FirstDataRow, End: FirstDataRow + existing - 1}
		if err := a.store.DeleteRows(ctx, sheet, r); err != nil {
			return res, fmt.Errorf("delete professional rows of %q: %w", sheet, err)
		}
		res.Deleted = existing
	}

	if len(pro) > 0 {
		if err := a.store.InsertRows(ctx, sheet, standings.RowValues(pro), FirstDataRow); err != nil {
			return res, fmt.Errorf("insert professional rows into %q: %w", sheet, err)
		}
		res.Inserted = len(pro)
	}

	a.logger.Info("Professional block replaced", "sheet", sheet, "deleted", res.Deleted, "inserted", res.Inserted)
	return res, nil
}

// WriteColumn overwrites one column from FirstDataRow down.
func (a *Adapter) WriteColumn(ctx context.Context, sheet string, col int, values []string) error {
	if len(values) == 0 {
		return nil
	}
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{v}
	}
	if err := a.store.WriteRows(ctx, sheet, rows, standings.Offset{Row: FirstDataRow, Col: col}); err != nil {
		return fmt.Errorf("write column %d of %q: %w", col, sheet, err)
	}
	return nil
}

// CountElevated counts published rows whose division is pro or challenger.
func CountElevated(t standings.Table) int {
	n := 0
	for _, rec := range t.Records {
		if standings.IsElevatedLabel(rec[standings.ColumnDivision]) {
			n++
		}
	}
	return n
}
