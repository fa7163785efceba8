// Package backup exports a published season worksheet to CSV.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/standings"
)

// FileName is the default backup file name for a season.
func FileName(season int) string {
	return fmt.Sprintf("ukcshub_season%d.csv", season)
}

// Export reads the worksheet and writes it to w as CSV with a header line.
// It returns the number of data rows written.
func Export(ctx context.Context, store standings.TableStore, sheet string, w io.Writer) (int, error) {
	t, err := store.ReadTable(ctx, sheet)
	if err != nil {
		return 0, fmt.Errorf("read %q: %w", sheet, err)
	}

	rows := make([]*standings.PublishedRow, 0, len(t.Records))
	for _, rec := range t.Records {
		row := standings.ParsePublishedRow(rec)
		rows = append(rows, &row)
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return 0, fmt.Errorf("encode csv: %w", err)
	}
	return len(rows), nil
}

// Load parses a backup produced by Export.
func Load(r io.Reader) ([]standings.PublishedRow, error) {
	var rows []standings.PublishedRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}
	return rows, nil
}

// SaveFile runs write against a temporary file next to path and renames it
// into place only when write and close both succeed. On failure no file is
// left at path and an existing file there is untouched.
func SaveFile(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
