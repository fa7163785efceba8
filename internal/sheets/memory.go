package sheets

import (
	"context"
	"fmt"
	"sync"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/standings"
)

// MemoryStore is an in-process TableStore with the same 1-based addressing
// and row-shifting behaviour as the live document. Every mutation is
// appended to Ops so callers can assert on call order.
type MemoryStore struct {
	mu     sync.Mutex
	sheets map[string][][]string

	// Ops logs mutations as "write <sheet> r<row>c<col> n=<rows>",
	// "delete <sheet> <start>-<end>" and "insert <sheet> r<row> n=<rows>".
	Ops []string
	// FailWrites, when set, is returned by every mutating call.
	FailWrites error
}

var _ standings.TableStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sheets: make(map[string][][]string)}
}

// SetSheet replaces a worksheet's contents, header row first.
func (m *MemoryStore) SetSheet(name string, grid [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[name] = cloneGrid(grid)
}

// Sheet returns a copy of a worksheet's contents.
func (m *MemoryStore) Sheet(name string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneGrid(m.sheets[name])
}

func (m *MemoryStore) ReadTable(_ context.Context, name string) (standings.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	grid, ok := m.sheets[name]
	if !ok {
		return standings.Table{}, fmt.Errorf("read %q: %w", name, ErrSheetNotFound)
	}
	return toTable(cloneGrid(grid)), nil
}

func (m *MemoryStore) WriteRows(_ context.Context, name string, rows [][]string, at standings.Offset) error {
	if err := checkOffset(at); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	grid, err := m.mutable(name)
	if err != nil {
		return err
	}
	m.Ops = append(m.Ops, fmt.Sprintf("write %s r%dc%d n=%d", name, at.Row, at.Col, len(rows)))

	for i, row := range rows {
		r := at.Row - 1 + i
		for len(grid) <= r {
			grid = append(grid, nil)
		}
		need := at.Col - 1 + len(row)
		for len(grid[r]) < need {
			grid[r] = append(grid[r], "")
		}
		copy(grid[r][at.Col-1:], row)
	}
	m.sheets[name] = grid
	return nil
}

func (m *MemoryStore) DeleteRows(_ context.Context, name string, r standings.RowRange) error {
	if err := checkRange(r); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	grid, err := m.mutable(name)
	if err != nil {
		return err
	}
	m.Ops = append(m.Ops, fmt.Sprintf("delete %s %d-%d", name, r.Start, r.End))

	start, end := r.Start-1, r.End
	if start >= len(grid) {
		return nil
	}
	if end > len(grid) {
		end = len(grid)
	}
	m.sheets[name] = append(grid[:start], grid[end:]...)
	return nil
}

func (m *MemoryStore) InsertRows(_ context.Context, name string, rows [][]string, atRow int) error {
	if atRow < 1 {
		return fmt.Errorf("invalid insert row %d", atRow)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	grid, err := m.mutable(name)
	if err != nil {
		return err
	}
	m.Ops = append(m.Ops, fmt.Sprintf("insert %s r%d n=%d", name, atRow, len(rows)))

	at := atRow - 1
	for len(grid) < at {
		grid = append(grid, nil)
	}
	out := make([][]string, 0, len(grid)+len(rows))
	out = append(out, grid[:at]...)
	out = append(out, cloneGrid(rows)...)
	out = append(out, grid[at:]...)
	m.sheets[name] = out
	return nil
}

func (m *MemoryStore) mutable(name string) ([][]string, error) {
	if m.FailWrites != nil {
		return nil, m.FailWrites
	}
	grid, ok := m.sheets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return grid, nil
}

func cloneGrid(grid [][]string) [][]string {
	if grid == nil {
		return nil
	}
	out := make([][]string, len(grid))
	for i, row := range grid {
		out[i] = append([]string(nil), row...)
	}
	return out
}
