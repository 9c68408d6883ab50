package tabular

import (
	"context"
	"fmt"
	"sync"
)

type memTable struct {
	columns []string
	rows    [][]string
}

// MemoryBackend is an in-process Backend. It backs tests and the "memory"
// deployment mode, and behaves like the spreadsheet backends: header row
// plus ordered data rows, values stored as strings.
type MemoryBackend struct {
	mu     sync.Mutex
	tables map[string]*memTable
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{tables: make(map[string]*memTable)}
}

func (m *MemoryBackend) ListTables(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	return names, nil
}

func (m *MemoryBackend) CreateTable(ctx context.Context, table string, columns []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table]; ok {
		return fmt.Errorf("table %q already exists", table)
	}
	header := make([]string, len(columns))
	copy(header, columns)
	m.tables[table] = &memTable{columns: header}
	return nil
}

func (m *MemoryBackend) ListColumns(ctx context.Context, table string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	columns := make([]string, len(t.columns))
	copy(columns, t.columns)
	return columns, nil
}

func (m *MemoryBackend) AppendColumns(ctx context.Context, table string, columns []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	t.columns = append(t.columns, columns...)
	return nil
}

func (m *MemoryBackend) AppendRow(ctx context.Context, table string, row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	values, err := AlignRow(t.columns, row)
	if err != nil {
		return err
	}
	t.rows = append(t.rows, values)
	return nil
}

func (m *MemoryBackend) ReadRows(ctx context.Context, table string) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	rows := make([]Row, 0, len(t.rows))
	for _, values := range t.rows {
		row := make(Row, len(t.columns))
		for i, col := range t.columns {
			if i < len(values) {
				row[col] = values[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AlignRow orders a Row's values to match the live header. A value for a
// column that is not in the header indicates schema drift and is an error
// rather than a silent drop.
func AlignRow(columns []string, row Row) ([]string, error) {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col] = i
	}
	for col := range row {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("column %q not present in live header", col)
		}
	}
	values := make([]string, len(columns))
	for col, v := range row {
		values[index[col]] = v
	}
	return values, nil
}
