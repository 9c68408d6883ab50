package tabular

import "context"

// Row is one record as returned by the backend: column name -> cell value.
// All cell values travel as strings; typed interpretation happens in the
// domain repositories.
type Row map[string]string

// Get returns the cell value for a column, or "" if the column is absent.
func (r Row) Get(column string) string {
	return r[column]
}

// Backend is the narrow contract every tabular store must satisfy.
// The store of record is a hosted spreadsheet; implementations live under
// internal/platform. Row order and column order are preserved as written.
// Single-row appends are atomic at the level the backend provides; there
// are no cross-row transactions.
type Backend interface {
	// ListTables returns the names of all tables currently in the store.
	ListTables(ctx context.Context) ([]string, error)

	// CreateTable creates a new table with the given header columns.
	CreateTable(ctx context.Context, table string, columns []string) error

	// ListColumns returns the live header of a table, in sheet order.
	ListColumns(ctx context.Context, table string) ([]string, error)

	// AppendColumns adds new columns to the end of a table's header.
	// Existing columns are never touched.
	AppendColumns(ctx context.Context, table string, columns []string) error

	// AppendRow writes one new row, aligning values to the live header.
	AppendRow(ctx context.Context, table string, row Row) error

	// ReadRows returns every data row of a table as column->value maps.
	ReadRows(ctx context.Context, table string) ([]Row, error)
}
