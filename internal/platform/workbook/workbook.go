// Package workbook implements tabular.Backend over a local .xlsx file,
// for offline and development deployments. Same row semantics as the
// hosted spreadsheet: one worksheet per logical table, header row first.
package workbook

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"ai-care-backend/internal/tabular"
)

type Workbook struct {
	mu   sync.Mutex
	path string
	file *excelize.File
}

// Open loads the workbook at path, creating a new file if none exists.
func Open(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		return &Workbook{path: path, file: f}, nil
	}
	return &Workbook{path: path, file: excelize.NewFile()}, nil
}

// Close flushes and releases the underlying file.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func (w *Workbook) ListTables(ctx context.Context) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.GetSheetList(), nil
}

func (w *Workbook) CreateTable(ctx context.Context, table string, columns []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.file.NewSheet(table); err != nil {
		return fmt.Errorf("create sheet %s: %w", table, err)
	}
	header := toInterfaces(columns)
	if err := w.file.SetSheetRow(table, "A1", &header); err != nil {
		return fmt.Errorf("write header of %s: %w", table, err)
	}
	return w.save()
}

func (w *Workbook) ListColumns(ctx context.Context, table string) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, err := w.rows(table)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (w *Workbook) AppendColumns(ctx context.Context, table string, columns []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, err := w.rows(table)
	if err != nil {
		return err
	}
	start := 1
	if len(rows) > 0 {
		start = len(rows[0]) + 1
	}
	cell, err := excelize.CoordinatesToCellName(start, 1)
	if err != nil {
		return err
	}
	values := toInterfaces(columns)
	if err := w.file.SetSheetRow(table, cell, &values); err != nil {
		return fmt.Errorf("append columns to %s: %w", table, err)
	}
	return w.save()
}

func (w *Workbook) AppendRow(ctx context.Context, table string, row tabular.Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, err := w.rows(table)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("table %s has no header", table)
	}
	aligned, err := tabular.AlignRow(rows[0], row)
	if err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	values := toInterfaces(aligned)
	if err := w.file.SetSheetRow(table, cell, &values); err != nil {
		return fmt.Errorf("append row to %s: %w", table, err)
	}
	return w.save()
}

func (w *Workbook) ReadRows(ctx context.Context, table string) ([]tabular.Row, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, err := w.rows(table)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	header := rows[0]
	out := make([]tabular.Row, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		row := make(tabular.Row, len(header))
		for i, col := range header {
			if i < len(raw) {
				row[col] = raw[i]
			} else {
				row[col] = ""
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (w *Workbook) rows(table string) ([][]string, error) {
	idx, err := w.file.GetSheetIndex(table)
	if err != nil {
		return nil, err
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: %s", tabular.ErrTableNotFound, table)
	}
	rows, err := w.file.GetRows(table)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", table, err)
	}
	return rows, nil
}

func (w *Workbook) save() error {
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
