package schema

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"ai-care-backend/internal/tabular"
)

// Plan is the minimal non-destructive migration for one table: the
// required columns missing from the live header, in registry order.
// Reconciliation never removes, reorders, or renames existing columns.
type Plan struct {
	Table   string
	Missing []Column
}

// Empty reports whether the live table already satisfies the registry.
func (p Plan) Empty() bool { return len(p.Missing) == 0 }

// Reconcile diffs a live header against the registry. Re-running on an
// already-migrated table yields an empty plan.
func Reconcile(table string, liveColumns []string) (Plan, error) {
	required, err := Columns(table)
	if err != nil {
		return Plan{}, err
	}
	live := make(map[string]bool, len(liveColumns))
	for _, name := range liveColumns {
		live[name] = true
	}
	plan := Plan{Table: table}
	for _, col := range required {
		if !live[col.Name] {
			plan.Missing = append(plan.Missing, col)
		}
	}
	return plan, nil
}

// Warning flags a live cell whose value conflicts with the registered
// column type. Reconciliation never coerces data; warnings are surfaced
// for manual review and migration proceeds regardless.
type Warning struct {
	Table  string
	Column string
	Row    int // 1-based data row index
	Detail string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s!%s row %d: %s", w.Table, w.Column, w.Row, w.Detail)
}

// InspectTypes checks existing rows against the registered column types.
func InspectTypes(table string, rows []tabular.Row) ([]Warning, error) {
	required, err := Columns(table)
	if err != nil {
		return nil, err
	}
	var warnings []Warning
	for i, row := range rows {
		for _, col := range required {
			value, ok := row[col.Name]
			if !ok {
				continue
			}
			if err := col.Type.Check(value); err != nil {
				warnings = append(warnings, Warning{
					Table:  table,
					Column: col.Name,
					Row:    i + 1,
					Detail: err.Error(),
				})
			}
		}
	}
	return warnings, nil
}

// Reconciler brings live tables into compliance with the registry. It runs
// once per process lifetime, before any repository access.
type Reconciler struct {
	backend tabular.Backend
	log     *logrus.Logger
}

func NewReconciler(backend tabular.Backend, log *logrus.Logger) *Reconciler {
	return &Reconciler{backend: backend, log: log}
}

// EnsureTable creates the table if absent, otherwise appends whatever
// required columns are missing. The live header is re-read immediately
// before appending, so applying a stale plan (retries, concurrent
// reconcilers from other processes) cannot duplicate columns.
func (r *Reconciler) EnsureTable(ctx context.Context, table string) error {
	required, err := ColumnNames(table)
	if err != nil {
		return err
	}

	tables, err := r.backend.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	exists := false
	for _, name := range tables {
		if name == table {
			exists = true
			break
		}
	}
	if !exists {
		if err := r.backend.CreateTable(ctx, table, required); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
		r.log.WithFields(logrus.Fields{"table": table, "columns": len(required)}).
			Info("created table")
		return nil
	}

	// Re-check-then-append: the set difference is computed against the
	// header as it is right now, not against any earlier snapshot.
	live, err := r.backend.ListColumns(ctx, table)
	if err != nil {
		return fmt.Errorf("list columns of %s: %w", table, err)
	}
	plan, err := Reconcile(table, live)
	if err != nil {
		return err
	}
	if plan.Empty() {
		return nil
	}
	names := make([]string, len(plan.Missing))
	for i, col := range plan.Missing {
		names[i] = col.Name
	}
	if err := r.backend.AppendColumns(ctx, table, names); err != nil {
		return fmt.Errorf("append columns to %s: %w", table, err)
	}
	r.log.WithFields(logrus.Fields{"table": table, "added": names}).
		Info("appended missing columns")
	return nil
}

// EnsureAll reconciles every logical table and inspects existing data for
// type conflicts. Warnings are logged and do not stop the migration.
func (r *Reconciler) EnsureAll(ctx context.Context) error {
	for _, table := range Tables() {
		if err := r.EnsureTable(ctx, table); err != nil {
			return err
		}
		rows, err := r.backend.ReadRows(ctx, table)
		if err != nil {
			return fmt.Errorf("read rows of %s: %w", table, err)
		}
		warnings, err := InspectTypes(table, rows)
		if err != nil {
			return err
		}
		for _, w := range warnings {
			r.log.WithField("warning", w.String()).Warn("schema type conflict, manual review needed")
		}
	}
	return nil
}
