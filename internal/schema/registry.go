package schema

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrUnknownTable is returned for any table name outside the four logical
// tables. It indicates a programming error, not a runtime condition.
var ErrUnknownTable = errors.New("unknown table")

// Logical table names. The patient client and the staff backend share
// these worksheets and must agree on their headers at all times.
const (
	TableReports       = "Reports"
	TableConversations = "Conversations"
	TableAchievements  = "Achievements"
	TableCompliance    = "Compliance"
)

// ColumnType is the semantic type of a column. Cells travel as strings;
// the type drives validation and the reconciler's type inspection.
type ColumnType string

const (
	TypeString   ColumnType = "string"
	TypeInteger  ColumnType = "integer"
	TypeScore    ColumnType = "score"    // integer in [0,10]
	TypeDecimal  ColumnType = "decimal"  // e.g. avg_score "2.3"
	TypeBool     ColumnType = "bool"     // "Y" / "N"
	TypeDate     ColumnType = "date"     // 2006-01-02
	TypeDateTime ColumnType = "datetime" // RFC 3339
)

// Check reports whether a raw cell value is representable as this type.
// Empty cells pass: required-field policy belongs to the repositories.
func (t ColumnType) Check(value string) error {
	if value == "" {
		return nil
	}
	switch t {
	case TypeString:
		return nil
	case TypeInteger:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("not an integer: %q", value)
		}
	case TypeScore:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("not an integer: %q", value)
		}
		if n < 0 || n > 10 {
			return fmt.Errorf("score %d outside [0,10]", n)
		}
	case TypeDecimal:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("not a number: %q", value)
		}
	case TypeBool:
		if value != "Y" && value != "N" {
			return fmt.Errorf("not Y/N: %q", value)
		}
	case TypeDate:
		if _, err := time.Parse("2006-01-02", value); err != nil {
			return fmt.Errorf("not a date: %q", value)
		}
	case TypeDateTime:
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			return fmt.Errorf("not a timestamp: %q", value)
		}
	default:
		return fmt.Errorf("unknown column type %q", t)
	}
	return nil
}

// Column is one (name, semantic type) pair in a table schema.
type Column struct {
	Name string
	Type ColumnType
}

// registry is the process-wide schema declaration: per logical table, the
// ordered required columns. It is constructed once and never mutated.
// Once a column ships here it is never removed or renamed; evolution is
// append-only (see the reconciler).
var registry = map[string][]Column{
	TableReports: {
		{"report_id", TypeString},
		{"patient_id", TypeString},
		{"date", TypeDate},
		{"timestamp", TypeDateTime},
		{"report_method", TypeString},
		{"overall_score", TypeScore},
		{"pain_score", TypeScore},
		{"fatigue_score", TypeScore},
		{"dyspnea_score", TypeScore},
		{"cough_score", TypeScore},
		{"sleep_score", TypeScore},
		{"appetite_score", TypeScore},
		{"mood_score", TypeScore},
		{"pain_description", TypeString},
		{"fatigue_description", TypeString},
		{"dyspnea_description", TypeString},
		{"cough_description", TypeString},
		{"sleep_description", TypeString},
		{"appetite_description", TypeString},
		{"mood_description", TypeString},
		{"has_fever", TypeBool},
		{"has_wound_issue", TypeBool},
		{"has_blood_in_sputum", TypeBool},
		{"open_ended_1", TypeString},
		{"open_ended_2", TypeString},
		{"additional_notes", TypeString},
		{"avg_score", TypeDecimal},
		{"max_score_item", TypeString},
		{"alert_level", TypeString},
		{"alert_handled", TypeBool},
		{"handled_by", TypeString},
		{"handled_time", TypeDateTime},
		{"handling_action", TypeString},
		{"handling_notes", TypeString},
	},
	TableConversations: {
		{"message_id", TypeString},
		{"session_id", TypeString},
		{"patient_id", TypeString},
		{"role", TypeString},
		{"content", TypeString},
		{"source", TypeString},
		{"input_method", TypeString},
		{"detected_intent", TypeString},
		{"detected_emotion", TypeString},
		{"timestamp", TypeDateTime},
		{"annotated_intent", TypeString},
		{"annotated_emotion", TypeString},
		{"annotated_entities", TypeString},
		{"annotator_id", TypeString},
		{"annotation_time", TypeDateTime},
		{"needs_review", TypeBool},
	},
	TableAchievements: {
		{"record_id", TypeString},
		{"patient_id", TypeString},
		{"achievement_id", TypeString},
		{"achievement_name", TypeString},
		{"achievement_type", TypeString},
		{"unlocked_date", TypeDate},
		{"points_earned", TypeInteger},
	},
	TableCompliance: {
		{"record_id", TypeString},
		{"patient_id", TypeString},
		{"date", TypeDate},
		{"expected_report", TypeBool},
		{"actual_report", TypeBool},
		{"reminder_level", TypeInteger},
		{"reminder_sent", TypeBool},
		{"reminder_sent_time", TypeDateTime},
		{"response_received", TypeBool},
	},
}

// tableOrder keeps reconciliation runs deterministic.
var tableOrder = []string{TableReports, TableConversations, TableAchievements, TableCompliance}

// Tables returns the logical table names in their fixed order.
func Tables() []string {
	names := make([]string, len(tableOrder))
	copy(names, tableOrder)
	return names
}

// Columns returns the ordered required columns of a logical table.
func Columns(table string) ([]Column, error) {
	cols, ok := registry[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	out := make([]Column, len(cols))
	copy(out, cols)
	return out, nil
}

// ColumnNames returns just the ordered column names of a logical table.
func ColumnNames(table string) ([]string, error) {
	cols, err := Columns(table)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names, nil
}

// ColumnByName looks up a single column definition.
func ColumnByName(table, name string) (Column, bool) {
	cols, ok := registry[table]
	if !ok {
		return Column{}, false
	}
	for _, c := range cols {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
