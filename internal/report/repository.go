package report

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ai-care-backend/internal/schema"
	"ai-care-backend/internal/tabular"
)

const (
	dateLayout = "2006-01-02"
)

// Filter selects reports. All set predicates are ANDed together.
type Filter struct {
	PatientID  string
	From, To   time.Time // inclusive date bounds; zero means unbounded
	Descending bool
}

type Repository interface {
	// Append validates the record, recomputes the derived fields and
	// writes one new row. Returns the report id.
	Append(ctx context.Context, rec *Record) (string, error)

	// Query returns reports matching the filter, ordered by date then
	// timestamp ascending (descending if requested). The result is a
	// snapshot of the backend at query time, not a live view.
	Query(ctx context.Context, f Filter) ([]Record, error)

	// Update always fails: reports are immutable after creation.
	Update(ctx context.Context, reportID string, patch map[string]string) error
}

type sheetRepo struct {
	backend tabular.Backend
	log     *logrus.Logger
	now     func() time.Time
}

func NewRepository(backend tabular.Backend, log *logrus.Logger) Repository {
	return &sheetRepo{backend: backend, log: log, now: time.Now}
}

func (r *sheetRepo) Append(ctx context.Context, rec *Record) (string, error) {
	if err := validate(rec); err != nil {
		return "", err
	}

	// Derived fields are recomputed server-side; whatever the caller put
	// in AvgScore / MaxScoreItem / Alert is discarded.
	cls, err := Classify(rec.Scores, rec.Safety)
	if err != nil {
		return "", err
	}
	rec.AvgScore = cls.AvgScore
	rec.MaxScoreItem = cls.MaxScoreItem
	rec.Alert = cls.Level

	now := r.now()
	if rec.ReportID == "" {
		// Callers that need retry de-duplication supply their own id.
		rec.ReportID = "RPT-" + uuid.NewString()
	}
	if rec.Date.IsZero() {
		rec.Date = now
	}
	rec.Timestamp = now

	if err := r.backend.AppendRow(ctx, schema.TableReports, toRow(rec)); err != nil {
		return "", fmt.Errorf("append report: %w", err)
	}
	return rec.ReportID, nil
}

func (r *sheetRepo) Query(ctx context.Context, f Filter) ([]Record, error) {
	rows, err := r.backend.ReadRows(ctx, schema.TableReports)
	if err != nil {
		return nil, fmt.Errorf("read reports: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := fromRow(row)
		if err != nil {
			// A malformed legacy row must not brick every read; it is
			// skipped loudly, never coerced into defaults.
			r.log.WithFields(logrus.Fields{"row": i + 1, "error": err}).
				Warn("skipping unreadable report row")
			continue
		}
		if f.PatientID != "" && rec.PatientID != f.PatientID {
			continue
		}
		if !f.From.IsZero() && rec.Date.Before(truncateDay(f.From)) {
			continue
		}
		if !f.To.IsZero() && rec.Date.After(endOfDay(f.To)) {
			continue
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		less := a.Date.Before(b.Date) ||
			(a.Date.Equal(b.Date) && a.Timestamp.Before(b.Timestamp))
		if f.Descending {
			return !less && !(a.Date.Equal(b.Date) && a.Timestamp.Equal(b.Timestamp))
		}
		return less
	})
	return records, nil
}

func (r *sheetRepo) Update(ctx context.Context, reportID string, patch map[string]string) error {
	return fmt.Errorf("update report %s: %w", reportID, tabular.ErrImmutableRecord)
}

// validate checks every field against the table's domains and reports all
// violations at once. Nothing is written when it fails.
func validate(rec *Record) error {
	var v []tabular.Violation
	if rec.PatientID == "" {
		v = append(v, tabular.Violation{Field: "patient_id", Message: "required"})
	}
	switch rec.Method {
	case MethodAIChat, MethodQuestionnaire, MethodVoice:
	default:
		v = append(v, tabular.Violation{
			Field:   "report_method",
			Message: fmt.Sprintf("must be one of ai_chat, questionnaire, voice; got %q", rec.Method),
		})
	}
	v = appendScoreViolation(v, "overall_score", rec.OverallScore)
	v = appendScoreViolation(v, "pain_score", rec.Scores.Pain)
	v = appendScoreViolation(v, "fatigue_score", rec.Scores.Fatigue)
	v = appendScoreViolation(v, "dyspnea_score", rec.Scores.Dyspnea)
	v = appendScoreViolation(v, "cough_score", rec.Scores.Cough)
	v = appendScoreViolation(v, "sleep_score", rec.Scores.Sleep)
	v = appendScoreViolation(v, "appetite_score", rec.Scores.Appetite)
	v = appendScoreViolation(v, "mood_score", rec.Scores.Mood)
	if len(v) > 0 {
		return &tabular.ValidationError{Violations: v}
	}
	return nil
}

func appendScoreViolation(v []tabular.Violation, field string, score int) []tabular.Violation {
	if score < 0 || score > 10 {
		v = append(v, tabular.Violation{
			Field:   field,
			Message: fmt.Sprintf("score %d outside [0,10]", score),
		})
	}
	return v
}

func toRow(rec *Record) tabular.Row {
	return tabular.Row{
		"report_id":            rec.ReportID,
		"patient_id":           rec.PatientID,
		"date":                 rec.Date.Format(dateLayout),
		"timestamp":            rec.Timestamp.Format(time.RFC3339),
		"report_method":        rec.Method,
		"overall_score":        strconv.Itoa(rec.OverallScore),
		"pain_score":           strconv.Itoa(rec.Scores.Pain),
		"fatigue_score":        strconv.Itoa(rec.Scores.Fatigue),
		"dyspnea_score":        strconv.Itoa(rec.Scores.Dyspnea),
		"cough_score":          strconv.Itoa(rec.Scores.Cough),
		"sleep_score":          strconv.Itoa(rec.Scores.Sleep),
		"appetite_score":       strconv.Itoa(rec.Scores.Appetite),
		"mood_score":           strconv.Itoa(rec.Scores.Mood),
		"pain_description":     rec.Notes.Pain,
		"fatigue_description":  rec.Notes.Fatigue,
		"dyspnea_description":  rec.Notes.Dyspnea,
		"cough_description":    rec.Notes.Cough,
		"sleep_description":    rec.Notes.Sleep,
		"appetite_description": rec.Notes.Appetite,
		"mood_description":     rec.Notes.Mood,
		"has_fever":            formatBool(rec.Safety.Fever),
		"has_wound_issue":      formatBool(rec.Safety.WoundIssue),
		"has_blood_in_sputum":  formatBool(rec.Safety.BloodInSputum),
		"open_ended_1":         rec.OpenEnded1,
		"open_ended_2":         rec.OpenEnded2,
		"additional_notes":     rec.AdditionalNotes,
		"avg_score":            strconv.FormatFloat(rec.AvgScore, 'f', 1, 64),
		"max_score_item":       rec.MaxScoreItem,
		"alert_level":          string(rec.Alert),
		"alert_handled":        formatBool(rec.AlertHandled),
		"handled_by":           rec.HandledBy,
		"handled_time":         formatTime(rec.HandledTime),
		"handling_action":      rec.HandlingAction,
		"handling_notes":       rec.HandlingNotes,
	}
}

func fromRow(row tabular.Row) (Record, error) {
	var rec Record
	var err error

	rec.ReportID = row.Get("report_id")
	rec.PatientID = row.Get("patient_id")
	rec.Method = row.Get("report_method")
	if rec.Date, err = time.Parse(dateLayout, row.Get("date")); err != nil {
		return Record{}, fmt.Errorf("date: %w", err)
	}
	if ts := row.Get("timestamp"); ts != "" {
		if rec.Timestamp, err = time.Parse(time.RFC3339, ts); err != nil {
			return Record{}, fmt.Errorf("timestamp: %w", err)
		}
	}

	if rec.OverallScore, err = parseScore(row, "overall_score"); err != nil {
		return Record{}, err
	}
	if rec.Scores.Pain, err = parseScore(row, "pain_score"); err != nil {
		return Record{}, err
	}
	if rec.Scores.Fatigue, err = parseScore(row, "fatigue_score"); err != nil {
		return Record{}, err
	}
	if rec.Scores.Dyspnea, err = parseScore(row, "dyspnea_score"); err != nil {
		return Record{}, err
	}
	if rec.Scores.Cough, err = parseScore(row, "cough_score"); err != nil {
		return Record{}, err
	}
	if rec.Scores.Sleep, err = parseScore(row, "sleep_score"); err != nil {
		return Record{}, err
	}
	if rec.Scores.Appetite, err = parseScore(row, "appetite_score"); err != nil {
		return Record{}, err
	}
	if rec.Scores.Mood, err = parseScore(row, "mood_score"); err != nil {
		return Record{}, err
	}

	rec.Notes = SymptomNotes{
		Pain:     row.Get("pain_description"),
		Fatigue:  row.Get("fatigue_description"),
		Dyspnea:  row.Get("dyspnea_description"),
		Cough:    row.Get("cough_description"),
		Sleep:    row.Get("sleep_description"),
		Appetite: row.Get("appetite_description"),
		Mood:     row.Get("mood_description"),
	}
	rec.Safety = SafetyFlags{
		Fever:         row.Get("has_fever") == "Y",
		WoundIssue:    row.Get("has_wound_issue") == "Y",
		BloodInSputum: row.Get("has_blood_in_sputum") == "Y",
	}
	rec.OpenEnded1 = row.Get("open_ended_1")
	rec.OpenEnded2 = row.Get("open_ended_2")
	rec.AdditionalNotes = row.Get("additional_notes")

	if avg := row.Get("avg_score"); avg != "" {
		if rec.AvgScore, err = strconv.ParseFloat(avg, 64); err != nil {
			return Record{}, fmt.Errorf("avg_score: %w", err)
		}
	}
	rec.MaxScoreItem = row.Get("max_score_item")
	rec.Alert = AlertLevel(row.Get("alert_level"))
	rec.AlertHandled = row.Get("alert_handled") == "Y"
	rec.HandledBy = row.Get("handled_by")
	if ht := row.Get("handled_time"); ht != "" {
		if rec.HandledTime, err = time.Parse(time.RFC3339, ht); err != nil {
			return Record{}, fmt.Errorf("handled_time: %w", err)
		}
	}
	rec.HandlingAction = row.Get("handling_action")
	rec.HandlingNotes = row.Get("handling_notes")
	return rec, nil
}

func parseScore(row tabular.Row, column string) (int, error) {
	raw := row.Get(column)
	if raw == "" {
		return 0, fmt.Errorf("%s: empty cell", column)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", column, err)
	}
	return n, nil
}

func formatBool(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
