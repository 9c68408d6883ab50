package compliance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ai-care-backend/internal/report"
	"ai-care-backend/internal/schema"
	"ai-care-backend/internal/tabular"
)

const dateLayout = "2006-01-02"

// ReportReader is the slice of the report repository this package needs.
type ReportReader interface {
	Query(ctx context.Context, f report.Filter) ([]report.Record, error)
}

// Stat is the computed compliance view for one patient over a trailing
// window. It is derived on demand, never stored as the source of truth.
type Stat struct {
	PatientID     string  `json:"patient_id"`
	WindowDays    int     `json:"window_days"`
	DaysReported  int     `json:"days_reported"`
	Rate          float64 `json:"compliance_rate"`
	CurrentStreak int     `json:"current_streak"`
	TodayReported bool    `json:"today_reported"`
}

type Service interface {
	// Rate computes the fraction of days with at least one report in the
	// trailing window, capped at 1.0. A patient with no reports gets 0.
	Rate(ctx context.Context, patientID string, windowDays int) (*Stat, error)

	// Snapshot appends one denormalized row per window day to the
	// Compliance table for offline reporting. Write-only: nothing in
	// this core reads the snapshots back.
	Snapshot(ctx context.Context, patientID string, windowDays int) (int, error)
}

type service struct {
	reports ReportReader
	backend tabular.Backend
	now     func() time.Time
}

func NewService(reports ReportReader, backend tabular.Backend) Service {
	return &service{reports: reports, backend: backend, now: time.Now}
}

func (s *service) Rate(ctx context.Context, patientID string, windowDays int) (*Stat, error) {
	if err := checkWindow(windowDays); err != nil {
		return nil, err
	}
	dates, err := s.reportedDates(ctx, patientID)
	if err != nil {
		return nil, err
	}
	today := s.now()

	reported := 0
	for i := 0; i < windowDays; i++ {
		day := today.AddDate(0, 0, -i).Format(dateLayout)
		if dates[day] {
			reported++
		}
	}
	rate := float64(reported) / float64(windowDays)
	if rate > 1.0 {
		rate = 1.0
	}

	return &Stat{
		PatientID:     patientID,
		WindowDays:    windowDays,
		DaysReported:  reported,
		Rate:          rate,
		CurrentStreak: streak(dates, today),
		TodayReported: dates[today.Format(dateLayout)],
	}, nil
}

func (s *service) Snapshot(ctx context.Context, patientID string, windowDays int) (int, error) {
	if err := checkWindow(windowDays); err != nil {
		return 0, err
	}
	dates, err := s.reportedDates(ctx, patientID)
	if err != nil {
		return 0, err
	}
	today := s.now()

	written := 0
	for i := windowDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(dateLayout)
		actual := "N"
		if dates[day] {
			actual = "Y"
		}
		row := tabular.Row{
			"record_id":          "CMP-" + uuid.NewString(),
			"patient_id":         patientID,
			"date":               day,
			"expected_report":    "Y",
			"actual_report":      actual,
			"reminder_level":     "0",
			"reminder_sent":      "N",
			"reminder_sent_time": "",
			"response_received":  actual,
		}
		if err := s.backend.AppendRow(ctx, schema.TableCompliance, row); err != nil {
			return written, fmt.Errorf("append compliance snapshot: %w", err)
		}
		written++
	}
	return written, nil
}

func checkWindow(windowDays int) error {
	if windowDays <= 0 {
		return &tabular.ValidationError{Violations: []tabular.Violation{
			{Field: "window_days", Message: fmt.Sprintf("must be positive; got %d", windowDays)},
		}}
	}
	return nil
}

func (s *service) reportedDates(ctx context.Context, patientID string) (map[string]bool, error) {
	if patientID == "" {
		return nil, &tabular.ValidationError{Violations: []tabular.Violation{
			{Field: "patient_id", Message: "required"},
		}}
	}
	records, err := s.reports.Query(ctx, report.Filter{PatientID: patientID})
	if err != nil {
		return nil, err
	}
	dates := make(map[string]bool, len(records))
	for _, rec := range records {
		dates[rec.Date.Format(dateLayout)] = true
	}
	return dates, nil
}

// streak counts consecutive reported days ending today; if today has no
// report yet, the streak ending yesterday still counts.
func streak(dates map[string]bool, today time.Time) int {
	day := today
	if !dates[day.Format(dateLayout)] {
		day = day.AddDate(0, 0, -1)
	}
	count := 0
	for dates[day.Format(dateLayout)] {
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}
