package dashboard

import (
	"context"
	"time"

	"ai-care-backend/internal/report"
)

// Stats is the staff landing-page summary.
type Stats struct {
	TodayReports  int `json:"today_reports"`
	PendingAlerts int `json:"pending_alerts"`
	RedAlerts     int `json:"red_alerts"`
	YellowAlerts  int `json:"yellow_alerts"`
}

// TrendPoint is one report in a patient's score trend.
type TrendPoint struct {
	Date     string           `json:"date"`
	AvgScore float64          `json:"avg_score"`
	Alert    report.AlertLevel `json:"alert_level"`
}

// ReportReader is the slice of the report repository this package needs.
type ReportReader interface {
	Query(ctx context.Context, f report.Filter) ([]report.Record, error)
}

type Service interface {
	Stats(ctx context.Context) (*Stats, error)

	// ScoreTrend returns a patient's average-score history over the
	// trailing window, oldest first, for charting.
	ScoreTrend(ctx context.Context, patientID string, windowDays int) ([]TrendPoint, error)
}

type service struct {
	reports ReportReader
	now     func() time.Time
}

func NewService(reports ReportReader) Service {
	return &service{reports: reports, now: time.Now}
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	records, err := s.reports.Query(ctx, report.Filter{})
	if err != nil {
		return nil, err
	}
	today := s.now().Format("2006-01-02")

	stats := &Stats{}
	for _, rec := range records {
		if rec.Date.Format("2006-01-02") == today {
			stats.TodayReports++
		}
		if rec.AlertHandled {
			continue
		}
		switch rec.Alert {
		case report.AlertRed:
			stats.PendingAlerts++
			stats.RedAlerts++
		case report.AlertYellow:
			stats.PendingAlerts++
			stats.YellowAlerts++
		}
	}
	return stats, nil
}

func (s *service) ScoreTrend(ctx context.Context, patientID string, windowDays int) ([]TrendPoint, error) {
	now := s.now()
	records, err := s.reports.Query(ctx, report.Filter{
		PatientID: patientID,
		From:      now.AddDate(0, 0, -(windowDays - 1)),
		To:        now,
	})
	if err != nil {
		return nil, err
	}
	trend := make([]TrendPoint, 0, len(records))
	for _, rec := range records {
		trend = append(trend, TrendPoint{
			Date:     rec.Date.Format("2006-01-02"),
			AvgScore: rec.AvgScore,
			Alert:    rec.Alert,
		})
	}
	return trend, nil
}
