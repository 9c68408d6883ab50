package report

import (
	"context"

	"github.com/sirupsen/logrus"
)

// SubmitResult is returned to the patient client after a successful
// submission: the assigned id plus the derived clinical fields.
type SubmitResult struct {
	ReportID     string     `json:"report_id"`
	Level        AlertLevel `json:"alert_level"`
	AvgScore     float64    `json:"avg_score"`
	MaxScoreItem string     `json:"max_score_item"`
}

type Service interface {
	Submit(ctx context.Context, rec *Record) (*SubmitResult, error)
	History(ctx context.Context, f Filter) ([]Record, error)

	// PendingAlerts returns unhandled red and yellow reports, most
	// recent first, for the staff dashboard.
	PendingAlerts(ctx context.Context) ([]Record, error)
}

type service struct {
	repo Repository
	log  *logrus.Logger
}

func NewService(repo Repository, log *logrus.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) Submit(ctx context.Context, rec *Record) (*SubmitResult, error) {
	id, err := s.repo.Append(ctx, rec)
	if err != nil {
		return nil, err
	}
	if rec.Alert == AlertRed {
		s.log.WithFields(logrus.Fields{
			"report_id":  id,
			"patient_id": rec.PatientID,
			"max_item":   rec.MaxScoreItem,
		}).Warn("red alert report submitted")
	}
	return &SubmitResult{
		ReportID:     id,
		Level:        rec.Alert,
		AvgScore:     rec.AvgScore,
		MaxScoreItem: rec.MaxScoreItem,
	}, nil
}

func (s *service) History(ctx context.Context, f Filter) ([]Record, error) {
	return s.repo.Query(ctx, f)
}

func (s *service) PendingAlerts(ctx context.Context) ([]Record, error) {
	all, err := s.repo.Query(ctx, Filter{Descending: true})
	if err != nil {
		return nil, err
	}
	pending := make([]Record, 0)
	for _, rec := range all {
		if (rec.Alert == AlertRed || rec.Alert == AlertYellow) && !rec.AlertHandled {
			pending = append(pending, rec)
		}
	}
	return pending, nil
}
