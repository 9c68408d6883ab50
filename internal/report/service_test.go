package report

import (
	"context"
	"testing"
)

type fakeRepo struct {
	records []Record
	lastF   Filter
}

func (f *fakeRepo) Append(ctx context.Context, rec *Record) (string, error) {
	cls, err := Classify(rec.Scores, rec.Safety)
	if err != nil {
		return "", err
	}
	rec.ReportID = "RPT-fake"
	rec.AvgScore = cls.AvgScore
	rec.MaxScoreItem = cls.MaxScoreItem
	rec.Alert = cls.Level
	f.records = append(f.records, *rec)
	return rec.ReportID, nil
}

func (f *fakeRepo) Query(ctx context.Context, filter Filter) ([]Record, error) {
	f.lastF = filter
	return f.records, nil
}

func (f *fakeRepo) Update(ctx context.Context, reportID string, patch map[string]string) error {
	return nil
}

func TestSubmitReturnsDerivedFields(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, testLogger())

	res, err := svc.Submit(context.Background(), &Record{
		PatientID: "P-001",
		Method:    MethodAIChat,
		Scores:    SymptomScores{Dyspnea: 8},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.ReportID != "RPT-fake" || res.Level != AlertRed || res.MaxScoreItem != "dyspnea" {
		t.Errorf("result = %+v", res)
	}
}

func TestPendingAlertsFiltersHandledAndGreen(t *testing.T) {
	repo := &fakeRepo{records: []Record{
		{ReportID: "a", Alert: AlertRed},
		{ReportID: "b", Alert: AlertRed, AlertHandled: true},
		{ReportID: "c", Alert: AlertYellow},
		{ReportID: "d", Alert: AlertGreen},
	}}
	svc := NewService(repo, testLogger())

	pending, err := svc.PendingAlerts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Fatalf("got %d pending, want 2", len(pending))
	}
	if pending[0].ReportID != "a" || pending[1].ReportID != "c" {
		t.Errorf("pending = %v", pending)
	}
	if !repo.lastF.Descending {
		t.Error("pending alerts should query most recent first")
	}
}
