package report

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	repo, _ := newTestRepo(t, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
	h := NewHandler(NewService(repo, testLogger()))
	r := chi.NewRouter()
	RegisterRoutes(r, h)
	return r
}

const validBody = `{
	"patient_id": "P-001",
	"report_method": "questionnaire",
	"overall_score": 3,
	"pain_score": 2, "fatigue_score": 3, "dyspnea_score": 7,
	"cough_score": 1, "sleep_score": 2, "appetite_score": 1, "mood_score": 0
}`

func TestSubmitEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var res SubmitResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Level != AlertRed || res.MaxScoreItem != "dyspnea" || res.AvgScore != 2.3 {
		t.Errorf("result = %+v", res)
	}
	if !strings.HasPrefix(res.ReportID, "RPT-") {
		t.Errorf("report id = %q", res.ReportID)
	}
}

func TestSubmitMissingScoresIs422(t *testing.T) {
	router := newTestRouter(t)

	// pain_score absent entirely, mood_score null: both are violations,
	// never treated as zero.
	body := `{
		"patient_id": "P-001",
		"report_method": "questionnaire",
		"overall_score": 3,
		"fatigue_score": 3, "dyspnea_score": 2, "cough_score": 1,
		"sleep_score": 2, "appetite_score": 1, "mood_score": null
	}`
	req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Violations []struct {
			Field string `json:"field"`
		} `json:"violations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	fields := make(map[string]bool)
	for _, v := range res.Violations {
		fields[v.Field] = true
	}
	if !fields["pain_score"] || !fields["mood_score"] {
		t.Errorf("violations = %+v, want pain_score and mood_score flagged", res.Violations)
	}
}

func TestSubmitMalformedBodyIs400(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListEndpointFilters(t *testing.T) {
	router := newTestRouter(t)

	submit := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, submit)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed submit failed: %d", rec.Code)
	}

	list := httptest.NewRequest(http.MethodGet, "/reports?patient_id=P-001", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, list)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var records []Record
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	other := httptest.NewRequest(http.MethodGet, "/reports?patient_id=P-999", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, other)
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records for unknown patient, want 0", len(records))
	}

	bad := httptest.NewRequest(http.MethodGet, "/reports?from=15-06-2025", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, bad)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad from param: status = %d, want 400", rec.Code)
	}
}

func TestAlertsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	submit := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, submit)

	alerts := httptest.NewRequest(http.MethodGet, "/reports/alerts", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, alerts)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var records []Record
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Alert != AlertRed {
		t.Errorf("alerts = %v", records)
	}
}
