package report

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ai-care-backend/internal/httpx"
	"ai-care-backend/internal/tabular"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// submitRequest uses pointers for the score fields so a missing score is
// distinguishable from an explicit zero. Missing scores are validation
// failures, not silent zeros: a zeroed-out symptom would mask a real
// safety signal.
type submitRequest struct {
	ReportID     string `json:"report_id"`
	PatientID    string `json:"patient_id"`
	Date         string `json:"date"`
	ReportMethod string `json:"report_method"`

	OverallScore  *int `json:"overall_score"`
	PainScore     *int `json:"pain_score"`
	FatigueScore  *int `json:"fatigue_score"`
	DyspneaScore  *int `json:"dyspnea_score"`
	CoughScore    *int `json:"cough_score"`
	SleepScore    *int `json:"sleep_score"`
	AppetiteScore *int `json:"appetite_score"`
	MoodScore     *int `json:"mood_score"`

	PainDescription     string `json:"pain_description"`
	FatigueDescription  string `json:"fatigue_description"`
	DyspneaDescription  string `json:"dyspnea_description"`
	CoughDescription    string `json:"cough_description"`
	SleepDescription    string `json:"sleep_description"`
	AppetiteDescription string `json:"appetite_description"`
	MoodDescription     string `json:"mood_description"`

	HasFever         bool `json:"has_fever"`
	HasWoundIssue    bool `json:"has_wound_issue"`
	HasBloodInSputum bool `json:"has_blood_in_sputum"`

	OpenEnded1      string `json:"open_ended_1"`
	OpenEnded2      string `json:"open_ended_2"`
	AdditionalNotes string `json:"additional_notes"`
}

func (req *submitRequest) toRecord() (*Record, error) {
	var v []tabular.Violation
	scores := map[string]*int{
		"overall_score":  req.OverallScore,
		"pain_score":     req.PainScore,
		"fatigue_score":  req.FatigueScore,
		"dyspnea_score":  req.DyspneaScore,
		"cough_score":    req.CoughScore,
		"sleep_score":    req.SleepScore,
		"appetite_score": req.AppetiteScore,
		"mood_score":     req.MoodScore,
	}
	for _, field := range []string{
		"overall_score", "pain_score", "fatigue_score", "dyspnea_score",
		"cough_score", "sleep_score", "appetite_score", "mood_score",
	} {
		if scores[field] == nil {
			v = append(v, tabular.Violation{Field: field, Message: "missing"})
		}
	}

	var date time.Time
	if req.Date != "" {
		var err error
		if date, err = time.Parse(dateLayout, req.Date); err != nil {
			v = append(v, tabular.Violation{Field: "date", Message: "must be YYYY-MM-DD"})
		}
	}
	if len(v) > 0 {
		return nil, &tabular.ValidationError{Violations: v}
	}

	return &Record{
		ReportID:     req.ReportID,
		PatientID:    req.PatientID,
		Date:         date,
		Method:       req.ReportMethod,
		OverallScore: *req.OverallScore,
		Scores: SymptomScores{
			Pain:     *req.PainScore,
			Fatigue:  *req.FatigueScore,
			Dyspnea:  *req.DyspneaScore,
			Cough:    *req.CoughScore,
			Sleep:    *req.SleepScore,
			Appetite: *req.AppetiteScore,
			Mood:     *req.MoodScore,
		},
		Notes: SymptomNotes{
			Pain:     req.PainDescription,
			Fatigue:  req.FatigueDescription,
			Dyspnea:  req.DyspneaDescription,
			Cough:    req.CoughDescription,
			Sleep:    req.SleepDescription,
			Appetite: req.AppetiteDescription,
			Mood:     req.MoodDescription,
		},
		Safety: SafetyFlags{
			Fever:         req.HasFever,
			WoundIssue:    req.HasWoundIssue,
			BloodInSputum: req.HasBloodInSputum,
		},
		OpenEnded1:      req.OpenEnded1,
		OpenEnded2:      req.OpenEnded2,
		AdditionalNotes: req.AdditionalNotes,
	}, nil
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, "invalid request body")
		return
	}
	rec, err := req.toRecord()
	if err != nil {
		httpx.Error(w, err)
		return
	}
	result, err := h.svc.Submit(r.Context(), rec)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := Filter{
		PatientID:  r.URL.Query().Get("patient_id"),
		Descending: r.URL.Query().Get("order") == "desc",
	}
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			httpx.BadRequest(w, "from must be YYYY-MM-DD")
			return
		}
		f.From = t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			httpx.BadRequest(w, "to must be YYYY-MM-DD")
			return
		}
		f.To = t
	}
	records, err := h.svc.History(r.Context(), f)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) PendingAlerts(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.PendingAlerts(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, records)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/reports", h.Submit)
	r.Get("/reports", h.List)
	r.Get("/reports/alerts", h.PendingAlerts)
}
