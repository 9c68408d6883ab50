package achievement

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ai-care-backend/internal/httpx"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type unlockRequest struct {
	RecordID        string `json:"record_id"`
	PatientID       string `json:"patient_id"`
	AchievementID   string `json:"achievement_id"`
	AchievementName string `json:"achievement_name"`
	Type            string `json:"achievement_type"`
	UnlockedDate    string `json:"unlocked_date"`
	PointsEarned    int    `json:"points_earned"`
}

func (h *Handler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req unlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, "invalid request body")
		return
	}
	rec := &Record{
		RecordID:        req.RecordID,
		PatientID:       req.PatientID,
		AchievementID:   req.AchievementID,
		AchievementName: req.AchievementName,
		Type:            req.Type,
		PointsEarned:    req.PointsEarned,
	}
	if req.UnlockedDate != "" {
		date, err := time.Parse(dateLayout, req.UnlockedDate)
		if err != nil {
			httpx.BadRequest(w, "unlocked_date must be YYYY-MM-DD")
			return
		}
		rec.UnlockedDate = date
	}
	id, err := h.svc.Unlock(r.Context(), rec)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"record_id": id})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.List(r.Context(), r.URL.Query().Get("patient_id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get("patient_id")
	if patientID == "" {
		httpx.BadRequest(w, "patient_id is required")
		return
	}
	stats, err := h.svc.Stats(r.Context(), patientID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/achievements", h.Unlock)
	r.Get("/achievements", h.List)
	r.Get("/achievements/stats", h.Stats)
}
