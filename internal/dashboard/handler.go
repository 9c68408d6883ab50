package dashboard

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ai-care-backend/internal/httpx"
)

const defaultTrendDays = 30

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) ScoreTrend(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get("patient_id")
	if patientID == "" {
		httpx.BadRequest(w, "patient_id is required")
		return
	}
	windowDays := defaultTrendDays
	if raw := r.URL.Query().Get("window_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httpx.BadRequest(w, "window_days must be a positive integer")
			return
		}
		windowDays = n
	}
	trend, err := h.svc.ScoreTrend(r.Context(), patientID, windowDays)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, trend)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/dashboard/stats", h.Stats)
	r.Get("/dashboard/trend", h.ScoreTrend)
}
