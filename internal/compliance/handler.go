package compliance

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ai-care-backend/internal/httpx"
)

const defaultWindowDays = 7

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	patientID, windowDays, ok := params(w, r)
	if !ok {
		return
	}
	stat, err := h.svc.Rate(r.Context(), patientID, windowDays)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stat)
}

func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	patientID, windowDays, ok := params(w, r)
	if !ok {
		return
	}
	written, err := h.svc.Snapshot(r.Context(), patientID, windowDays)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]int{"rows_written": written})
}

func params(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	patientID := r.URL.Query().Get("patient_id")
	if patientID == "" {
		httpx.BadRequest(w, "patient_id is required")
		return "", 0, false
	}
	windowDays := defaultWindowDays
	if raw := r.URL.Query().Get("window_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.BadRequest(w, "window_days must be an integer")
			return "", 0, false
		}
		windowDays = n
	}
	return patientID, windowDays, true
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/compliance", h.Rate)
	r.Post("/compliance/snapshot", h.Snapshot)
}
