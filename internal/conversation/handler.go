package conversation

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

type appendRequest struct {
	MessageID   string `json:"message_id"`
	SessionID   string `json:"session_id"`
	PatientID   string `json:"patient_id"`
	Role        string `json:"role"`
	Content     string `json:"content"`
	Source      string `json:"source"`
	InputMethod string `json:"input_method"`
	Intent      string `json:"detected_intent"`
	Emotion     string `json:"detected_emotion"`
	Timestamp   string `json:"timestamp"`
}

func (h *Handler) Append(w http.ResponseWriter, r *http.Request) {
	var req appendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, "invalid request body")
		return
	}
	msg := &Message{
		MessageID:   req.MessageID,
		SessionID:   req.SessionID,
		PatientID:   req.PatientID,
		Role:        req.Role,
		Content:     req.Content,
		Source:      req.Source,
		InputMethod: req.InputMethod,
		Intent:      req.Intent,
		Emotion:     req.Emotion,
	}
	if req.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			httpx.BadRequest(w, "timestamp must be RFC 3339")
			return
		}
		msg.Timestamp = ts
	}
	id, err := h.svc.Append(r.Context(), msg)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"message_id": id})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := Filter{
		PatientID:  r.URL.Query().Get("patient_id"),
		SessionID:  r.URL.Query().Get("session_id"),
		Descending: r.URL.Query().Get("order") == "desc",
	}
	messages, err := h.svc.Messages(r.Context(), f)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, messages)
}

func (h *Handler) Sessions(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get("patient_id")
	if patientID == "" {
		httpx.BadRequest(w, "patient_id is required")
		return
	}
	sessions, err := h.svc.Sessions(r.Context(), patientID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sessions)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/conversations", h.Append)
	r.Get("/conversations", h.List)
	r.Get("/conversations/sessions", h.Sessions)
}
