package handler

import (
	"dyslexiatutor/internal/model"
	"dyslexiatutor/internal/service"
	"dyslexiatutor/internal/transport/rest/middleware"
	"net/http"
)

// TutorHandler handles practice session endpoints
type TutorHandler struct {
	tutorSvc *service.TutorService
}

// NewTutorHandler creates a new tutor handler
func NewTutorHandler(tutorSvc *service.TutorService) *TutorHandler {
	return &TutorHandler{tutorSvc: tutorSvc}
}

// Landing handles GET|POST /v1/session/landing
func (h *TutorHandler) Landing(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	if err := h.tutorSvc.Landing(r.Context(), sessionID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// StartMode handles POST /v1/session/mode
func (h *TutorHandler) StartMode(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	var req model.StartModeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.tutorSvc.StartMode(r.Context(), sessionID, req.Mode)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// SubmitTurn handles POST /v1/session/turn
func (h *TutorHandler) SubmitTurn(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	var req model.SubmitTurnRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.tutorSvc.SubmitTurn(r.Context(), sessionID, req.Response)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Finish handles POST /v1/session/finish
func (h *TutorHandler) Finish(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	resp, err := h.tutorSvc.FinishSession(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Snapshot handles GET /v1/session
func (h *TutorHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	snap, err := h.tutorSvc.Snapshot(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// Narrate handles POST /v1/narrate
func (h *TutorHandler) Narrate(w http.ResponseWriter, r *http.Request) {
	var req model.NarrateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.tutorSvc.Narrate(r.Context(), req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
