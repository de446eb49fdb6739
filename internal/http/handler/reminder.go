package handler

import (
	"net/http"
	"strings"

	"github.com/jaekwang-park/plantcare-api/internal/service"
)

type ReminderHandler struct {
	svc *service.ReminderService
}

func NewReminderHandler(svc *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{svc: svc}
}

func (h *ReminderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gardener, ok := gardenerID(w, r)
	if !ok {
		return
	}

	reminderID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/reminders"), "/")
	if strings.Contains(reminderID, "/") {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
		return
	}

	if reminderID != "" {
		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r, gardener, reminderID)
		case http.MethodDelete:
			h.handleDelete(w, r, gardener, reminderID)
		default:
			methodNotAllowed(w)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r, gardener)
	case http.MethodPost:
		h.handleSchedule(w, r, gardener)
	default:
		methodNotAllowed(w)
	}
}

type scheduleRequest struct {
	SessionID string `json:"session_id"`
	PlantID   int    `json:"plant_id"`
	NotifyAt  string `json:"notify_at"`
}

func (h *ReminderHandler) handleSchedule(w http.ResponseWriter, r *http.Request, gardener string) {
	var req scheduleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.svc.Schedule(r.Context(), gardener, service.ScheduleInput{
		SessionID: req.SessionID,
		PlantID:   req.PlantID,
		NotifyAt:  req.NotifyAt,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, res)
}

func (h *ReminderHandler) handleList(w http.ResponseWriter, r *http.Request, gardener string) {
	reminders, err := h.svc.List(r.Context(), gardener)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"reminders": reminders})
}

func (h *ReminderHandler) handleGet(w http.ResponseWriter, r *http.Request, gardener, reminderID string) {
	rem, err := h.svc.Get(r.Context(), gardener, reminderID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, rem)
}

func (h *ReminderHandler) handleDelete(w http.ResponseWriter, r *http.Request, gardener, reminderID string) {
	if err := h.svc.Delete(r.Context(), gardener, reminderID); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
