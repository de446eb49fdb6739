package handler

import (
	"net/http"
	"strings"

	"github.com/jaekwang-park/plantcare-api/internal/service"
)

// CatalogHandler serves /api/v1/catalog/sessions and its sub-resources.
type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gardener, ok := gardenerID(w, r)
	if !ok {
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1/catalog/sessions")
	path = strings.Trim(path, "/")

	parts := strings.SplitN(path, "/", 2)
	sessionID := parts[0]
	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}

	switch {
	case sessionID == "":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.handleOpen(w, r, gardener)
	case action == "more":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.handleMore(w, r, gardener, sessionID)
	case action == "retry":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.handleRetry(w, r, gardener, sessionID)
	case action == "":
		switch r.Method {
		case http.MethodGet:
			h.handleView(w, r, gardener, sessionID)
		case http.MethodDelete:
			h.handleClose(w, r, gardener, sessionID)
		default:
			methodNotAllowed(w)
		}
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	}
}

func (h *CatalogHandler) handleOpen(w http.ResponseWriter, r *http.Request, gardener string) {
	view, err := h.svc.Open(r.Context(), gardener)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, view)
}

func (h *CatalogHandler) handleView(w http.ResponseWriter, r *http.Request, gardener, sessionID string) {
	view, err := h.svc.View(r.Context(), gardener, sessionID, r.URL.Query().Get("environment"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

type loadMoreRequest struct {
	// DistanceFromEnd is how far the list is from its end, as reported by the
	// scroll view. Omitted means the end was reached.
	DistanceFromEnd float64 `json:"distance"`
}

func (h *CatalogHandler) handleMore(w http.ResponseWriter, r *http.Request, gardener, sessionID string) {
	var req loadMoreRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.svc.LoadMore(r.Context(), gardener, sessionID, req.DistanceFromEnd)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func (h *CatalogHandler) handleRetry(w http.ResponseWriter, r *http.Request, gardener, sessionID string) {
	view, err := h.svc.Retry(r.Context(), gardener, sessionID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

func (h *CatalogHandler) handleClose(w http.ResponseWriter, r *http.Request, gardener, sessionID string) {
	if err := h.svc.Close(r.Context(), gardener, sessionID); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
