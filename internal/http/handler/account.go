package handler

import (
	"net/http"
	"strings"

	"github.com/jaekwang-park/plantcare-api/internal/service"
)

// AccountHandler serves the public /api/v1/auth/* endpoints.
type AccountHandler struct {
	svc *service.AccountService
}

func NewAccountHandler(svc *service.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type confirmRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type refreshRequest struct {
	Email        string `json:"email"`
	RefreshToken string `json:"refresh_token"`
}

type logoutRequest struct {
	AccessToken string `json:"access_token"`
}

func (h *AccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	switch strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/auth/"), "/") {
	case "signup":
		h.handleSignUp(w, r)
	case "confirm-signup":
		h.handleConfirmSignUp(w, r)
	case "login":
		h.handleLogin(w, r)
	case "refresh":
		h.handleRefresh(w, r)
	case "logout":
		h.handleLogout(w, r)
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	}
}

func (h *AccountHandler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out, err := h.svc.SignUp(r.Context(), service.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, out)
}

func (h *AccountHandler) handleConfirmSignUp(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.svc.ConfirmSignUp(r.Context(), req.Email, req.Code); err != nil {
		handleServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "email confirmed"})
}

func (h *AccountHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, out)
}

func (h *AccountHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out, err := h.svc.Refresh(r.Context(), req.Email, req.RefreshToken)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, out)
}

func (h *AccountHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.svc.Logout(r.Context(), req.AccessToken); err != nil {
		handleServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// ProfileHandler serves /api/v1/me for the signed-in gardener.
type ProfileHandler struct {
	svc *service.AccountService
}

func NewProfileHandler(svc *service.AccountService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type profileRequest struct {
	Nickname string `json:"nickname"`
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gardener, ok := gardenerID(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		g, err := h.svc.Profile(r.Context(), gardener)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, g)
	case http.MethodPatch:
		var req profileRequest
		if !decodeBody(w, r, &req) {
			return
		}
		g, err := h.svc.UpdateProfile(r.Context(), gardener, req.Nickname)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, g)
	default:
		methodNotAllowed(w)
	}
}
