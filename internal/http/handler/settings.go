package handler

import (
	"net/http"

	"github.com/jaekwang-park/plantcare-api/internal/model"
)

// Settings are the client-facing knobs the app reads at start-up.
type Settings struct {
	PickerDisplayMode model.PickerDisplayMode `json:"picker_display_mode"`
	PageSize          int                     `json:"page_size"`
	AllEnvironments   model.EnvironmentTag    `json:"all_environments"`
}

type SettingsHandler struct {
	settings Settings
}

func NewSettingsHandler(mode model.PickerDisplayMode, pageSize int) *SettingsHandler {
	return &SettingsHandler{settings: Settings{
		PickerDisplayMode: mode,
		PageSize:          pageSize,
		AllEnvironments:   model.AllEnvironments(),
	}}
}

func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	WriteJSON(w, http.StatusOK, h.settings)
}
