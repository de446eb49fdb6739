package http

import (
	"net/http"

	"github.com/jaekwang-park/plantcare-api/internal/http/handler"
	"github.com/jaekwang-park/plantcare-api/internal/model"
	"github.com/jaekwang-park/plantcare-api/internal/service"
)

// Services are the dependencies of the API routes. Account may be nil when
// Cognito is not configured; the auth routes are then not mounted.
type Services struct {
	Catalog  *service.CatalogService
	Reminder *service.ReminderService
	Account  *service.AccountService
	DB       handler.Pinger

	PickerMode model.PickerDisplayMode
	PageSize   int
}

func NewRouter(svcs Services) http.Handler {
	mux := http.NewServeMux()

	// outside /api/v1 for load balancer health checks
	mux.Handle("/health", handler.NewHealthHandler(svcs.DB))
	mux.Handle("/api/v1/settings", handler.NewSettingsHandler(svcs.PickerMode, svcs.PageSize))

	catalog := handler.NewCatalogHandler(svcs.Catalog)
	mux.Handle("/api/v1/catalog/sessions", catalog)
	mux.Handle("/api/v1/catalog/sessions/", catalog)

	reminders := handler.NewReminderHandler(svcs.Reminder)
	mux.Handle("/api/v1/reminders", reminders)
	mux.Handle("/api/v1/reminders/", reminders)

	if svcs.Account != nil {
		mux.Handle("/api/v1/auth/", handler.NewAccountHandler(svcs.Account))
		mux.Handle("/api/v1/me", handler.NewProfileHandler(svcs.Account))
	}

	return mux
}
