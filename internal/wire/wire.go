package wire

import (
	"net/http"

	"tour-booking/internal/adaptor"
	"tour-booking/internal/data/repository"
	"tour-booking/internal/usecase"
	"tour-booking/pkg/middleware"
	"tour-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the wired router and the services the process lifecycle needs.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services and handlers on top of repo and mounts every route.
func Wiring(repo *repository.Repository, notifier usecase.Notifier, clock usecase.Clock, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, notifier, config, clock, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))

	r.Route("/api/bookings", func(r chi.Router) {
		wireReminder(r, handler.Reminder, config, logger)
		wireAvailability(r, handler.Availability)
		wireBooking(r, handler.Booking)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}
