package dashboard

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/penguineda/internal/engine"
	"github.com/leapstack-labs/penguineda/internal/ui/notifier"
)

// SetupRoutes configures routes for the dashboard feature.
func SetupRoutes(
	router chi.Router,
	eng *engine.Engine,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	repoURL string,
	isDev bool,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(eng, sessionStore, notify, repoURL, isDev, logger)

	router.Get("/", handlers.DashboardPage)
	router.Route("/dashboard", func(r chi.Router) {
		r.Post("/refresh", handlers.Refresh)
		r.Get("/updates", handlers.Updates)
	})
	router.Get("/charts/density.svg", handlers.DensitySVG)

	return nil
}
