// Package router sets up HTTP routes for the UI server.
package router

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/penguineda/internal/engine"
	dashboardFeature "github.com/leapstack-labs/penguineda/internal/ui/features/dashboard"
	"github.com/leapstack-labs/penguineda/internal/ui/notifier"
	"github.com/leapstack-labs/penguineda/internal/ui/resources"
)

// ReloadTopic is the notifier topic that makes dev-mode pages reload.
const ReloadTopic = "__reload__"

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(
	router chi.Router,
	eng *engine.Engine,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	repoURL string,
	isDev bool,
	logger *slog.Logger,
) error {
	// Hot reload endpoint for dev mode
	if isDev {
		setupReload(router, notify)
	}

	router.Handle("/static/*", resources.Handler())
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", healthz(eng))

	return dashboardFeature.SetupRoutes(router, eng, sessionStore, notify, repoURL, isDev, logger)
}

func healthz(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":   "ok",
			"records":  len(eng.Source()),
			"sessions": eng.Sessions().Len(),
		})
	}
}

// setupReload serves /reload, which reloads the page once after a server
// restart and again whenever ReloadTopic is notified, and /hotreload, which
// lets external tooling trigger that.
func setupReload(router chi.Router, notify *notifier.Notifier) {
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		pings := notify.Subscribe(ReloadTopic)
		defer notify.Unsubscribe(pings)

		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-pings:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		notify.Notify(ReloadTopic)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
