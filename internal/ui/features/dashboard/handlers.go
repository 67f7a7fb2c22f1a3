// Package dashboard provides the penguin dashboard feature: the page, the
// control refresh endpoint and the live update stream.
package dashboard

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/penguineda/internal/charts"
	"github.com/leapstack-labs/penguineda/internal/engine"
	"github.com/leapstack-labs/penguineda/internal/penguins"
	"github.com/leapstack-labs/penguineda/internal/ui/features/dashboard/pages"
	dashboardtypes "github.com/leapstack-labs/penguineda/internal/ui/features/dashboard/types"
	"github.com/leapstack-labs/penguineda/internal/ui/notifier"
)

const (
	sessionName = "penguineda"
	sessionKey  = "session_id"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Handlers provides HTTP handlers for the dashboard feature.
type Handlers struct {
	engine       *engine.Engine
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	repoURL      string
	isDev        bool
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(eng *engine.Engine, sessionStore sessions.Store, notify *notifier.Notifier, repoURL string, isDev bool, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		engine:       eng,
		sessionStore: sessionStore,
		notifier:     notify,
		repoURL:      repoURL,
		isDev:        isDev,
		logger:       logger,
	}
}

// DashboardPage renders the page with every display filled in.
func (h *Handlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	data, err := h.buildDashboardData(s.Snapshot())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	renders.WithLabelValues("page").Inc()

	if err := pages.DashboardPage("Dashboard", h.isDev, data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Refresh applies the sidebar signals to the caller's session and patches
// every display.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals dashboardtypes.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(err)
		return
	}

	invalid := validate.Struct(signals)
	if invalid != nil {
		// Out-of-range values are normalized by the session.
		h.logger.Debug("invalid dashboard signals", slog.String("error", invalid.Error()))
	}

	s := h.session(w, r)
	stale := s.Apply(signals.Selection(), signals.Params())
	h.logger.Debug("dashboard refresh", slog.String("session", s.ID), slog.Bool("stale", stale))

	sse := datastar.NewSSE(w, r)
	if invalid != nil {
		_ = sse.ConsoleError(invalid)
	}

	snap := s.Snapshot()
	if err := h.sendDisplays(sse, snap); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.MarshalAndPatchSignals(dashboardtypes.SignalsFor(snap.Selection, snap.Params)); err != nil {
		_ = sse.ConsoleError(err)
	}
	renders.WithLabelValues("refresh").Inc()

	// Other tabs on the same session follow along.
	h.notifier.Notify(s.ID)
}

// Updates is the long-lived SSE endpoint for the dashboard. It sends nothing
// up front; the page is already rendered. Each ping re-renders the session's
// sidebar, signals and displays.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe(s.ID)
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.sendUpdate(sse, s); err != nil {
				_ = sse.ConsoleError(err)
				// Keep the stream; the next ping may succeed.
			}
		}
	}
}

// DensitySVG serves the session's density histogram as a standalone image.
func (h *Handlers) DensitySVG(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	snap := s.Snapshot()

	var buf bytes.Buffer
	d := charts.DensityHistogram(snap.Rows, snap.Params.Attribute, snap.Params.SeabornBins)
	if err := d.RenderSVG(&buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (h *Handlers) sendUpdate(sse *datastar.ServerSentEventGenerator, s *engine.Session) error {
	snap := s.Snapshot()
	if err := sse.MarshalAndPatchSignals(dashboardtypes.SignalsFor(snap.Selection, snap.Params)); err != nil {
		return err
	}
	if err := sse.PatchElementTempl(pages.Sidebar(h.controls(snap))); err != nil {
		return err
	}
	if err := h.sendDisplays(sse, snap); err != nil {
		return err
	}
	renders.WithLabelValues("update").Inc()
	return nil
}

// sendDisplays patches the summary and all five displays from one snapshot,
// then asks the client to redraw the plotly figures.
func (h *Handlers) sendDisplays(sse *datastar.ServerSentEventGenerator, snap engine.Snapshot) error {
	data, err := h.buildDashboardData(snap)
	if err != nil {
		return err
	}

	patches := []templ.Component{
		pages.Summary(data.Records, data.Total),
		pages.Table(dashboardtypes.DataTableID, data.Table),
		pages.Table(dashboardtypes.DataGridID, data.Grid),
		pages.Figure(dashboardtypes.PlotlyHistogramID, data.Histogram),
		pages.Density(data.Density),
		pages.Figure(dashboardtypes.ScatterplotID, data.Scatter),
	}
	for _, c := range patches {
		if err := sse.PatchElementTempl(c); err != nil {
			return err
		}
	}
	return sse.ExecuteScript(pages.RenderFiguresScript())
}

// buildDashboardData runs every display adapter over the snapshot's rows.
func (h *Handlers) buildDashboardData(snap engine.Snapshot) (dashboardtypes.DashboardData, error) {
	start := time.Now()
	p := snap.Params

	var svg bytes.Buffer
	if err := charts.DensityHistogram(snap.Rows, p.Attribute, p.SeabornBins).RenderSVG(&svg); err != nil {
		return dashboardtypes.DashboardData{}, err
	}

	data := dashboardtypes.DashboardData{
		Controls:  h.controls(snap),
		Records:   len(snap.Rows),
		Total:     len(h.engine.Source()),
		Table:     charts.DataTable(snap.Rows),
		Grid:      charts.DataGrid(snap.Rows, snap.Indices),
		Histogram: charts.PlotlyHistogram(snap.Rows, p.Attribute, p.PlotlyBins),
		Density:   svg.String(),
		Scatter:   charts.Scatter(snap.Rows, p.Attribute),
	}
	renderDuration.Observe(time.Since(start).Seconds())
	return data, nil
}

func (h *Handlers) controls(snap engine.Snapshot) dashboardtypes.Controls {
	return dashboardtypes.Controls{
		Selection:  snap.Selection,
		Params:     snap.Params,
		Attributes: penguins.AllAttributes(),
		Species:    penguins.AllSpecies(),
		Islands:    penguins.AllIslands(),
		RepoURL:    h.repoURL,
	}
}

// session resolves the caller's dashboard session from the cookie, creating
// one (and setting the cookie) when it is missing or was evicted. It must
// run before any response body is written.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) *engine.Session {
	// A cookie that fails to decode still yields a fresh session.
	cookie, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		h.logger.Debug("discarding session cookie", slog.String("error", err.Error()))
	}
	if cookie == nil {
		cookie = sessions.NewSession(h.sessionStore, sessionName)
	}

	id, _ := cookie.Values[sessionKey].(string)
	s, _ := h.engine.Session(id)
	if s.ID != id {
		cookie.Values[sessionKey] = s.ID
		if err := cookie.Save(r, w); err != nil {
			h.logger.Warn("failed to save session cookie", slog.String("error", err.Error()))
		}
	}
	return s
}
