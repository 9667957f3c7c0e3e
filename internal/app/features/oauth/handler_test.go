package oauth_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lingualearn/lingualearn/internal/app/features/oauth"
	"github.com/lingualearn/lingualearn/internal/app/system/auth"
	"github.com/lingualearn/lingualearn/internal/testutil"
)

func newTestHandler(t *testing.T) (*oauth.Handler, *testutil.Backend) {
	t.Helper()
	backend := testutil.NewBackend(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager(strings.Repeat("o", 32), "test-session", "", false, logger)
	require.NoError(t, err)

	handler := oauth.NewHandler(backend.Client(), sm, "http://localhost:3000",
		map[string]bool{"google": true}, logger)
	return handler, backend
}

func TestServeStart_RedirectsToAuthorize(t *testing.T) {
	handler, backend := newTestHandler(t)

	req := testutil.NewRequest("GET", "/auth/google")
	req = testutil.WithChiURLParam(req, "provider", "google")
	rec := testutil.NewRecorder()
	handler.ServeStart(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusTemporaryRedirect)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(loc.String(), backend.URL()+"/auth/v1/authorize"))

	q := loc.Query()
	assert.Equal(t, "google", q.Get("provider"))
	assert.NotEmpty(t, q.Get("state"))
	assert.NotEmpty(t, q.Get("code_challenge"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))

	// The handshake state rides in the session cookie.
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestServeStart_DisabledProvider(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewRequest("GET", "/auth/github")
	req = testutil.WithChiURLParam(req, "provider", "github")
	rec := testutil.NewRecorder()
	handler.ServeStart(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/login?error=provider_not_configured")
}

func TestServeCallback_StateMismatch(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewRequest("GET", "/auth/callback?state=forged&code=abc")
	rec := testutil.NewRecorder()
	handler.ServeCallback(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/login?error=invalid_state")
}

func TestServeCallback_ProviderError(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewRequest("GET", "/auth/callback?error=access_denied&error_description=user+cancelled")
	rec := testutil.NewRecorder()
	handler.ServeCallback(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/login?error=provider_denied")
}
