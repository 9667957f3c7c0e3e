package logout_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	uierrors "github.com/lingualearn/lingualearn/internal/app/features/errors"
	"github.com/lingualearn/lingualearn/internal/app/features/logout"
	"github.com/lingualearn/lingualearn/internal/app/system/auth"
	"github.com/lingualearn/lingualearn/internal/testutil"
)

func newTestHandler(t *testing.T) (*logout.Handler, *testutil.Backend) {
	t.Helper()
	backend := testutil.NewBackend(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager(strings.Repeat("k", 32), "lingualearn_test", "", false, logger)
	require.NoError(t, err)
	errLog := uierrors.NewErrorLogger(logger)
	return logout.NewHandler(backend.Client(), sm, errLog, logger), backend
}

func TestServeLogout_RevokesTokenAndClearsSession(t *testing.T) {
	handler, backend := newTestHandler(t)
	user := testutil.StudentUser()

	req := testutil.NewAuthenticatedRequest("POST", "/logout", user)
	rec := testutil.NewRecorder()
	handler.ServeLogout(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/login")

	logouts := backend.Logouts()
	require.Len(t, logouts, 1)
	assert.Equal(t, user.AccessToken, logouts[0])

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestServeLogout_HTMXGetsClientRedirect(t *testing.T) {
	handler, _ := newTestHandler(t)
	user := testutil.StudentUser()

	req := testutil.NewAuthenticatedRequest("POST", "/logout", user)
	req.Header.Set("HX-Request", "true")
	rec := testutil.NewRecorder()
	handler.ServeLogout(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
}

func TestServeLogout_BackendFailureKeepsSession(t *testing.T) {
	handler, backend := newTestHandler(t)
	backend.Close()
	user := testutil.StudentUser()

	req := testutil.NewAuthenticatedRequest("POST", "/logout", user)
	req.Header.Set("HX-Request", "true")
	rec := testutil.NewRecorder()
	handler.ServeLogout(rec.ResponseRecorder, req)

	// The error surface renders instead of redirecting, and no
	// deletion cookie goes out.
	assert.Empty(t, rec.Header().Get("HX-Redirect"))
	for _, c := range rec.Result().Cookies() {
		assert.GreaterOrEqual(t, c.MaxAge, 0)
	}
}

func TestServeLogout_AnonymousJustRedirects(t *testing.T) {
	handler, backend := newTestHandler(t)

	req := testutil.NewRequest("GET", "/logout")
	rec := testutil.NewRecorder()
	handler.ServeLogout(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/login")
	assert.Empty(t, backend.Logouts())
}
