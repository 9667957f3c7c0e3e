package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lingualearn/lingualearn/internal/app/system/auth"
)

const testSessionKey = "0123456789abcdef0123456789abcdef"

func newManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(testSessionKey, "lingualearn_session", "", false, zap.NewNop())
	require.NoError(t, err)
	return sm
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	_, err := auth.NewSessionManager("", "lingualearn_session", "", false, zap.NewNop())
	assert.Error(t, err)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestSignIn_RoundTrip(t *testing.T) {
	sm := newManager(t)

	// Sign in and capture the session cookie.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	err := sm.SignIn(rec, req, &auth.SessionUser{
		ID:           "u-1",
		Name:         "Ana García",
		Email:        "ana@example.com",
		AccessToken:  "at-123",
		RefreshToken: "rt-456",
	})
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// Replay the cookie through LoadSessionUser and read the context.
	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	}))

	req2 := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req2)

	require.NotNil(t, got)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, "Ana García", got.Name)
	assert.Equal(t, "at-123", got.AccessToken)
	assert.Equal(t, "rt-456", got.RefreshToken)
}

func TestLoadSessionUser_FetcherFailureMeansSignedOut(t *testing.T) {
	sm := newManager(t)
	sm.SetUserFetcher(func(ctx context.Context, accessToken string) (*auth.SessionUser, error) {
		return nil, errors.New("jwt expired")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, sm.SignIn(rec, req, &auth.SessionUser{
		ID: "u-1", AccessToken: "stale",
	}))

	var got *auth.SessionUser
	var present bool
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, present = auth.CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	}))

	req2 := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range rec.Result().Cookies() {
		req2.AddCookie(c)
	}
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)

	// The page still renders; it just renders signed out.
	assert.Equal(t, http.StatusOK, rec2.Code)
	assert.False(t, present)
	assert.Nil(t, got)
}

func TestLoadSessionUser_ExpiredTokenRefreshes(t *testing.T) {
	sm := newManager(t)
	sm.SetUserFetcher(func(ctx context.Context, accessToken string) (*auth.SessionUser, error) {
		if accessToken == "stale" {
			return nil, errors.New("jwt expired")
		}
		return &auth.SessionUser{ID: "u-1", Name: "Ana García", Email: "ana@example.com"}, nil
	})
	sm.SetSessionRefresher(func(ctx context.Context, refreshToken string) (*auth.SessionUser, error) {
		assert.Equal(t, "rt-old", refreshToken)
		return &auth.SessionUser{
			ID:           "u-1",
			Name:         "Ana García",
			Email:        "ana@example.com",
			AccessToken:  "at-new",
			RefreshToken: "rt-new",
		}, nil
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, sm.SignIn(rec, req, &auth.SessionUser{
		ID: "u-1", AccessToken: "stale", RefreshToken: "rt-old",
	}))

	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	}))

	req2 := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range rec.Result().Cookies() {
		req2.AddCookie(c)
	}
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)

	require.NotNil(t, got)
	assert.Equal(t, "at-new", got.AccessToken)
	assert.Equal(t, "rt-new", got.RefreshToken)
	// The rewritten session cookie goes out with the response.
	assert.NotEmpty(t, rec2.Result().Cookies())
}

func TestLoadSessionUser_RefreshRejectedMeansSignedOut(t *testing.T) {
	sm := newManager(t)
	sm.SetUserFetcher(func(ctx context.Context, accessToken string) (*auth.SessionUser, error) {
		return nil, errors.New("jwt expired")
	})
	sm.SetSessionRefresher(func(ctx context.Context, refreshToken string) (*auth.SessionUser, error) {
		return nil, errors.New("refresh token revoked")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, sm.SignIn(rec, req, &auth.SessionUser{
		ID: "u-1", AccessToken: "stale", RefreshToken: "rt-revoked",
	}))

	var present bool
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = auth.CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	}))

	req2 := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range rec.Result().Cookies() {
		req2.AddCookie(c)
	}
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)

	assert.Equal(t, http.StatusOK, rec2.Code)
	assert.False(t, present)
}

func TestLoadSessionUser_FetcherRefreshesIdentity(t *testing.T) {
	sm := newManager(t)
	sm.SetUserFetcher(func(ctx context.Context, accessToken string) (*auth.SessionUser, error) {
		assert.Equal(t, "at-123", accessToken)
		return &auth.SessionUser{ID: "u-1", Name: "Ana María García", Email: "ana@example.com"}, nil
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, sm.SignIn(rec, req, &auth.SessionUser{
		ID: "u-1", Name: "Ana García", AccessToken: "at-123", RefreshToken: "rt-456",
	}))

	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req2 := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range rec.Result().Cookies() {
		req2.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req2)

	require.NotNil(t, got)
	assert.Equal(t, "Ana María García", got.Name)
	// Tokens stay whatever the session held.
	assert.Equal(t, "at-123", got.AccessToken)
	assert.Equal(t, "rt-456", got.RefreshToken)
}

func TestRequireSignedIn_AllowsAuthenticated(t *testing.T) {
	sm := newManager(t)
	handler := sm.RequireSignedIn(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "u-1"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSignedIn_RedirectsBrowser(t *testing.T) {
	sm := newManager(t)
	handler := sm.RequireSignedIn(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/dashboard?tab=courses", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?return=%2Fdashboard%3Ftab%3Dcourses", rec.Header().Get("Location"))
}

func TestRequireSignedIn_HTMXGetsHXRedirect(t *testing.T) {
	sm := newManager(t)
	handler := sm.RequireSignedIn(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
	req.Header.Set("HX-Request", "true")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/login?return=%2Fdashboard%2Fstats", rec.Header().Get("HX-Redirect"))
}

func TestRequireSignedIn_APIGets401(t *testing.T) {
	sm := newManager(t)
	handler := sm.RequireSignedIn(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health/details", nil)
	req.Header.Set("Accept", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
}

func TestRedirectIfAuthenticated(t *testing.T) {
	sm := newManager(t)
	handler := sm.RedirectIfAuthenticated(okHandler())

	signedIn := httptest.NewRequest(http.MethodGet, "/login", nil)
	signedIn = auth.WithTestUser(signedIn, &auth.SessionUser{ID: "u-1"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedIn)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	anonymous := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, anonymous)
	assert.Equal(t, http.StatusOK, rec2.Code)
}

func TestClear_ExpiresCookie(t *testing.T) {
	sm := newManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, sm.SignIn(rec, req, &auth.SessionUser{ID: "u-1"}))

	req2 := httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, c := range rec.Result().Cookies() {
		req2.AddCookie(c)
	}
	rec2 := httptest.NewRecorder()
	require.NoError(t, sm.Clear(rec2, req2))

	cookies := rec2.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Less(t, cookies[0].MaxAge, 0)
}
