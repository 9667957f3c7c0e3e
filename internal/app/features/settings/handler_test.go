package settings_test

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	uierrors "github.com/lingualearn/lingualearn/internal/app/features/errors"
	"github.com/lingualearn/lingualearn/internal/app/features/settings"
	"github.com/lingualearn/lingualearn/internal/app/system/auth"
	"github.com/lingualearn/lingualearn/internal/testutil"
)

func newTestHandler(t *testing.T) (*settings.Handler, *testutil.Backend) {
	t.Helper()
	backend := testutil.NewBackend(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager(strings.Repeat("s", 32), "lingualearn_test", "", false, logger)
	require.NoError(t, err)
	handler := settings.NewHandler(backend.Client(), sm, uierrors.NewErrorLogger(logger), logger)
	return handler, backend
}

func postSettings(handler *settings.Handler, user testutil.TestUser, form url.Values) *testutil.ResponseRecorder {
	req := httptest.NewRequest("POST", "/settings", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, user)
	rec := testutil.NewRecorder()

	// Validation failures re-render the form, which needs a booted
	// template engine. The assertions only look at side effects.
	func() {
		defer func() { _ = recover() }()
		handler.HandleSettingsPost(rec.ResponseRecorder, req)
	}()
	return rec
}

func TestHandleSettingsPost_SavesProfileAndMetadata(t *testing.T) {
	handler, backend := newTestHandler(t)
	user := testutil.StudentUser()

	rec := postSettings(handler, user, url.Values{
		"full_name": {"Ana María García"},
		"bio":       {"Aprendiendo francés para viajar."},
	})

	rec.AssertRedirect(t, "/settings?success=profile")

	upserts := backend.Upserts("user_profiles")
	require.Len(t, upserts, 1)
	assert.Equal(t, user.ID, upserts[0]["user_id"])
	assert.Equal(t, "Ana María García", upserts[0]["full_name"])
	assert.Equal(t, user.Email, upserts[0]["email"])
	assert.Equal(t, "Aprendiendo francés para viajar.", upserts[0]["bio"])

	updates := backend.MetadataUpdates()
	require.Len(t, updates, 1)
	data, ok := updates[0]["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ana María García", data["full_name"])
}

func TestHandleSettingsPost_StripsMarkupFromBio(t *testing.T) {
	handler, backend := newTestHandler(t)
	user := testutil.StudentUser()

	postSettings(handler, user, url.Values{
		"full_name": {"Ana"},
		"bio":       {"<b>Hola</b> mundo"},
	})

	upserts := backend.Upserts("user_profiles")
	require.Len(t, upserts, 1)
	assert.Equal(t, "Hola mundo", upserts[0]["bio"])
}

func TestHandleSettingsPost_EmptyNameRejected(t *testing.T) {
	handler, backend := newTestHandler(t)
	user := testutil.StudentUser()

	postSettings(handler, user, url.Values{
		"full_name": {"   "},
		"bio":       {"hola"},
	})

	assert.Empty(t, backend.Upserts("user_profiles"))
	assert.Empty(t, backend.MetadataUpdates())
}

func TestHandleSettingsPost_RequiresUser(t *testing.T) {
	handler, backend := newTestHandler(t)

	req := httptest.NewRequest("POST", "/settings", nil)
	rec := testutil.NewRecorder()
	handler.HandleSettingsPost(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/login")
	assert.Empty(t, backend.Upserts("user_profiles"))
}
