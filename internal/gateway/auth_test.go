package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lingualearn/lingualearn/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sessionBody = `{
	"access_token": "at-123",
	"token_type": "bearer",
	"expires_in": 3600,
	"refresh_token": "rt-456",
	"user": {
		"id": "2b6f0cc9-04a6-4ed1-9a9c-9f1f0e2d4a11",
		"email": "ana@example.com",
		"created_at": "2026-01-15T10:00:00Z",
		"user_metadata": {"full_name": "Ana García"}
	}
}`

func TestSignInWithPassword(t *testing.T) {
	var gotPath, gotGrant string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotGrant = r.URL.Query().Get("grant_type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sessionBody))
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "anon-key", zap.NewNop())

	sess, err := c.SignInWithPassword(context.Background(), "ana@example.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, "/auth/v1/token", gotPath)
	assert.Equal(t, "password", gotGrant)
	assert.Equal(t, "ana@example.com", gotBody["email"])
	assert.Equal(t, "secret123", gotBody["password"])

	assert.Equal(t, "at-123", sess.AccessToken)
	assert.Equal(t, "rt-456", sess.RefreshToken)
	assert.Equal(t, "2b6f0cc9-04a6-4ed1-9a9c-9f1f0e2d4a11", sess.User.ID)
	assert.Equal(t, "Ana García", sess.User.FullName)
}

func TestSignIn_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "anon-key", zap.NewNop())

	_, err := c.SignInWithPassword(context.Background(), "ana@example.com", "wrong")
	require.Error(t, err)

	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid login credentials", apiErr.Message)
}

func TestSignUp_SendsMetadata(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/signup" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sessionBody))
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "anon-key", zap.NewNop())

	_, err := c.SignUp(context.Background(), "ana@example.com", "secret123", "Ana García")
	require.NoError(t, err)

	data, ok := gotBody["data"].(map[string]any)
	require.True(t, ok, "signup body has no metadata object")
	assert.Equal(t, "Ana García", data["full_name"])
}

func TestGetUser_ExpiredToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"msg":"JWT expired"}`))
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "anon-key", zap.NewNop())

	_, err := c.GetUser(context.Background(), "stale-token")
	require.Error(t, err)
	assert.True(t, gateway.IsUnauthorized(err))
}

func TestRequestPasswordReset(t *testing.T) {
	var gotRedirect string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/recover" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		gotRedirect = r.URL.Query().Get("redirect_to")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "anon-key", zap.NewNop())

	err := c.RequestPasswordReset(context.Background(), "ana@example.com", "https://app.example.com/reset-password")
	require.NoError(t, err)
	assert.Equal(t, "https://app.example.com/reset-password", gotRedirect)
	assert.Equal(t, "ana@example.com", gotBody["email"])
}

func TestUpdateUserMetadata(t *testing.T) {
	var gotMethod string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "2b6f0cc9-04a6-4ed1-9a9c-9f1f0e2d4a11",
			"email": "ana@example.com",
			"user_metadata": {"full_name": "Ana María García"}
		}`))
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "anon-key", zap.NewNop())

	user, err := c.UpdateUserMetadata(context.Background(), "at-123", map[string]any{"full_name": "Ana María García"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "Ana María García", user.FullName)

	data, ok := gotBody["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ana María García", data["full_name"])
}
