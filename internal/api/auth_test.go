package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gametracker/gametracker/internal/gateway"
	"github.com/gametracker/gametracker/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"), nil)
	transport := gateway.New(srv.URL, store)
	return NewClient(srv.URL, transport.Client(5*time.Second), store, nil), store
}

func jsonHandler(t *testing.T, status int, body any) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		require.NoError(t, json.NewEncoder(w).Encode(body))
	})
}

func TestLoginStoresSessionTriple(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "alice", creds["username"])
		require.Equal(t, "correct", creds["contraseña"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"user": {"_id": "u1", "username": "alice"},
			"accessToken": "A1",
			"refreshToken": "R1"
		}`))
	})

	client, store := newTestClient(t, handler)

	user, err := client.Login(context.Background(), Credentials{Username: "alice", Password: "correct"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	// The stored session equals exactly the returned triple.
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "A1", store.AccessToken())
	assert.Equal(t, "R1", store.RefreshToken())
	stored, ok := store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, session.User{ID: "u1", Username: "alice"}, stored)
}

func TestLoginBadCredentials(t *testing.T) {
	client, store := newTestClient(t, jsonHandler(t, http.StatusUnauthorized, map[string]string{
		"message": "invalid credentials",
	}))

	_, err := client.Login(context.Background(), Credentials{Username: "alice", Password: "wrong"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid credentials", apiErr.Message)
	assert.False(t, apiErr.NeedsVerification)

	// No session mutation on failure.
	assert.False(t, store.IsAuthenticated())
}

func TestLoginUnverifiedAccountIsDistinguishable(t *testing.T) {
	client, store := newTestClient(t, jsonHandler(t, http.StatusForbidden, map[string]any{
		"message":           "email not verified",
		"needsVerification": true,
		"email":             "alice@example.com",
	}))

	_, err := client.Login(context.Background(), Credentials{Username: "alice", Password: "correct"})
	require.Error(t, err)

	email, needs := IsNeedsVerification(err)
	assert.True(t, needs)
	assert.Equal(t, "alice@example.com", email)

	// A needs-verification login never populates the session.
	assert.False(t, store.IsAuthenticated())
}

func TestLoginIncompleteResponse(t *testing.T) {
	client, store := newTestClient(t, jsonHandler(t, http.StatusOK, map[string]any{
		"user": map[string]string{"_id": "u1"},
	}))

	_, err := client.Login(context.Background(), Credentials{Username: "alice", Password: "correct"})
	require.Error(t, err)
	assert.False(t, store.IsAuthenticated())
}

func TestLoginWithGoogle(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/google", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "google-credential", body["credential"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"user": {"_id": "u2", "username": "bob"},
			"accessToken": "A2",
			"refreshToken": "R2"
		}`))
	})

	client, store := newTestClient(t, handler)

	user, err := client.LoginWithGoogle(context.Background(), "google-credential")
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	assert.True(t, store.IsAuthenticated())
}

func TestRegisterDoesNotTouchSession(t *testing.T) {
	client, store := newTestClient(t, jsonHandler(t, http.StatusCreated, map[string]string{
		"message": "check your inbox to verify the account",
	}))

	msg, err := client.Register(context.Background(), RegisterInput{
		DisplayName: "Alice",
		Username:    "alice",
		Email:       "alice@example.com",
		Password:    "secret99",
	})
	require.NoError(t, err)
	assert.Equal(t, "check your inbox to verify the account", msg)
	assert.False(t, store.IsAuthenticated())
}

func TestLogoutClearsSessionOnServerFailure(t *testing.T) {
	client, store := newTestClient(t, jsonHandler(t, http.StatusInternalServerError, map[string]string{
		"message": "boom",
	}))
	require.NoError(t, store.Save(session.Session{
		AccessToken:  "A1",
		RefreshToken: "R1",
		User:         &session.User{ID: "u1", Username: "alice"},
	}))

	client.Logout(context.Background())
	assert.False(t, store.IsAuthenticated())
}

func TestLogoutClearsSessionWhenServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"), nil)
	require.NoError(t, store.Save(session.Session{
		AccessToken:  "A1",
		RefreshToken: "R1",
		User:         &session.User{ID: "u1"},
	}))

	transport := gateway.New(srv.URL, store)
	client := NewClient(srv.URL, transport.Client(time.Second), store, nil)

	client.Logout(context.Background())
	assert.False(t, store.IsAuthenticated())
}

func TestRestoreSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	seed := session.NewStore(path, nil)
	require.NoError(t, seed.Save(session.Session{
		AccessToken:  "A1",
		RefreshToken: "R1",
		User:         &session.User{ID: "u1", Username: "alice"},
	}))

	store := session.NewStore(path, nil)
	client := NewClient("http://unused", nil, store, nil)

	assert.True(t, client.RestoreSession())
	user, ok := store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "alice", user.Username)
}

func TestRestoreSessionAnonymous(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"), nil)
	client := NewClient("http://unused", nil, store, nil)
	assert.False(t, client.RestoreSession())
}

func TestProfileReplacesStoredUser(t *testing.T) {
	client, store := newTestClient(t, jsonHandler(t, http.StatusOK, map[string]string{
		"_id":      "u1",
		"username": "alice",
		"nombre":   "Alice Renamed",
	}))
	require.NoError(t, store.Save(session.Session{
		AccessToken:  "A1",
		RefreshToken: "R1",
		User:         &session.User{ID: "u1", Username: "alice", DisplayName: "Alice"},
	}))

	user, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Alice Renamed", user.DisplayName)

	stored, ok := store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "Alice Renamed", stored.DisplayName)
	assert.Equal(t, "A1", store.AccessToken(), "tokens survive a profile refresh")
}

func TestResendVerification(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/resend-verification", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "alice@example.com", body["email"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message": "verification email sent"}`))
	})

	client, _ := newTestClient(t, handler)

	msg, err := client.ResendVerification(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "verification email sent", msg)
}

func TestVerifyEmailEscapesToken(t *testing.T) {
	var gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message": "verified"}`))
	})

	client, _ := newTestClient(t, handler)

	msg, err := client.VerifyEmail(context.Background(), "tok/with?chars")
	require.NoError(t, err)
	assert.Equal(t, "verified", msg)
	assert.Equal(t, "/auth/verify-email/tok%2Fwith%3Fchars", gotPath)
}
