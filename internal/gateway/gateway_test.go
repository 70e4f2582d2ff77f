package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gametracker/gametracker/internal/session"
)

func newStore(t *testing.T) *session.Store {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"), nil)
	require.NoError(t, store.Save(session.Session{
		AccessToken:  "OLD",
		RefreshToken: "R-OLD",
		User:         &session.User{ID: "u1", Username: "alice"},
	}))
	return store
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// stubAPI is a GameTracker backend stub: /data wants a valid bearer,
// /auth/refresh-token rotates the pair.
type stubAPI struct {
	mu            sync.Mutex
	validToken    string
	refreshOK     bool
	dataHits      int32
	refreshHits   int32
	refreshDelay  time.Duration
	lastDataBody  string
	seenRequestID bool
}

func (s *stubAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.dataHits, 1)
		if r.Header.Get("X-Request-ID") != "" {
			s.mu.Lock()
			s.seenRequestID = true
			s.mu.Unlock()
		}
		if body, _ := io.ReadAll(r.Body); len(body) > 0 {
			s.mu.Lock()
			s.lastDataBody = string(body)
			s.mu.Unlock()
		}
		s.mu.Lock()
		valid := "Bearer " + s.validToken
		s.mu.Unlock()
		if r.Header.Get("Authorization") != valid {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"message": "token expired",
				"expired": true,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.refreshHits, 1)
		if s.refreshDelay > 0 {
			time.Sleep(s.refreshDelay)
		}
		var req refreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if !s.refreshOK {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid refresh token"})
			return
		}
		require.Equal(t, "R-OLD", req.RefreshToken)
		s.mu.Lock()
		s.validToken = "NEW"
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, refreshResponse{AccessToken: "NEW", RefreshToken: "R-NEW"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAttachesBearerAndRequestID(t *testing.T) {
	store := newStore(t)
	api := &stubAPI{validToken: "OLD"}
	srv := api.server(t)

	client := New(srv.URL, store).Client(5 * time.Second)
	resp, err := client.Get(srv.URL + "/data")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.dataHits))
	assert.True(t, api.seenRequestID)
}

func TestRefreshAndRetryOnce(t *testing.T) {
	store := newStore(t)
	api := &stubAPI{validToken: "NEVER-VALID-INITIALLY", refreshOK: true}
	srv := api.server(t)

	client := New(srv.URL, store).Client(5 * time.Second)
	resp, err := client.Get(srv.URL + "/data")
	require.NoError(t, err)
	defer resp.Body.Close()

	// The original request was resent exactly once and its outcome
	// reached the caller.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&api.dataHits))
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.refreshHits))

	// The rotated pair is stored.
	assert.Equal(t, "NEW", store.AccessToken())
	assert.Equal(t, "R-NEW", store.RefreshToken())
	assert.True(t, store.IsAuthenticated(), "profile survives a refresh")
}

func TestNoSecondRetryOnRepeatedExpiry(t *testing.T) {
	store := newStore(t)

	// Refresh succeeds but the data endpoint keeps claiming expiry.
	mux := http.NewServeMux()
	var dataHits, refreshHits int32
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&dataHits, 1)
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "token expired", "expired": true})
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshHits, 1)
		writeJSON(w, http.StatusOK, refreshResponse{AccessToken: "NEW", RefreshToken: "R-NEW"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, store).Client(5 * time.Second)
	resp, err := client.Get(srv.URL + "/data")
	require.NoError(t, err)
	defer resp.Body.Close()

	// The second 401 is handed back untouched; no refresh loop.
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&dataHits))
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshHits))
}

func TestRefreshFailureTearsDownSession(t *testing.T) {
	store := newStore(t)
	api := &stubAPI{validToken: "NEVER-VALID", refreshOK: false}
	srv := api.server(t)

	var expiredCalls int32
	transport := New(srv.URL, store, WithOnSessionExpired(func() {
		atomic.AddInt32(&expiredCalls, 1)
	}))

	client := transport.Client(5 * time.Second)
	resp, err := client.Get(srv.URL + "/data")
	if resp != nil {
		resp.Body.Close()
	}

	require.Error(t, err)
	assert.Contains(t, err.Error(), "session has expired")

	// Terminal: store cleared, login redirect fired exactly once.
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.AccessToken())
	assert.Empty(t, store.RefreshToken())
	assert.Equal(t, int32(1), atomic.LoadInt32(&expiredCalls))
}

func TestMissingRefreshTokenIsTerminal(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"), nil)
	require.NoError(t, store.Save(session.Session{
		AccessToken: "OLD",
		User:        &session.User{ID: "u1"},
	}))

	api := &stubAPI{validToken: "NEVER-VALID"}
	srv := api.server(t)

	var expiredCalls int32
	transport := New(srv.URL, store, WithOnSessionExpired(func() {
		atomic.AddInt32(&expiredCalls, 1)
	}))

	resp, err := transport.Client(5 * time.Second).Get(srv.URL + "/data")
	if resp != nil {
		resp.Body.Close()
	}

	require.Error(t, err)
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, int32(1), atomic.LoadInt32(&expiredCalls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&api.refreshHits), "no refresh without a refresh token")
}

func TestPlainUnauthorizedPassesThrough(t *testing.T) {
	store := newStore(t)

	mux := http.NewServeMux()
	var refreshHits int32
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshHits, 1)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, store).Client(5 * time.Second)
	resp, err := client.Get(srv.URL + "/data")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(0), atomic.LoadInt32(&refreshHits))

	// Body is restored for the caller after inspection.
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "invalid credentials")

	// Session untouched by a non-expiry 401.
	assert.True(t, store.IsAuthenticated())
}

func TestOtherStatusesUntouched(t *testing.T) {
	store := newStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	}))
	defer srv.Close()

	client := New(srv.URL, store).Client(5 * time.Second)
	resp, err := client.Get(srv.URL + "/whatever")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.True(t, store.IsAuthenticated())
}

func TestRequestBodyReplayedOnRetry(t *testing.T) {
	store := newStore(t)
	api := &stubAPI{validToken: "NEVER-VALID-INITIALLY", refreshOK: true}
	srv := api.server(t)

	client := New(srv.URL, store).Client(5 * time.Second)
	resp, err := client.Post(srv.URL+"/data", "application/json", strings.NewReader(`{"puntuacion":5}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&api.dataHits))

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, `{"puntuacion":5}`, api.lastDataBody, "retried request carries the original body")
}

func TestExpiryAfterTeardownDoesNotTearDownAgain(t *testing.T) {
	store := newStore(t)

	// The session ends while the request is in flight (a concurrent
	// request's failed refresh, or a logout): by the time the expiry
	// 401 comes back, the store is already empty.
	mux := http.NewServeMux()
	var refreshHits int32
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		store.Clear()
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "token expired", "expired": true})
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshHits, 1)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var expiredCalls int32
	transport := New(srv.URL, store, WithOnSessionExpired(func() {
		atomic.AddInt32(&expiredCalls, 1)
	}))

	resp, err := transport.Client(5 * time.Second).Get(srv.URL + "/data")
	if resp != nil {
		resp.Body.Close()
	}

	require.Error(t, err)
	assert.Contains(t, err.Error(), "session has expired")

	// Whoever cleared the session already announced it; this straggler
	// neither refreshes nor fires the callback again.
	assert.Equal(t, int32(0), atomic.LoadInt32(&refreshHits))
	assert.Equal(t, int32(0), atomic.LoadInt32(&expiredCalls))
}

func TestConcurrentExpiryCoalescesRefresh(t *testing.T) {
	store := newStore(t)
	api := &stubAPI{validToken: "NEVER-VALID-INITIALLY", refreshOK: true, refreshDelay: 50 * time.Millisecond}
	srv := api.server(t)

	client := New(srv.URL, store).Client(5 * time.Second)

	const workers = 8
	var wg sync.WaitGroup
	statuses := make([]int, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := client.Get(srv.URL + "/data")
			if err != nil {
				errs[i] = err
				return
			}
			defer resp.Body.Close()
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, http.StatusOK, statuses[i])
	}

	// All expiring requests share one refresh call.
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.refreshHits))
	assert.Equal(t, "NEW", store.AccessToken())
}
