// Package gateway centralizes bearer-token attachment and expiry recovery
// for every call to the GameTracker API. Call sites stay oblivious to the
// token lifecycle: an expired access token is refreshed and the original
// request resent exactly once; a failed refresh tears the session down.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/gametracker/gametracker/internal/errors"
	"github.com/gametracker/gametracker/internal/log"
	"github.com/gametracker/gametracker/internal/session"
)

const refreshTimeout = 15 * time.Second

// Transport is an http.RoundTripper that injects the stored access token
// into outbound requests and recovers from expired-token 401 responses.
//
// Recovery contract, per original request:
//   - at most one refresh attempt, coalesced with refreshes triggered by
//     concurrent requests hitting expiry at the same time
//   - at most one resend, whose outcome is returned as-is
//   - on refresh failure the session store is cleared, OnSessionExpired
//     fires, and the refresh failure propagates to the caller
type Transport struct {
	base       http.RoundTripper
	store      *session.Store
	refreshURL string
	logger     *log.Logger

	// onSessionExpired is invoked after the store has been cleared
	// because a refresh failed or no refresh token was available. The
	// TUI routes to the login view; the plain CLI prints a hint.
	onSessionExpired func()

	// refreshes coalesces concurrent refresh attempts: every request
	// that sees expiry with the same stored refresh token waits on one
	// shared refresh call instead of racing its own.
	refreshes singleflight.Group
}

// Option configures a Transport.
type Option func(*Transport)

// WithBase sets the underlying transport. Defaults to http.DefaultTransport.
func WithBase(rt http.RoundTripper) Option {
	return func(t *Transport) { t.base = rt }
}

// WithLogger sets the logger. Defaults to the process-wide logger.
func WithLogger(logger *log.Logger) Option {
	return func(t *Transport) { t.logger = logger }
}

// WithOnSessionExpired sets the callback fired after session teardown.
func WithOnSessionExpired(fn func()) Option {
	return func(t *Transport) { t.onSessionExpired = fn }
}

// New creates a Transport refreshing against baseURL's refresh endpoint.
func New(baseURL string, store *session.Store, opts ...Option) *Transport {
	t := &Transport{
		base:       http.DefaultTransport,
		store:      store,
		refreshURL: strings.TrimRight(baseURL, "/") + "/auth/refresh-token",
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.DefaultLogger()
	}
	t.logger = t.logger.With("component", "gateway")
	return t
}

// Client returns an http.Client using this transport.
func (t *Transport) Client(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: t,
		Timeout:   timeout,
	}
}

// attempt carries one logical outbound request together with its one-shot
// retry budget. The budget lives here, not as a hidden flag on a shared
// request object.
type attempt struct {
	original *http.Request
	retried  bool

	// usedToken is the access token attached to the last send, used to
	// detect that a concurrent request already rotated the pair.
	usedToken string
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	a := &attempt{original: req}

	resp, err := t.send(req.Context(), a)
	if err != nil {
		return nil, err
	}

	expired, resp := t.expiredUnauthorized(resp)
	if !expired {
		return resp, nil
	}

	// Requests whose body cannot be replayed are never resent.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	a.retried = true
	resp.Body.Close()

	// A concurrent request may have rotated the pair while this one was
	// in flight; then the stored token is already fresh and the resend
	// needs no refresh of its own.
	if current := t.store.AccessToken(); current == "" || current == a.usedToken {
		// This attempt carried a token but the store is empty now: a
		// concurrent refresh failure (or a logout) already ended the
		// session. Fail without tearing it down a second time.
		if current == "" && a.usedToken != "" {
			return nil, errors.NewSessionExpiredError(fmt.Errorf("session already cleared"))
		}

		refreshToken := t.store.RefreshToken()
		if refreshToken == "" {
			err := fmt.Errorf("no refresh token stored")
			t.teardown(err)
			return nil, errors.NewSessionExpiredError(err)
		}

		if err := t.refresh(refreshToken); err != nil {
			return nil, errors.NewSessionExpiredError(err)
		}
	}

	t.logger.Debug("token refreshed, resending original request",
		"method", req.Method, "url", req.URL.Path)

	// Resend exactly once; the outcome, including another 401, is
	// returned to the caller untouched.
	return t.send(req.Context(), a)
}

// send issues one attempt of the request on the base transport with the
// current access token and a fresh request ID attached.
func (t *Transport) send(ctx context.Context, a *attempt) (*http.Response, error) {
	req := a.original.Clone(ctx)
	if req.Body != nil && a.retried {
		body, err := a.original.GetBody()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeAPIRequest, "could not replay request body", err)
		}
		req.Body = body
	}

	token := t.store.AccessToken()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	a.usedToken = token
	req.Header.Set("X-Request-ID", uuid.NewString())

	return t.base.RoundTrip(req)
}

// unauthorizedBody is the JSON shape of a 401 from the API. The expired
// flag distinguishes token expiry from bad credentials or insufficient
// permission, which must pass through untouched.
type unauthorizedBody struct {
	Message string `json:"message"`
	Expired bool   `json:"expired"`
}

// expiredUnauthorized inspects a response for the expiry-flagged 401.
// The body is consumed for inspection and restored so that callers of a
// passed-through response still get to read it.
func (t *Transport) expiredUnauthorized(resp *http.Response) (bool, *http.Response) {
	if resp.StatusCode != http.StatusUnauthorized {
		return false, resp
	}

	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return false, resp
	}

	var body unauthorizedBody
	if err := json.Unmarshal(data, &body); err != nil {
		return false, resp
	}
	return body.Expired, resp
}

// refresh obtains a fresh token pair, coalescing concurrent attempts that
// observed the same refresh token. Teardown on failure happens inside the
// shared call so it runs once no matter how many requests were waiting.
func (t *Transport) refresh(refreshToken string) error {
	_, err, _ := t.refreshes.Do(refreshToken, func() (any, error) {
		if err := t.doRefresh(refreshToken); err != nil {
			t.teardown(err)
			return nil, err
		}
		return nil, nil
	})
	return err
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// doRefresh performs the actual refresh call on the base transport,
// bypassing this transport so the refresh itself is never intercepted.
func (t *Transport) doRefresh(refreshToken string) error {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	payload, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	t.logger.Debug("refreshing access token")

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		var body unauthorizedBody
		if json.Unmarshal(data, &body) == nil && body.Message != "" {
			return fmt.Errorf("refresh rejected: %s", body.Message)
		}
		return fmt.Errorf("refresh rejected with status %d", resp.StatusCode)
	}

	var tokens refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return fmt.Errorf("could not decode refresh response: %w", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		return fmt.Errorf("refresh response missing tokens")
	}

	if err := t.store.SetTokens(tokens.AccessToken, tokens.RefreshToken); err != nil {
		t.logger.WithError(err).Warn("refreshed tokens not persisted")
	}
	return nil
}

// teardown clears the session and notifies the UI, equivalent to an
// explicit logout.
func (t *Transport) teardown(cause error) {
	t.logger.WithError(cause).Warn("session refresh failed, logging out")
	t.store.Clear()
	if t.onSessionExpired != nil {
		t.onSessionExpired()
	}
}
