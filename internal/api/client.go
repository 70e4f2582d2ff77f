// Package api is the GameTracker REST API client. One Client serves the
// whole surface; operations are grouped per domain (auth, games, library,
// reviews, forum) in one file each. Token attachment and expiry recovery
// happen below this layer, in the gateway transport.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gametracker/gametracker/internal/log"
	"github.com/gametracker/gametracker/internal/session"
	"github.com/gametracker/gametracker/internal/version"
)

// fallbackMessage is shown when the server returned no usable error body.
const fallbackMessage = "the GameTracker API returned an error"

// Client is the GameTracker API client
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	store  *session.Store
	logger *log.Logger
}

// NewClient creates an API client. The http.Client is expected to carry
// the gateway transport; the session store is handed to the auth
// operations, which are the only writers of session state.
func NewClient(baseURL string, httpClient *http.Client, store *session.Store, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: httpClient,
		store:      store,
		logger:     logger.With("component", "api"),
	}
}

// APIError is a non-2xx response from the API. Beyond the message it
// carries the backend's flags that callers branch on: NeedsVerification
// distinguishes an unverified account from bad credentials, Expired marks
// the token-expiry 401 handled by the gateway.
type APIError struct {
	StatusCode        int    `json:"-"`
	Message           string `json:"message"`
	NeedsVerification bool   `json:"needsVerification"`
	Email             string `json:"email"`
	Expired           bool   `json:"expired"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", fallbackMessage, e.StatusCode)
}

// doRequest performs an HTTP request with a JSON body
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// parseResponse decodes the response body into target, or turns a non-2xx
// response into an *APIError with a human-readable fallback message.
func parseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)

		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil {
			// Not a JSON body; keep whatever text the server sent.
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// get is a convenience wrapper for GET + decode.
func (c *Client) get(ctx context.Context, path string, target any) error {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return parseResponse(resp, target)
}

// messageResponse is the confirmation shape many endpoints return.
type messageResponse struct {
	Message string `json:"message"`
}

// pathEscape escapes a single path segment.
func pathEscape(segment string) string {
	return url.PathEscape(segment)
}
