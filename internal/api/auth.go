package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gametracker/gametracker/internal/session"
)

// Credentials are the login form fields. JSON tags follow the backend's
// wire contract.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"contraseña" validate:"required"`
}

// RegisterInput are the registration form fields.
type RegisterInput struct {
	DisplayName string `json:"nombre" validate:"required"`
	Username    string `json:"username" validate:"required,min=3"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"contraseña" validate:"required,min=6"`
}

// loginResponse is the token-issuing shape shared by login and Google auth.
type loginResponse struct {
	User         *session.User `json:"user"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
}

// Register creates an account. The account needs email verification
// before the first login, so no session state is touched; the server's
// confirmation message is returned for display.
func (c *Client) Register(ctx context.Context, input RegisterInput) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/register", input)
	if err != nil {
		return "", err
	}

	var msg messageResponse
	if err := parseResponse(resp, &msg); err != nil {
		return "", err
	}
	return msg.Message, nil
}

// Login authenticates with username and password. On success the
// returned token pair and profile are stored as the current session.
// An unverified account surfaces as an *APIError with NeedsVerification
// set (see IsNeedsVerification) rather than a generic failure; the
// session stays untouched on every failure path.
func (c *Client) Login(ctx context.Context, creds Credentials) (*session.User, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/login", creds)
	if err != nil {
		return nil, err
	}
	return c.establishSession(resp)
}

// LoginWithGoogle authenticates with a Google identity credential.
// Post-conditions are those of Login.
func (c *Client) LoginWithGoogle(ctx context.Context, credential string) (*session.User, error) {
	body := map[string]string{"credential": credential}
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/google", body)
	if err != nil {
		return nil, err
	}
	return c.establishSession(resp)
}

// establishSession stores the token triple from a successful login.
func (c *Client) establishSession(resp *http.Response) (*session.User, error) {
	var login loginResponse
	if err := parseResponse(resp, &login); err != nil {
		return nil, err
	}
	if login.User == nil || login.AccessToken == "" || login.RefreshToken == "" {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "login response missing tokens or user"}
	}

	if err := c.store.Save(session.Session{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
		User:         login.User,
	}); err != nil {
		// The in-memory session is live; only persistence failed.
		c.logger.WithError(err).Warn("session not persisted, login will not survive restart")
	}

	c.logger.Debug("logged in", "username", login.User.Username)
	return login.User, nil
}

// Logout ends the session. The server call is best-effort: client-side
// teardown must succeed regardless of server reachability, so a failure
// is logged and swallowed.
func (c *Client) Logout(ctx context.Context) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/logout", nil)
	if err != nil {
		c.logger.WithError(err).Warn("logout call failed, clearing session anyway")
	} else if err := parseResponse(resp, nil); err != nil {
		c.logger.WithError(err).Warn("logout rejected by server, clearing session anyway")
	}

	c.store.Clear()
}

// RestoreSession re-derives authenticated state from what is persisted
// on disk, without a network call. Used at application start.
func (c *Client) RestoreSession() bool {
	c.store.Load()
	return c.store.IsAuthenticated()
}

// VerifyEmail confirms an account with the token from the verification
// email.
func (c *Client) VerifyEmail(ctx context.Context, token string) (string, error) {
	var msg messageResponse
	if err := c.get(ctx, "/auth/verify-email/"+pathEscape(token), &msg); err != nil {
		return "", err
	}
	return msg.Message, nil
}

// ResendVerification requests a new verification email.
func (c *Client) ResendVerification(ctx context.Context, email string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/resend-verification", map[string]string{"email": email})
	if err != nil {
		return "", err
	}

	var msg messageResponse
	if err := parseResponse(resp, &msg); err != nil {
		return "", err
	}
	return msg.Message, nil
}

// RequestPasswordReset requests a password-reset email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/request-password-reset", map[string]string{"email": email})
	if err != nil {
		return "", err
	}

	var msg messageResponse
	if err := parseResponse(resp, &msg); err != nil {
		return "", err
	}
	return msg.Message, nil
}

// ResetPassword sets a new password using the token from the reset email.
func (c *Client) ResetPassword(ctx context.Context, token, password, confirm string) (string, error) {
	body := map[string]string{
		"contraseña":          password,
		"confirmarContraseña": confirm,
	}
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/reset-password/"+pathEscape(token), body)
	if err != nil {
		return "", err
	}

	var msg messageResponse
	if err := parseResponse(resp, &msg); err != nil {
		return "", err
	}
	return msg.Message, nil
}

// Profile fetches the authenticated user's profile. When logged in, the
// stored profile is replaced wholesale with the fresh one.
func (c *Client) Profile(ctx context.Context) (*session.User, error) {
	var user session.User
	if err := c.get(ctx, "/auth/profile", &user); err != nil {
		return nil, err
	}

	if sess := c.store.Snapshot(); sess.Complete() {
		sess.User = &user
		if err := c.store.Save(sess); err != nil {
			c.logger.WithError(err).Warn("refreshed profile not persisted")
		}
	}
	return &user, nil
}

// IsNeedsVerification reports whether err is a login failure caused by an
// unverified email, and returns the account email for the resend prompt.
func IsNeedsVerification(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.NeedsVerification {
		return apiErr.Email, true
	}
	return "", false
}
