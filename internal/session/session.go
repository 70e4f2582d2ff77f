// Package session holds the client-side login state: the access/refresh
// token pair and the profile of the signed-in user, persisted across runs.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the profile of the signed-in user as returned by the API.
// It is replaced wholesale on login or profile update, never patched.
type User struct {
	ID          string `json:"_id"`
	Username    string `json:"username"`
	DisplayName string `json:"nombre"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar,omitempty"`
}

// Session is the combination of tokens and user profile representing
// "who is logged in". A session is complete when both tokens and the
// user are present; anything less is treated as anonymous.
type Session struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// Complete reports whether the session carries both tokens and a profile.
func (s Session) Complete() bool {
	return s.AccessToken != "" && s.RefreshToken != "" && s.User != nil
}

// AccessTokenExpiry extracts the expiry claim from the access token
// without verifying the signature. Verification is the server's job; the
// client only uses the claim for display ("expires in 12m"). Returns
// false when the token is absent or not a parseable JWT.
func (s Session) AccessTokenExpiry() (time.Time, bool) {
	if s.AccessToken == "" {
		return time.Time{}, false
	}

	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.AccessToken, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
