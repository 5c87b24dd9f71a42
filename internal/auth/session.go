package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// SessionCookieName is the cookie Clerk sets on the application domain.
const SessionCookieName = "__session"

var (
	ErrNoSession      = errors.New("no session token")
	ErrInvalidSession = errors.New("invalid session token")
)

// Session identifies an authenticated request. UserID is the provider-side
// (Clerk) user identifier, matching users.User.ClerkID.
type Session struct {
	UserID    string
	SessionID string
}

// SessionVerifier validates a session token and returns the subject.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (Session, error)
}

// TokenFromRequest extracts the session token from the __session cookie or,
// failing that, an Authorization bearer header.
func TokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if token := strings.TrimSpace(cookie.Value); token != "" {
			return token, nil
		}
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", ErrNoSession
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", ErrNoSession
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNoSession
	}
	return token, nil
}
