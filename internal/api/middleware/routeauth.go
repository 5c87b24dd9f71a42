package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/eventloom/server/internal/api/problem"
	"github.com/eventloom/server/internal/auth"
)

// Public routes. Everything not matched here requires an authenticated
// session: pages redirect to sign-in, API routes answer 401.
var (
	PublicPageRoutes = []string{
		"/",
		"/events/:id",
		"/sign-in",
		"/sign-up",
	}

	PublicAPIRoutes = []string{
		"/api/webhook/clerk",
		"/api/webhook/stripe",
		"/api/uploadthing",
	}

	// Infra endpoints sit outside the application surface and skip the
	// decision table entirely.
	infraRoutes = []string{
		"/healthz",
		"/readyz",
		"/metrics",
	}
)

const SignInPath = "/sign-in"

// RouteMatcher is a compiled set of path patterns. A pattern is a list of
// exact segments, where a ":name" segment matches any single non-empty
// segment. Patterns compile once at router construction, not per request.
type RouteMatcher struct {
	patterns [][]string
}

func NewRouteMatcher(patterns []string) *RouteMatcher {
	compiled := make([][]string, 0, len(patterns))
	for _, pattern := range patterns {
		compiled = append(compiled, splitPath(pattern))
	}
	return &RouteMatcher{patterns: compiled}
}

func (m *RouteMatcher) Matches(path string) bool {
	segments := splitPath(path)
	for _, pattern := range m.patterns {
		if matchSegments(pattern, segments) {
			return true
		}
	}
	return false
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func matchSegments(pattern, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i, part := range pattern {
		if strings.HasPrefix(part, ":") {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if part != segments[i] {
			return false
		}
	}
	return true
}

type sessionKeyType struct{}

var sessionKey sessionKeyType

// WithSession returns a context carrying the authenticated session.
func WithSession(ctx context.Context, session auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext returns the authenticated session, if any.
func SessionFromContext(ctx context.Context) (auth.Session, bool) {
	session, ok := ctx.Value(sessionKey).(auth.Session)
	return session, ok
}

// AccessPolicy classifies every inbound request as allowed, redirected to
// sign-in, or unauthorized, based on the public-route allow-lists and
// session validity.
type AccessPolicy struct {
	publicPages *RouteMatcher
	publicAPI   *RouteMatcher
	infra       *RouteMatcher
	verifier    auth.SessionVerifier
	env         string
}

func NewAccessPolicy(verifier auth.SessionVerifier, env string) *AccessPolicy {
	return &AccessPolicy{
		publicPages: NewRouteMatcher(PublicPageRoutes),
		publicAPI:   NewRouteMatcher(PublicAPIRoutes),
		infra:       NewRouteMatcher(infraRoutes),
		verifier:    verifier,
		env:         env,
	}
}

// Handler enforces the access decision table ahead of all application
// routes. Authenticated requests pass through with the session on the
// context; requests to public routes pass without one.
func (p *AccessPolicy) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.infra.Matches(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		if session, ok := p.authenticate(r); ok {
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
			return
		}

		path := r.URL.Path
		isAPI := strings.HasPrefix(path, "/api/")

		if isAPI {
			if p.publicAPI.Matches(path) {
				next.ServeHTTP(w, r)
				return
			}
			problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", problem.ErrUnauthorized, p.env)
			return
		}

		if p.publicPages.Matches(path) {
			next.ServeHTTP(w, r)
			return
		}

		redirect := SignInPath + "?redirect_url=" + url.QueryEscape(path)
		http.Redirect(w, r, redirect, http.StatusFound)
	})
}

func (p *AccessPolicy) authenticate(r *http.Request) (auth.Session, bool) {
	if p.verifier == nil {
		return auth.Session{}, false
	}
	token, err := auth.TokenFromRequest(r)
	if err != nil {
		return auth.Session{}, false
	}
	session, err := p.verifier.Verify(r.Context(), token)
	if err != nil {
		return auth.Session{}, false
	}
	return session, true
}
