package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eventloom/server/internal/auth"
)

type stubVerifier struct {
	session auth.Session
	err     error
}

func (s *stubVerifier) Verify(_ context.Context, _ string) (auth.Session, error) {
	return s.session, s.err
}

func newPolicyHandler(t *testing.T, verifier auth.SessionVerifier) (http.Handler, *int) {
	t.Helper()
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	policy := NewAccessPolicy(verifier, "test")
	return policy.Handler(next), &calls
}

func TestAccessPolicyPublicPageAllowed(t *testing.T) {
	handler, calls := newPolicyHandler(t, &stubVerifier{err: auth.ErrInvalidSession})

	for _, path := range []string{"/", "/events/123", "/sign-in", "/sign-up"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
	require.Equal(t, 4, *calls)
}

func TestAccessPolicyUnauthenticatedAPIRejected(t *testing.T) {
	handler, calls := newPolicyHandler(t, &stubVerifier{err: auth.ErrInvalidSession})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
	require.Zero(t, *calls)
}

func TestAccessPolicyPublicAPIAllowed(t *testing.T) {
	handler, calls := newPolicyHandler(t, &stubVerifier{err: auth.ErrInvalidSession})

	for _, path := range []string{"/api/webhook/clerk", "/api/webhook/stripe", "/api/uploadthing"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
	require.Equal(t, 3, *calls)
}

func TestAccessPolicyUnauthenticatedPageRedirects(t *testing.T) {
	handler, calls := newPolicyHandler(t, &stubVerifier{err: auth.ErrInvalidSession})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/sign-in?redirect_url=%2Fprofile", rec.Header().Get("Location"))
	require.Zero(t, *calls)
}

func TestAccessPolicyAuthenticatedAllowedEverywhere(t *testing.T) {
	verifier := &stubVerifier{session: auth.Session{UserID: "user_abc", SessionID: "sess_1"}}
	calls := 0
	var got auth.Session
	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		got, found = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := NewAccessPolicy(verifier, "test").Handler(next)

	for _, path := range []string{"/profile", "/api/orders", "/events/123"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "token"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
	require.Equal(t, 3, calls)
	require.True(t, found)
	require.Equal(t, "user_abc", got.UserID)
}

func TestAccessPolicyNilVerifierTreatsAllAsAnonymous(t *testing.T) {
	handler, calls := newPolicyHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Zero(t, *calls)
}

func TestRouteMatcher(t *testing.T) {
	m := NewRouteMatcher([]string{"/", "/events/:id", "/sign-in"})

	require.True(t, m.Matches("/"))
	require.True(t, m.Matches("/events/01ARZ3NDEKTSV4RRFFQ69G5FAV"))
	require.True(t, m.Matches("/events/123/"))
	require.False(t, m.Matches("/events"))
	require.False(t, m.Matches("/events/123/orders"))
	require.False(t, m.Matches("/profile"))
}
