package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eventloom/server/internal/domain/events"
	"github.com/eventloom/server/internal/domain/orders"
	"github.com/eventloom/server/internal/domain/users"
)

type stubStore struct {
	pingErr error
}

func (s *stubStore) Users() users.Repository   { return nil }
func (s *stubStore) Events() events.Repository { return nil }
func (s *stubStore) Orders() orders.Repository { return nil }
func (s *stubStore) Ping(context.Context) error {
	return s.pingErr
}

func TestLivenessAlwaysOK(t *testing.T) {
	checker := NewHealthChecker(&stubStore{pingErr: context.DeadlineExceeded}, "1.2.3", "abc")

	rec := httptest.NewRecorder()
	checker.Liveness(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"1.2.3"`)
}

func TestReadinessReflectsDatabase(t *testing.T) {
	store := &stubStore{}
	checker := NewHealthChecker(store, "1.2.3", "abc")

	rec := httptest.NewRecorder()
	checker.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	store.pingErr = context.DeadlineExceeded
	rec = httptest.NewRecorder()
	checker.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
