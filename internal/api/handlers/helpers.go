package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/eventloom/server/internal/api/middleware"
	"github.com/eventloom/server/internal/api/problem"
	"github.com/eventloom/server/internal/auth"
	"github.com/eventloom/server/internal/domain/users"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func pathParam(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.PathValue(key))
}

func sessionFrom(r *http.Request) (auth.Session, bool) {
	return middleware.SessionFromContext(r.Context())
}

// requireUser resolves the session subject to the local user record. The
// access policy already rejected unauthenticated requests on protected
// routes, so a missing session here means a wiring bug; a valid session
// without a synced record answers 404 until the provider webhook lands.
func requireUser(w http.ResponseWriter, r *http.Request, svc *users.Service, env string) (*users.User, bool) {
	session, ok := sessionFrom(r)
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", problem.ErrUnauthorized, env)
		return nil, false
	}

	user, err := svc.GetByClerkID(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, env)
			return nil, false
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, env)
		return nil, false
	}
	return user, true
}
