package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/eventloom/server/internal/storage"
)

// HealthCheck reports the server's health status.
type HealthCheck struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	GitCommit string                 `json:"git_commit,omitempty"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

type CheckResult struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type HealthChecker struct {
	store     storage.Repository
	version   string
	gitCommit string
}

func NewHealthChecker(store storage.Repository, version, gitCommit string) *HealthChecker {
	return &HealthChecker{store: store, version: version, gitCommit: gitCommit}
}

// Liveness answers as long as the process is serving requests. No dependency
// checks here so a database outage never causes a restart loop.
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthCheck{
		Status:    "ok",
		Version:   h.version,
		GitCommit: h.gitCommit,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Readiness checks the storage dependency and answers 503 until it is
// reachable.
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]CheckResult{
		"database": h.checkDatabase(ctx),
	}

	status := "ok"
	code := http.StatusOK
	for _, check := range checks {
		if check.Status == "fail" {
			status = "unavailable"
			code = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, code, HealthCheck{
		Status:    status,
		Version:   h.version,
		GitCommit: h.gitCommit,
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthChecker) checkDatabase(ctx context.Context) CheckResult {
	if h.store == nil {
		return CheckResult{Status: "fail", Message: "storage not configured"}
	}

	start := time.Now()
	if err := h.store.Ping(ctx); err != nil {
		return CheckResult{
			Status:    "fail",
			Message:   err.Error(),
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}
	return CheckResult{Status: "pass", LatencyMs: time.Since(start).Milliseconds()}
}
