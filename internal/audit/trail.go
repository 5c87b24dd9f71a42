package audit

import (
	"time"

	"github.com/rs/zerolog"
)

// Statuses recorded per entry.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Entry is a single record in the account audit trail.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	ClerkID   string    `json:"clerk_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Status    string    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
}

// Trail writes an append-only record of account lifecycle changes driven by
// provider webhooks. Entries land in the structured log stream tagged for
// later extraction, separate from request logging.
type Trail struct {
	logger zerolog.Logger
}

func NewTrail(logger zerolog.Logger) *Trail {
	return &Trail{logger: logger.With().Str("log", "audit").Logger()}
}

func (t *Trail) Record(entry Entry) {
	if t == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	event := t.logger.Info()
	if entry.Status == StatusFailure {
		event = t.logger.Warn()
	}
	event.
		Time("timestamp", entry.Timestamp).
		Str("action", entry.Action).
		Str("clerk_id", entry.ClerkID).
		Str("user_id", entry.UserID).
		Str("request_id", entry.RequestID).
		Str("status", entry.Status).
		Str("detail", entry.Detail).
		Msg("account audit")
}

// Success records a completed lifecycle change.
func (t *Trail) Success(action, clerkID, userID, requestID string) {
	t.Record(Entry{Action: action, ClerkID: clerkID, UserID: userID, RequestID: requestID, Status: StatusSuccess})
}

// Failure records a rejected or failed lifecycle change.
func (t *Trail) Failure(action, clerkID, requestID, detail string) {
	t.Record(Entry{Action: action, ClerkID: clerkID, RequestID: requestID, Status: StatusFailure, Detail: detail})
}
