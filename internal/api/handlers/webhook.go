package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/eventloom/server/internal/api/middleware"
	"github.com/eventloom/server/internal/audit"
	"github.com/eventloom/server/internal/domain/users"
	"github.com/eventloom/server/internal/metrics"
	"github.com/eventloom/server/internal/webhook"
)

// Webhook delivery outcomes for metrics.
const (
	outcomeOK       = "ok"
	outcomeIgnored  = "ignored"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// WebhookHandler ingests identity provider account events. Responses use a
// plain JSON error shape rather than problem+json because the caller is the
// provider's delivery machinery, which only inspects the status code; the
// body exists for operators reading delivery logs.
type WebhookHandler struct {
	Verifier *webhook.Verifier
	Users    *users.Service
	Trail    *audit.Trail
}

func NewWebhookHandler(verifier *webhook.Verifier, usersService *users.Service, trail *audit.Trail) *WebhookHandler {
	return &WebhookHandler{Verifier: verifier, Users: usersService, Trail: trail}
}

type webhookError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type webhookAck struct {
	Message string      `json:"message"`
	Type    string      `json:"type,omitempty"`
	User    *users.User `json:"user,omitempty"`
}

// HandleClerk processes one signed delivery. Verification runs strictly
// before any write; a missing secret is a deployment fault, not a client
// error, and fails closed with 500 so the provider retries after the secret
// is configured.
func (h *WebhookHandler) HandleClerk(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	if h.Verifier == nil {
		logger.Error().Msg("webhook secret not configured")
		metrics.WebhookDeliveries.WithLabelValues("unknown", outcomeFailed).Inc()
		writeJSON(w, http.StatusInternalServerError, webhookError{Error: "webhook secret not configured"})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		metrics.WebhookDeliveries.WithLabelValues("unknown", outcomeRejected).Inc()
		writeJSON(w, http.StatusBadRequest, webhookError{Error: "could not read request body"})
		return
	}

	event, err := h.Verifier.Verify(body, r.Header)
	if err != nil {
		logger.Warn().Err(err).Msg("webhook verification failed")
		metrics.WebhookDeliveries.WithLabelValues("unknown", outcomeRejected).Inc()
		writeJSON(w, http.StatusBadRequest, webhookError{Error: "webhook verification failed"})
		return
	}

	if !event.IsLifecycle() {
		logger.Info().Str("event_type", event.Type).Msg("webhook event ignored")
		metrics.WebhookDeliveries.WithLabelValues(event.Type, outcomeIgnored).Inc()
		writeJSON(w, http.StatusOK, webhookAck{Message: "Webhook received", Type: event.Type})
		return
	}

	requestID := middleware.RequestID(r.Context())

	user, err := h.dispatch(r, event)
	if err != nil {
		status, outcome, payload := classify(err)
		h.Trail.Failure(event.Type, event.Data.ID, requestID, err.Error())
		metrics.WebhookDeliveries.WithLabelValues(event.Type, outcome).Inc()
		writeJSON(w, status, payload)
		return
	}

	h.Trail.Success(event.Type, user.ClerkID, user.ID, requestID)
	metrics.WebhookDeliveries.WithLabelValues(event.Type, outcomeOK).Inc()
	writeJSON(w, http.StatusOK, webhookAck{Message: "OK", User: user})
}

func (h *WebhookHandler) dispatch(r *http.Request, event *webhook.Event) (*users.User, error) {
	ctx := r.Context()

	switch event.Type {
	case webhook.EventUserCreated:
		profile, err := event.Data.Profile()
		if err != nil {
			return nil, err
		}
		return h.Users.Create(ctx, profile)

	case webhook.EventUserUpdated:
		update, err := event.Data.ProfileUpdate()
		if err != nil {
			return nil, err
		}
		return h.Users.Update(ctx, event.Data.ID, update)

	case webhook.EventUserDeleted:
		if event.Data.ID == "" {
			return nil, webhook.ErrMissingAccountID
		}
		return h.Users.Delete(ctx, event.Data.ID)
	}

	return nil, errors.New("unhandled event type " + event.Type)
}

// classify maps processing errors to the response taxonomy: missing identity
// is a client fault, everything else is a storage fault. No internal retry
// happens either way; the provider redelivers on non-2xx.
func classify(err error) (int, string, webhookError) {
	if errors.Is(err, webhook.ErrMissingAccountID) || errors.Is(err, users.ErrMissingClerkID) {
		return http.StatusBadRequest, outcomeRejected, webhookError{Error: "event data missing user id"}
	}
	return http.StatusInternalServerError, outcomeFailed, webhookError{
		Error:   "failed to process webhook",
		Details: err.Error(),
	}
}
