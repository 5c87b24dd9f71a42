package webhook

import (
	"errors"
	"strings"

	"github.com/eventloom/server/internal/domain/users"
)

// Account lifecycle event types pushed by Clerk. Anything else is
// acknowledged and ignored.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

var ErrMissingAccountID = errors.New("event data missing account id")

// Event is the verified envelope of a provider webhook delivery.
type Event struct {
	Type string      `json:"type"`
	Data AccountData `json:"data"`
}

// AccountData is the loosely-typed payload of an account event. Every field
// except ID is optional on the wire; defaulting happens in Profile, at one
// boundary.
type AccountData struct {
	ID             string         `json:"id"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	FirstName      *string        `json:"first_name"`
	LastName       *string        `json:"last_name"`
	Username       *string        `json:"username"`
	ImageURL       *string        `json:"image_url"`
}

type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}

// IsLifecycle reports whether the event is one of the handled account
// lifecycle kinds.
func (e *Event) IsLifecycle() bool {
	switch e.Type {
	case EventUserCreated, EventUserUpdated, EventUserDeleted:
		return true
	}
	return false
}

// Profile maps the event data into the canonical profile shape. The first
// email address wins, absent strings default to empty, and a missing
// username falls back to a deterministic handle derived from the account id
// so the field is never empty on creation.
func (d AccountData) Profile() (users.Profile, error) {
	if strings.TrimSpace(d.ID) == "" {
		return users.Profile{}, ErrMissingAccountID
	}

	profile := users.Profile{
		ClerkID:   d.ID,
		Username:  deref(d.Username),
		FirstName: deref(d.FirstName),
		LastName:  deref(d.LastName),
		Photo:     deref(d.ImageURL),
	}
	if len(d.EmailAddresses) > 0 {
		profile.Email = d.EmailAddresses[0].EmailAddress
	}
	if profile.Username == "" {
		profile.Username = fallbackUsername(d.ID)
	}
	return profile, nil
}

// ProfileUpdate maps the event data into the partial shape applied on
// user.updated deliveries. Unlike creation there is no username fallback:
// the stored value is overwritten with whatever the provider sent.
func (d AccountData) ProfileUpdate() (users.ProfileUpdate, error) {
	if strings.TrimSpace(d.ID) == "" {
		return users.ProfileUpdate{}, ErrMissingAccountID
	}
	return users.ProfileUpdate{
		Username:  deref(d.Username),
		FirstName: deref(d.FirstName),
		LastName:  deref(d.LastName),
		Photo:     deref(d.ImageURL),
	}, nil
}

func fallbackUsername(accountID string) string {
	prefix := accountID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return "user_" + prefix
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
