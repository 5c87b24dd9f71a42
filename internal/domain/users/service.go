package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eventloom/server/internal/domain/ids"
	"github.com/rs/zerolog"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrConflict       = errors.New("user already exists")
	ErrMissingClerkID = errors.New("missing clerk id")
)

// Repository is the persistence boundary for user records. Every operation
// is a single statement; conflicts and missing rows surface as ErrConflict
// and ErrNotFound respectively.
type Repository interface {
	Create(ctx context.Context, user User) (*User, error)
	GetByClerkID(ctx context.Context, clerkID string) (*User, error)
	UpdateByClerkID(ctx context.Context, clerkID string, update ProfileUpdate) (*User, error)
	DeleteByClerkID(ctx context.Context, clerkID string) (*User, error)
}

// MetadataLinker writes the internal user ID back into the identity
// provider's metadata store after a record is created.
type MetadataLinker interface {
	LinkUser(ctx context.Context, clerkID, userID string) error
}

// WelcomeMailer sends a one-time greeting to a freshly created user.
type WelcomeMailer interface {
	SendWelcome(ctx context.Context, to, name string) error
}

// Service synchronizes provider account lifecycle events into local user
// records.
type Service struct {
	repo   Repository
	linker MetadataLinker
	mailer WelcomeMailer
	logger zerolog.Logger
}

// NewService builds a user synchronization service. linker and mailer may be
// nil; both are best-effort collaborators.
func NewService(repo Repository, linker MetadataLinker, mailer WelcomeMailer, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		linker: linker,
		mailer: mailer,
		logger: logger.With().Str("component", "users").Logger(),
	}
}

// Create persists a new user record keyed by the Clerk ID and returns the
// stored record including its minted internal identifier.
//
// After a durable create, the internal ID is written back to the provider's
// metadata store and a welcome email is sent. Both are best-effort: the
// record is already committed, so failing the whole operation here would
// cause the provider's retry to hit the unique clerk_id constraint and
// duplicate nothing while still reporting an error. Failures are logged and
// swallowed instead.
func (s *Service) Create(ctx context.Context, profile Profile) (*User, error) {
	if strings.TrimSpace(profile.ClerkID) == "" {
		return nil, ErrMissingClerkID
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint user id: %w", err)
	}

	created, err := s.repo.Create(ctx, User{
		ID:        id,
		ClerkID:   profile.ClerkID,
		Email:     profile.Email,
		Username:  profile.Username,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Photo:     profile.Photo,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().
		Str("user_id", created.ID).
		Str("clerk_id", created.ClerkID).
		Msg("user created")

	if s.linker != nil {
		if err := s.linker.LinkUser(ctx, created.ClerkID, created.ID); err != nil {
			s.logger.Error().Err(err).
				Str("user_id", created.ID).
				Str("clerk_id", created.ClerkID).
				Msg("failed to link user metadata")
		}
	}

	if s.mailer != nil && created.Email != "" {
		if err := s.mailer.SendWelcome(ctx, created.Email, created.FirstName); err != nil {
			s.logger.Error().Err(err).
				Str("user_id", created.ID).
				Msg("failed to send welcome email")
		}
	}

	return created, nil
}

// Update overwrites the mutable profile fields of the record matching the
// Clerk ID. Identity fields are never touched.
func (s *Service) Update(ctx context.Context, clerkID string, update ProfileUpdate) (*User, error) {
	if strings.TrimSpace(clerkID) == "" {
		return nil, ErrMissingClerkID
	}

	updated, err := s.repo.UpdateByClerkID(ctx, clerkID, update)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", clerkID, err)
	}

	s.logger.Info().
		Str("user_id", updated.ID).
		Str("clerk_id", clerkID).
		Msg("user updated")
	return updated, nil
}

// Delete removes the record matching the Clerk ID and returns it.
func (s *Service) Delete(ctx context.Context, clerkID string) (*User, error) {
	if strings.TrimSpace(clerkID) == "" {
		return nil, ErrMissingClerkID
	}

	deleted, err := s.repo.DeleteByClerkID(ctx, clerkID)
	if err != nil {
		return nil, fmt.Errorf("delete user %s: %w", clerkID, err)
	}

	s.logger.Info().
		Str("user_id", deleted.ID).
		Str("clerk_id", clerkID).
		Msg("user deleted")
	return deleted, nil
}

// GetByClerkID resolves a Clerk identity to the local record.
func (s *Service) GetByClerkID(ctx context.Context, clerkID string) (*User, error) {
	if strings.TrimSpace(clerkID) == "" {
		return nil, ErrMissingClerkID
	}
	return s.repo.GetByClerkID(ctx, clerkID)
}
