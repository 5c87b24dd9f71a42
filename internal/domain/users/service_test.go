package users

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	createFn func(user User) (*User, error)
	updateFn func(clerkID string, update ProfileUpdate) (*User, error)
	deleteFn func(clerkID string) (*User, error)
	getFn    func(clerkID string) (*User, error)

	createCalls int
	updateCalls int
	deleteCalls int
}

func (s *stubRepo) Create(_ context.Context, user User) (*User, error) {
	s.createCalls++
	return s.createFn(user)
}

func (s *stubRepo) GetByClerkID(_ context.Context, clerkID string) (*User, error) {
	if s.getFn == nil {
		return nil, ErrNotFound
	}
	return s.getFn(clerkID)
}

func (s *stubRepo) UpdateByClerkID(_ context.Context, clerkID string, update ProfileUpdate) (*User, error) {
	s.updateCalls++
	return s.updateFn(clerkID, update)
}

func (s *stubRepo) DeleteByClerkID(_ context.Context, clerkID string) (*User, error) {
	s.deleteCalls++
	return s.deleteFn(clerkID)
}

type stubLinker struct {
	err   error
	calls []struct{ clerkID, userID string }
}

func (s *stubLinker) LinkUser(_ context.Context, clerkID, userID string) error {
	s.calls = append(s.calls, struct{ clerkID, userID string }{clerkID, userID})
	return s.err
}

type stubMailer struct {
	err   error
	calls int
}

func (s *stubMailer) SendWelcome(_ context.Context, _, _ string) error {
	s.calls++
	return s.err
}

func echoCreate(user User) (*User, error) {
	stored := user
	return &stored, nil
}

func TestCreateMintsULID(t *testing.T) {
	repo := &stubRepo{createFn: echoCreate}
	svc := NewService(repo, nil, nil, zerolog.Nop())

	created, err := svc.Create(context.Background(), Profile{ClerkID: "user_2abc", Email: "a@b.c", Username: "alice"})
	require.NoError(t, err)
	require.Len(t, created.ID, 26)
	require.Equal(t, "user_2abc", created.ClerkID)
	require.Equal(t, "alice", created.Username)
}

func TestCreateLinksMetadata(t *testing.T) {
	repo := &stubRepo{createFn: echoCreate}
	linker := &stubLinker{}
	svc := NewService(repo, linker, nil, zerolog.Nop())

	created, err := svc.Create(context.Background(), Profile{ClerkID: "user_2abc"})
	require.NoError(t, err)
	require.Len(t, linker.calls, 1)
	require.Equal(t, "user_2abc", linker.calls[0].clerkID)
	require.Equal(t, created.ID, linker.calls[0].userID)
}

func TestCreateSwallowsLinkerFailure(t *testing.T) {
	repo := &stubRepo{createFn: echoCreate}
	linker := &stubLinker{err: errors.New("provider unavailable")}
	svc := NewService(repo, linker, nil, zerolog.Nop())

	created, err := svc.Create(context.Background(), Profile{ClerkID: "user_2abc"})
	require.NoError(t, err)
	require.NotNil(t, created)
}

func TestCreateSwallowsMailerFailure(t *testing.T) {
	repo := &stubRepo{createFn: echoCreate}
	mailer := &stubMailer{err: errors.New("smtp down")}
	svc := NewService(repo, nil, mailer, zerolog.Nop())

	created, err := svc.Create(context.Background(), Profile{ClerkID: "user_2abc", Email: "a@b.c"})
	require.NoError(t, err)
	require.NotNil(t, created)
	require.Equal(t, 1, mailer.calls)
}

func TestCreateSkipsMailWithoutEmail(t *testing.T) {
	repo := &stubRepo{createFn: echoCreate}
	mailer := &stubMailer{}
	svc := NewService(repo, nil, mailer, zerolog.Nop())

	_, err := svc.Create(context.Background(), Profile{ClerkID: "user_2abc"})
	require.NoError(t, err)
	require.Equal(t, 0, mailer.calls)
}

func TestCreatePropagatesConflict(t *testing.T) {
	repo := &stubRepo{createFn: func(User) (*User, error) { return nil, ErrConflict }}
	linker := &stubLinker{}
	svc := NewService(repo, linker, nil, zerolog.Nop())

	_, err := svc.Create(context.Background(), Profile{ClerkID: "user_2abc"})
	require.ErrorIs(t, err, ErrConflict)
	require.Empty(t, linker.calls, "linker must not run when create fails")
}

func TestCreateRejectsMissingClerkID(t *testing.T) {
	repo := &stubRepo{createFn: echoCreate}
	svc := NewService(repo, nil, nil, zerolog.Nop())

	_, err := svc.Create(context.Background(), Profile{})
	require.ErrorIs(t, err, ErrMissingClerkID)
	require.Equal(t, 0, repo.createCalls)
}

func TestUpdatePropagatesNotFound(t *testing.T) {
	repo := &stubRepo{updateFn: func(string, ProfileUpdate) (*User, error) { return nil, ErrNotFound }}
	svc := NewService(repo, nil, nil, zerolog.Nop())

	_, err := svc.Update(context.Background(), "user_gone", ProfileUpdate{Username: "bob"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTouchesOnlyProfileFields(t *testing.T) {
	var got ProfileUpdate
	repo := &stubRepo{updateFn: func(clerkID string, update ProfileUpdate) (*User, error) {
		got = update
		return &User{ID: "01J8ZQ4VH4X2M9T6C1N5R7W3KD", ClerkID: clerkID, Username: update.Username}, nil
	}}
	svc := NewService(repo, nil, nil, zerolog.Nop())

	updated, err := svc.Update(context.Background(), "user_2abc", ProfileUpdate{
		Username:  "bob",
		FirstName: "Bob",
		LastName:  "Jones",
		Photo:     "https://img.example/p.png",
	})
	require.NoError(t, err)
	require.Equal(t, "bob", got.Username)
	require.Equal(t, "user_2abc", updated.ClerkID)
}

func TestDeleteRejectsMissingClerkID(t *testing.T) {
	repo := &stubRepo{deleteFn: func(string) (*User, error) { return &User{}, nil }}
	svc := NewService(repo, nil, nil, zerolog.Nop())

	_, err := svc.Delete(context.Background(), "  ")
	require.ErrorIs(t, err, ErrMissingClerkID)
	require.Equal(t, 0, repo.deleteCalls)
}

func TestDeletePropagatesNotFound(t *testing.T) {
	repo := &stubRepo{deleteFn: func(string) (*User, error) { return nil, ErrNotFound }}
	svc := NewService(repo, nil, nil, zerolog.Nop())

	_, err := svc.Delete(context.Background(), "user_gone")
	require.ErrorIs(t, err, ErrNotFound)
}
