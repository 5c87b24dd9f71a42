package events

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	listFn   func(filters Filters, pagination Pagination) (ListResult, error)
	getFn    func(id string) (*Event, error)
	createFn func(event Event) (*Event, error)
	deleteFn func(id string) error

	deleteCalls int
}

func (s *stubRepo) List(_ context.Context, filters Filters, pagination Pagination) (ListResult, error) {
	return s.listFn(filters, pagination)
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*Event, error) {
	return s.getFn(id)
}

func (s *stubRepo) Create(_ context.Context, event Event) (*Event, error) {
	return s.createFn(event)
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	s.deleteCalls++
	return s.deleteFn(id)
}

func validInput() EventInput {
	start := time.Now().Add(24 * time.Hour)
	return EventInput{
		Title:   "Go Meetup",
		StartAt: start,
		EndAt:   start.Add(2 * time.Hour),
		IsFree:  true,
	}
}

func TestCreateMintsULID(t *testing.T) {
	repo := &stubRepo{createFn: func(event Event) (*Event, error) {
		stored := event
		return &stored, nil
	}}
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), "01J8ZQ4VH4X2M9T6C1N5R7W3KD", validInput())
	require.NoError(t, err)
	require.Len(t, created.ID, 26)
	require.Equal(t, "01J8ZQ4VH4X2M9T6C1N5R7W3KD", created.OrganizerID)
}

func TestCreateValidatesInput(t *testing.T) {
	svc := NewService(&stubRepo{})

	input := validInput()
	input.Title = "x"
	_, err := svc.Create(context.Background(), "organizer", input)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	input = validInput()
	input.EndAt = input.StartAt.Add(-time.Hour)
	_, err = svc.Create(context.Background(), "organizer", input)
	require.ErrorAs(t, err, &verrs)

	input = validInput()
	input.ImageURL = "not a url"
	_, err = svc.Create(context.Background(), "organizer", input)
	require.ErrorAs(t, err, &verrs)
}

func TestGetRejectsMalformedID(t *testing.T) {
	svc := NewService(&stubRepo{getFn: func(string) (*Event, error) {
		t.Fatal("repository must not be hit for malformed ids")
		return nil, nil
	}})

	_, err := svc.Get(context.Background(), "not-a-ulid")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRequiresOrganizer(t *testing.T) {
	repo := &stubRepo{
		getFn: func(id string) (*Event, error) {
			return &Event{ID: id, OrganizerID: "01J8ZQ4VH4X2M9T6C1N5R7W3KD"}, nil
		},
		deleteFn: func(string) error { return nil },
	}
	svc := NewService(repo)

	err := svc.Delete(context.Background(), "01J8ZQ4VH4X2M9T6C1N5R7W3KD", "someone-else")
	require.ErrorIs(t, err, ErrForbidden)
	require.Equal(t, 0, repo.deleteCalls)

	err = svc.Delete(context.Background(), "01J8ZQ4VH4X2M9T6C1N5R7W3KD", "01J8ZQ4VH4X2M9T6C1N5R7W3KD")
	require.NoError(t, err)
	require.Equal(t, 1, repo.deleteCalls)
}

func TestParseFilters(t *testing.T) {
	filters, pagination := ParseFilters(url.Values{})
	require.Equal(t, Filters{}, filters)
	require.Equal(t, Pagination{Limit: 20}, pagination)

	values := url.Values{}
	values.Set("category", "music")
	values.Set("query", "jazz")
	values.Set("limit", "10")
	values.Set("page", "3")
	filters, pagination = ParseFilters(values)
	require.Equal(t, "music", filters.Category)
	require.Equal(t, "jazz", filters.Query)
	require.Equal(t, Pagination{Limit: 10, Offset: 20}, pagination)

	values = url.Values{}
	values.Set("limit", "9000")
	_, pagination = ParseFilters(values)
	require.Equal(t, 100, pagination.Limit)
}
