package events

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eventloom/server/internal/domain/ids"
	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound  = errors.New("event not found")
	ErrForbidden = errors.New("not the event organizer")
)

// Event is a published event listing.
type Event struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"imageUrl"`
	StartAt     time.Time `json:"startDateTime"`
	EndAt       time.Time `json:"endDateTime"`
	Price       string    `json:"price"`
	IsFree      bool      `json:"isFree"`
	URL         string    `json:"url"`
	Category    string    `json:"category"`
	OrganizerID string    `json:"organizer"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EventInput is the payload accepted on event creation.
type EventInput struct {
	Title       string    `json:"title" validate:"required,min=3,max=140"`
	Description string    `json:"description" validate:"max=4000"`
	Location    string    `json:"location" validate:"max=400"`
	ImageURL    string    `json:"imageUrl" validate:"omitempty,url"`
	StartAt     time.Time `json:"startDateTime" validate:"required"`
	EndAt       time.Time `json:"endDateTime" validate:"required,gtefield=StartAt"`
	Price       string    `json:"price" validate:"max=20"`
	IsFree      bool      `json:"isFree"`
	URL         string    `json:"url" validate:"omitempty,url"`
	Category    string    `json:"category" validate:"max=100"`
}

// Filters narrows event listings.
type Filters struct {
	Category string
	Query    string
}

// Pagination is offset-based; Limit is capped at 100.
type Pagination struct {
	Limit  int
	Offset int
}

// ListResult is one page of events. HasMore indicates another page exists.
type ListResult struct {
	Events  []Event
	HasMore bool
}

type Repository interface {
	List(ctx context.Context, filters Filters, pagination Pagination) (ListResult, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, event Event) (*Event, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, filters Filters, pagination Pagination) (ListResult, error) {
	return s.repo.List(ctx, filters, pagination)
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	if err := ids.ValidateULID(id); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Create validates the input and persists a new event owned by organizerID.
func (s *Service) Create(ctx context.Context, organizerID string, input EventInput) (*Event, error) {
	if strings.TrimSpace(organizerID) == "" {
		return nil, fmt.Errorf("create event: missing organizer")
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint event id: %w", err)
	}

	created, err := s.repo.Create(ctx, Event{
		ID:          id,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Location:    input.Location,
		ImageURL:    input.ImageURL,
		StartAt:     input.StartAt,
		EndAt:       input.EndAt,
		Price:       input.Price,
		IsFree:      input.IsFree,
		URL:         input.URL,
		Category:    input.Category,
		OrganizerID: organizerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

// Delete removes an event. Only its organizer may do so.
func (s *Service) Delete(ctx context.Context, id, requesterID string) error {
	event, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if event.OrganizerID != requesterID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// ParseFilters reads listing filters and pagination from query parameters.
func ParseFilters(values url.Values) (Filters, Pagination) {
	filters := Filters{
		Category: strings.TrimSpace(values.Get("category")),
		Query:    strings.TrimSpace(values.Get("query")),
	}

	pagination := Pagination{Limit: 20}
	if raw := values.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			pagination.Limit = min(limit, 100)
		}
	}
	if raw := values.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 1 {
			pagination.Offset = (page - 1) * pagination.Limit
		}
	}
	return filters, pagination
}
