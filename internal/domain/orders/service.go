package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eventloom/server/internal/domain/events"
	"github.com/eventloom/server/internal/domain/ids"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrEventNotFound = errors.New("order references unknown event")
)

// Order records a user's registration for an event. Total is kept as a
// decimal string, matching the event price field.
type Order struct {
	ID        string    `json:"_id"`
	EventID   string    `json:"event"`
	BuyerID   string    `json:"buyer"`
	Total     string    `json:"totalAmount"`
	CreatedAt time.Time `json:"createdAt"`
}

type Repository interface {
	Create(ctx context.Context, order Order) (*Order, error)
	ListByEvent(ctx context.Context, eventID string) ([]Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]Order, error)
}

// Service registers users for events and lists registrations.
type Service struct {
	repo   Repository
	events *events.Service
}

func NewService(repo Repository, eventsService *events.Service) *Service {
	return &Service{repo: repo, events: eventsService}
}

// Register creates an order for the buyer against the event. Free events get
// a zero total; priced events take the event's listed price.
func (s *Service) Register(ctx context.Context, buyerID, eventID string) (*Order, error) {
	if strings.TrimSpace(buyerID) == "" {
		return nil, fmt.Errorf("register: missing buyer")
	}

	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	total := "0"
	if !event.IsFree && event.Price != "" {
		total = event.Price
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint order id: %w", err)
	}

	order, err := s.repo.Create(ctx, Order{
		ID:      id,
		EventID: event.ID,
		BuyerID: buyerID,
		Total:   total,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// ListByEvent returns an event's registrations, restricted to the event's
// organizer.
func (s *Service) ListByEvent(ctx context.Context, eventID, requesterID string) ([]Order, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.OrganizerID != requesterID {
		return nil, events.ErrForbidden
	}
	return s.repo.ListByEvent(ctx, eventID)
}

// ListByBuyer returns the buyer's own registrations.
func (s *Service) ListByBuyer(ctx context.Context, buyerID string) ([]Order, error) {
	return s.repo.ListByBuyer(ctx, buyerID)
}
