package orders

import (
	"context"
	"testing"

	"github.com/eventloom/server/internal/domain/events"
	"github.com/stretchr/testify/require"
)

const (
	eventID     = "01J8ZQ4VH4X2M9T6C1N5R7W3KD"
	organizerID = "01J8ZQ4VH4X2M9T6C1N5R7W3KE"
	buyerID     = "01J8ZQ4VH4X2M9T6C1N5R7W3KF"
)

type stubOrderRepo struct {
	createFn func(order Order) (*Order, error)
	byEvent  []Order
	byBuyer  []Order
}

func (s *stubOrderRepo) Create(_ context.Context, order Order) (*Order, error) {
	if s.createFn != nil {
		return s.createFn(order)
	}
	stored := order
	return &stored, nil
}

func (s *stubOrderRepo) ListByEvent(_ context.Context, _ string) ([]Order, error) {
	return s.byEvent, nil
}

func (s *stubOrderRepo) ListByBuyer(_ context.Context, _ string) ([]Order, error) {
	return s.byBuyer, nil
}

type stubEventRepo struct {
	event *events.Event
}

func (s *stubEventRepo) List(_ context.Context, _ events.Filters, _ events.Pagination) (events.ListResult, error) {
	return events.ListResult{}, nil
}

func (s *stubEventRepo) GetByID(_ context.Context, _ string) (*events.Event, error) {
	if s.event == nil {
		return nil, events.ErrNotFound
	}
	return s.event, nil
}

func (s *stubEventRepo) Create(_ context.Context, _ events.Event) (*events.Event, error) {
	return nil, events.ErrNotFound
}

func (s *stubEventRepo) Delete(_ context.Context, _ string) error {
	return nil
}

func newService(event *events.Event, repo *stubOrderRepo) *Service {
	return NewService(repo, events.NewService(&stubEventRepo{event: event}))
}

func TestRegisterFreeEvent(t *testing.T) {
	svc := newService(&events.Event{ID: eventID, OrganizerID: organizerID, IsFree: true, Price: "25"}, &stubOrderRepo{})

	order, err := svc.Register(context.Background(), buyerID, eventID)
	require.NoError(t, err)
	require.Equal(t, "0", order.Total)
	require.Equal(t, eventID, order.EventID)
	require.Equal(t, buyerID, order.BuyerID)
	require.Len(t, order.ID, 26)
}

func TestRegisterPricedEvent(t *testing.T) {
	svc := newService(&events.Event{ID: eventID, OrganizerID: organizerID, Price: "25"}, &stubOrderRepo{})

	order, err := svc.Register(context.Background(), buyerID, eventID)
	require.NoError(t, err)
	require.Equal(t, "25", order.Total)
}

func TestRegisterUnknownEvent(t *testing.T) {
	svc := newService(nil, &stubOrderRepo{})

	_, err := svc.Register(context.Background(), buyerID, eventID)
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestListByEventOrganizerOnly(t *testing.T) {
	repo := &stubOrderRepo{byEvent: []Order{{ID: "o1"}, {ID: "o2"}}}
	svc := newService(&events.Event{ID: eventID, OrganizerID: organizerID}, repo)

	_, err := svc.ListByEvent(context.Background(), eventID, buyerID)
	require.ErrorIs(t, err, events.ErrForbidden)

	listed, err := svc.ListByEvent(context.Background(), eventID, organizerID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
}
