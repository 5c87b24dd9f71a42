package storage

import (
	"context"

	"github.com/eventloom/server/internal/domain/events"
	"github.com/eventloom/server/internal/domain/orders"
	"github.com/eventloom/server/internal/domain/users"
)

// Repository groups data access by domain.
type Repository interface {
	Users() users.Repository
	Events() events.Repository
	Orders() orders.Repository

	// Ping verifies storage connectivity, used by readiness checks.
	Ping(ctx context.Context) error
}
