package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// ListByUser returns the user's orders newest first, optionally
	// filtered to a single status.
	ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]*Order, error)
	// UpdateStatus persists the order's status and terminal timestamps.
	UpdateStatus(ctx context.Context, o *Order) error
}
