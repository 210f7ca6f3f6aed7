package volunteer

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for volunteers.
type Repository interface {
	Create(ctx context.Context, v *Volunteer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Volunteer, error)
	GetByName(ctx context.Context, name string) (*Volunteer, error)
	List(ctx context.Context) ([]*Volunteer, error)
}
