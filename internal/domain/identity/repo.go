package identity

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
