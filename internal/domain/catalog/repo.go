package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for medicines.
type Repository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error)
	GetByNameAndManufacturer(ctx context.Context, name, manufacturer string) (*Medicine, error)
	Update(ctx context.Context, m *Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Medicine, int, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*Medicine, int, error)
	ListWithManufacturer(ctx context.Context) ([]*MedicineSummary, error)

	// DecrementStock subtracts qty from the medicine's stock only when
	// enough stock remains. It reports whether a row was updated.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)
	// RestoreStock adds qty back to the medicine's stock.
	RestoreStock(ctx context.Context, id uuid.UUID, qty int) error
}
