package pharmacy

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for pharmacies and their
// supplier directories.
type Repository interface {
	Create(ctx context.Context, p *Pharmacy) error
	GetByID(ctx context.Context, id uuid.UUID) (*Pharmacy, error)
	GetByEmail(ctx context.Context, email string) (*Pharmacy, error)

	AddSupplier(ctx context.Context, s *Supplier) error
	ListSuppliers(ctx context.Context, pharmacyID uuid.UUID) ([]*Supplier, error)
	SupplierExists(ctx context.Context, pharmacyID uuid.UUID, email string) (bool, error)
}
