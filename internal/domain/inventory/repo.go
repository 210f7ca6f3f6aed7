package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for pharmacy inventories.
type Repository interface {
	// Upsert inserts the entry or, when the (pharmacy, medicine) pair
	// already exists, updates quantity, threshold and supplier email.
	Upsert(ctx context.Context, e *Entry) error
	GetEntry(ctx context.Context, pharmacyID, medicineID uuid.UUID) (*Entry, error)
	ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]*Entry, error)
	// LowStock returns entries with quantity below their threshold, in
	// insertion order, skipping entries whose medicine no longer exists.
	LowStock(ctx context.Context, pharmacyID uuid.UUID) ([]*LowStockItem, error)
	IncrementQuantity(ctx context.Context, pharmacyID, medicineID uuid.UUID, qty int) error
}
