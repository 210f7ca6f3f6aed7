package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carefull/carefull/internal/domain/pharmacy"
)

var (
	// ErrEntryNotFound is returned when a pharmacy has no inventory entry
	// for a medicine.
	ErrEntryNotFound = errors.New("inventory entry not found")
	// ErrNotifyFailed wraps a supplier notification failure. The reorder is
	// aborted and stock is left unchanged.
	ErrNotifyFailed = errors.New("supplier notification failed")
)

// PharmacyDirectory is the pharmacy surface the inventory service needs.
type PharmacyDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*pharmacy.Pharmacy, error)
	Suppliers(ctx context.Context, pharmacyID uuid.UUID) ([]*pharmacy.Supplier, error)
}

// Notifier sends the reorder email to a supplier.
type Notifier interface {
	SendLowStockReorder(ctx context.Context, supplierEmail, drugName string, quantity, reorderQuantity int) error
}

type Service struct {
	repo       Repository
	pharmacies PharmacyDirectory
	notifier   Notifier
}

func NewService(repo Repository, pharmacies PharmacyDirectory, notifier Notifier) *Service {
	return &Service{repo: repo, pharmacies: pharmacies, notifier: notifier}
}

// LowStockReport bundles the low-stock entries with the pharmacy's supplier
// directory so the caller can pick a reorder target in one round trip.
type LowStockReport struct {
	LowStockItems []*LowStockItem      `json:"lowStockItems"`
	Suppliers     []*pharmacy.Supplier `json:"suppliers"`
}

// LowStock returns entries whose quantity has fallen below their threshold.
func (s *Service) LowStock(ctx context.Context, pharmacyID uuid.UUID) (*LowStockReport, error) {
	if _, err := s.pharmacies.Get(ctx, pharmacyID); err != nil {
		return nil, err
	}

	items, err := s.repo.LowStock(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.pharmacies.Suppliers(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []*LowStockItem{}
	}
	if suppliers == nil {
		suppliers = []*pharmacy.Supplier{}
	}
	return &LowStockReport{LowStockItems: items, Suppliers: suppliers}, nil
}

// Reorder emails the entry's supplier and then adds quantityToAdd to the
// entry, returning the updated entry. The notification is a precondition:
// if it fails, stock is not touched and the failure is reported as
// ErrNotifyFailed.
func (s *Service) Reorder(ctx context.Context, pharmacyID, medicineID uuid.UUID, quantityToAdd int) (*Entry, error) {
	if quantityToAdd < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}
	if _, err := s.pharmacies.Get(ctx, pharmacyID); err != nil {
		return nil, err
	}

	entry, err := s.repo.GetEntry(ctx, pharmacyID, medicineID)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendLowStockReorder(ctx, entry.SupplierEmail, entry.MedicineName, entry.Quantity, quantityToAdd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotifyFailed, err)
	}

	if err := s.repo.IncrementQuantity(ctx, pharmacyID, medicineID, quantityToAdd); err != nil {
		return nil, err
	}
	return s.repo.GetEntry(ctx, pharmacyID, medicineID)
}

// UpdateStock sets the entry's quantity, creating the entry when absent.
func (s *Service) UpdateStock(ctx context.Context, pharmacyID, medicineID uuid.UUID, newQuantity int) (*Entry, error) {
	if newQuantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative")
	}
	if _, err := s.pharmacies.Get(ctx, pharmacyID); err != nil {
		return nil, err
	}

	entry, err := s.repo.GetEntry(ctx, pharmacyID, medicineID)
	if err != nil && !errors.Is(err, ErrEntryNotFound) {
		return nil, err
	}

	if entry == nil {
		entry = &Entry{
			PharmacyID:        pharmacyID,
			MedicineID:        medicineID,
			LowStockThreshold: 5,
		}
	}
	entry.Quantity = newQuantity

	if err := s.repo.Upsert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// UpsertOnboarding records the inventory entry created by a pharmacy
// onboarding selection. Existing entries are overwritten, not duplicated.
func (s *Service) UpsertOnboarding(ctx context.Context, pharmacyID, medicineID uuid.UUID, supplierEmail string, quantity, threshold int) error {
	return s.repo.Upsert(ctx, &Entry{
		PharmacyID:        pharmacyID,
		MedicineID:        medicineID,
		Quantity:          quantity,
		LowStockThreshold: threshold,
		SupplierEmail:     supplierEmail,
	})
}

// ListByPharmacy returns the pharmacy's full inventory.
func (s *Service) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]*Entry, error) {
	if _, err := s.pharmacies.Get(ctx, pharmacyID); err != nil {
		return nil, err
	}
	return s.repo.ListByPharmacy(ctx, pharmacyID)
}
