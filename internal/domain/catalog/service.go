package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a medicine does not exist.
var ErrNotFound = errors.New("medicine not found")

// InsufficientStockError reports a stock decrement that could not be
// satisfied.
type InsufficientStockError struct {
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available, %d requested", e.Name, e.Available, e.Requested)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) AddMedicine(ctx context.Context, m *Medicine) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if m.Stock < 0 {
		return fmt.Errorf("stock must not be negative")
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) GetMedicine(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetMedicineByNameAndManufacturer(ctx context.Context, name, manufacturer string) (*Medicine, error) {
	return s.repo.GetByNameAndManufacturer(ctx, name, manufacturer)
}

func (s *Service) UpdateMedicine(ctx context.Context, m *Medicine) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if m.Stock < 0 {
		return fmt.Errorf("stock must not be negative")
	}
	return s.repo.Update(ctx, m)
}

func (s *Service) DeleteMedicine(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListMedicines(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) SearchMedicines(ctx context.Context, query string, limit, offset int) ([]*Medicine, int, error) {
	if query == "" {
		return s.repo.List(ctx, limit, offset)
	}
	return s.repo.Search(ctx, query, limit, offset)
}

func (s *Service) ListWithManufacturer(ctx context.Context) ([]*MedicineSummary, error) {
	return s.repo.ListWithManufacturer(ctx)
}

// DecrementStock atomically subtracts qty from a medicine's stock. A zero-row
// update is disambiguated into ErrNotFound or InsufficientStockError.
func (s *Service) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	if qty < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	updated, err := s.repo.DecrementStock(ctx, id, qty)
	if err != nil {
		return err
	}
	if updated {
		return nil
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return &InsufficientStockError{Name: m.Name, Available: m.Stock, Requested: qty}
}

func (s *Service) RestoreStock(ctx context.Context, id uuid.UUID, qty int) error {
	if qty < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	return s.repo.RestoreStock(ctx, id, qty)
}
