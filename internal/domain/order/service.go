package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carefull/carefull/internal/domain/catalog"
	"github.com/carefull/carefull/internal/platform/db"
)

var (
	// ErrNotFound is returned when an order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrForbidden is returned when the requester may not see or change the
	// order.
	ErrForbidden = errors.New("not allowed to access this order")
	// ErrInvalidStatus is returned for a status outside the allowed set.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidTransition is returned when a status change skips ahead or
	// targets a terminal order.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Stock is the catalog surface order processing needs.
type Stock interface {
	GetMedicine(ctx context.Context, id uuid.UUID) (*catalog.Medicine, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
	RestoreStock(ctx context.Context, id uuid.UUID, qty int) error
}

// Each status may only be reached from its immediate predecessor.
var nextStatus = map[string]string{
	StatusPending:    StatusProcessing,
	StatusProcessing: StatusShipped,
	StatusShipped:    StatusDelivered,
}

var updatableStatuses = map[string]bool{
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
}

type Service struct {
	repo  Repository
	stock Stock

	// inTx runs fn inside one database transaction so every stock mutation
	// and the order write commit or roll back together. Tests swap in a
	// runner that mimics rollback.
	inTx func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewService(repo Repository, stock Stock, pool *pgxpool.Pool) *Service {
	s := &Service{repo: repo, stock: stock}
	s.inTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
		if pool == nil {
			return fn(ctx)
		}
		return db.WithTx(ctx, pool, fn)
	}
	return s
}

// Create places an order. All stock decrements and the order insert happen in
// one transaction: if any item cannot be satisfied, nothing is decremented
// and no order is written.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, items []ItemInput, deliveryAddress string, prescriptionImage *string) (*Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}
	if strings.TrimSpace(deliveryAddress) == "" {
		return nil, fmt.Errorf("delivery address is required")
	}
	for _, in := range items {
		if in.Quantity < 1 {
			return nil, fmt.Errorf("item quantity must be at least 1")
		}
	}

	o := &Order{
		UserID:            userID,
		DeliveryAddress:   deliveryAddress,
		PrescriptionImage: prescriptionImage,
		Status:            StatusPending,
	}

	err := s.inTx(ctx, func(ctx context.Context) error {
		for _, in := range items {
			med, err := s.stock.GetMedicine(ctx, in.MedicineID)
			if err != nil {
				return err
			}
			if err := s.stock.DecrementStock(ctx, in.MedicineID, in.Quantity); err != nil {
				return err
			}

			subtotal := med.Price * float64(in.Quantity)
			o.Items = append(o.Items, &Item{
				MedicineID: in.MedicineID,
				Quantity:   in.Quantity,
				Price:      med.Price,
				Subtotal:   subtotal,
			})
			o.Total += subtotal
		}
		return s.repo.Create(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ListByUser returns the user's orders newest first. statusFilter is matched
// case-insensitively when present.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, statusFilter string) ([]*Order, error) {
	return s.repo.ListByUser(ctx, userID, strings.ToLower(strings.TrimSpace(statusFilter)))
}

// Get returns an order visible to the requester: the owner, or any
// pharmacist/admin.
func (s *Service) Get(ctx context.Context, orderID, requesterID uuid.UUID, requesterRole string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != requesterID && requesterRole != "pharmacist" && requesterRole != "admin" {
		return nil, ErrForbidden
	}
	return o, nil
}

// UpdateStatus advances an order to newStatus. Only the immediate next
// status is accepted; delivered and cancelled orders cannot move.
func (s *Service) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus string) (*Order, error) {
	newStatus = strings.ToLower(strings.TrimSpace(newStatus))
	if !updatableStatuses[newStatus] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, newStatus)
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if nextStatus[o.Status] != newStatus {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, newStatus)
	}

	o.Status = newStatus
	now := time.Now().UTC()
	if newStatus == StatusDelivered {
		o.DeliveredAt = &now
	}
	o.UpdatedAt = now

	if err := s.repo.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Cancel cancels an order on behalf of its owner and restores the stock of
// every item. Allowed only while the order is pending or processing.
func (s *Service) Cancel(ctx context.Context, orderID, requesterID uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != requesterID {
		return nil, ErrForbidden
	}

	status := strings.ToLower(o.Status)
	if status != StatusPending && status != StatusProcessing {
		return nil, fmt.Errorf("%w: cannot cancel a %s order", ErrInvalidTransition, o.Status)
	}

	err = s.inTx(ctx, func(ctx context.Context) error {
		for _, item := range o.Items {
			if err := s.stock.RestoreStock(ctx, item.MedicineID, item.Quantity); err != nil {
				return err
			}
		}

		o.Status = StatusCancelled
		now := time.Now().UTC()
		o.CancelledAt = &now
		o.UpdatedAt = now
		return s.repo.UpdateStatus(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}
