package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carefull/carefull/internal/domain/catalog"
)

// -- Mock Repository --

type mockRepo struct {
	orders map[uuid.UUID]*Order
	seq    []uuid.UUID
}

func newMockRepo() *mockRepo {
	return &mockRepo{orders: make(map[uuid.UUID]*Order)}
}

func (m *mockRepo) Create(_ context.Context, o *Order) error {
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	for _, item := range o.Items {
		item.ID = uuid.New()
		item.OrderID = o.ID
	}
	m.orders[o.ID] = o
	m.seq = append(m.seq, o.ID)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *mockRepo) ListByUser(_ context.Context, userID uuid.UUID, status string) ([]*Order, error) {
	var result []*Order
	for i := len(m.seq) - 1; i >= 0; i-- {
		o := m.orders[m.seq[i]]
		if o.UserID != userID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, o *Order) error {
	if _, ok := m.orders[o.ID]; !ok {
		return ErrNotFound
	}
	m.orders[o.ID] = o
	return nil
}

// -- Mock Stock --

type mockStock struct {
	medicines  map[uuid.UUID]*catalog.Medicine
	decrements []uuid.UUID
}

func newMockStock() *mockStock {
	return &mockStock{medicines: make(map[uuid.UUID]*catalog.Medicine)}
}

func (m *mockStock) add(name string, price float64, stock int) uuid.UUID {
	id := uuid.New()
	m.medicines[id] = &catalog.Medicine{ID: id, Name: name, Price: price, Stock: stock}
	return id
}

func (m *mockStock) GetMedicine(_ context.Context, id uuid.UUID) (*catalog.Medicine, error) {
	med, ok := m.medicines[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return med, nil
}

func (m *mockStock) DecrementStock(_ context.Context, id uuid.UUID, qty int) error {
	med, ok := m.medicines[id]
	if !ok {
		return catalog.ErrNotFound
	}
	if med.Stock < qty {
		return &catalog.InsufficientStockError{Name: med.Name, Available: med.Stock, Requested: qty}
	}
	med.Stock -= qty
	m.decrements = append(m.decrements, id)
	return nil
}

func (m *mockStock) RestoreStock(_ context.Context, id uuid.UUID, qty int) error {
	if med, ok := m.medicines[id]; ok {
		med.Stock += qty
	}
	return nil
}

// -- Tests --

func newTestService() (*Service, *mockRepo, *mockStock) {
	repo := newMockRepo()
	stock := newMockStock()
	return NewService(repo, stock, nil), repo, stock
}

func TestCreateOrder(t *testing.T) {
	svc, _, stock := newTestService()
	userID := uuid.New()

	aspirin := stock.add("Aspirin", 2.5, 10)
	ibuprofen := stock.add("Ibuprofen", 4.0, 5)

	o, err := svc.Create(context.Background(), userID, []ItemInput{
		{MedicineID: aspirin, Quantity: 4},
		{MedicineID: ibuprofen, Quantity: 2},
	}, "12 Main St", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if o.Status != StatusPending {
		t.Errorf("expected pending status, got %q", o.Status)
	}
	if o.Total != 2.5*4+4.0*2 {
		t.Errorf("unexpected total: %v", o.Total)
	}
	if len(o.Items) != 2 || o.Items[0].Subtotal != 10.0 {
		t.Errorf("unexpected items: %+v", o.Items)
	}
	if stock.medicines[aspirin].Stock != 6 || stock.medicines[ibuprofen].Stock != 3 {
		t.Error("stock not decremented")
	}
}

func TestCreateOrderAllOrNothing(t *testing.T) {
	svc, repo, stock := newTestService()
	userID := uuid.New()

	aspirin := stock.add("Aspirin", 2.5, 10)
	scarce := stock.add("Scarce", 9.0, 1)

	// The second item fails: the service reports the typed error and the
	// repo never sees the order.
	_, err := svc.Create(context.Background(), userID, []ItemInput{
		{MedicineID: aspirin, Quantity: 2},
		{MedicineID: scarce, Quantity: 5},
	}, "12 Main St", nil)

	var insufficientErr *catalog.InsufficientStockError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficientErr.Name != "Scarce" || insufficientErr.Available != 1 || insufficientErr.Requested != 5 {
		t.Errorf("unexpected error detail: %+v", insufficientErr)
	}
	if len(repo.orders) != 0 {
		t.Error("order written despite failed item")
	}
}

// withRollback replaces the service's transaction runner with one that
// snapshots stock levels at the start and restores them when the wrapped
// function fails, the way the database discards earlier decrements when the
// transaction rolls back.
func withRollback(svc *Service, stock *mockStock) {
	svc.inTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
		snapshot := make(map[uuid.UUID]int, len(stock.medicines))
		for id, med := range stock.medicines {
			snapshot[id] = med.Stock
		}
		if err := fn(ctx); err != nil {
			for id, qty := range snapshot {
				stock.medicines[id].Stock = qty
			}
			return err
		}
		return nil
	}
}

func TestCreateOrderRollsBackEarlierDecrements(t *testing.T) {
	svc, repo, stock := newTestService()
	withRollback(svc, stock)
	userID := uuid.New()

	aspirin := stock.add("Aspirin", 2.5, 10)
	scarce := stock.add("Scarce", 9.0, 1)

	_, err := svc.Create(context.Background(), userID, []ItemInput{
		{MedicineID: aspirin, Quantity: 2},
		{MedicineID: scarce, Quantity: 5},
	}, "12 Main St", nil)

	var insufficientErr *catalog.InsufficientStockError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}

	// The first item was decremented inside the transaction...
	if len(stock.decrements) != 1 || stock.decrements[0] != aspirin {
		t.Fatalf("expected one decrement of the first item, got %v", stock.decrements)
	}
	// ...and discarded with it: no medicine's stock moved.
	if stock.medicines[aspirin].Stock != 10 {
		t.Errorf("first item's decrement survived the rollback: stock %d", stock.medicines[aspirin].Stock)
	}
	if stock.medicines[scarce].Stock != 1 {
		t.Errorf("failing item's stock moved: %d", stock.medicines[scarce].Stock)
	}
	if len(repo.orders) != 0 {
		t.Error("order written despite failed item")
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _, stock := newTestService()
	med := stock.add("Aspirin", 1, 10)

	if _, err := svc.Create(context.Background(), uuid.New(), nil, "addr", nil); err == nil {
		t.Error("expected error for empty items")
	}
	if _, err := svc.Create(context.Background(), uuid.New(), []ItemInput{{MedicineID: med, Quantity: 1}}, "   ", nil); err == nil {
		t.Error("expected error for blank address")
	}
	if _, err := svc.Create(context.Background(), uuid.New(), []ItemInput{{MedicineID: med, Quantity: 0}}, "addr", nil); err == nil {
		t.Error("expected error for zero quantity")
	}
}

func TestCreateOrderUnknownMedicine(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Create(context.Background(), uuid.New(), []ItemInput{{MedicineID: uuid.New(), Quantity: 1}}, "addr", nil)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected catalog.ErrNotFound, got %v", err)
	}
}

func TestListByUserFilters(t *testing.T) {
	svc, _, stock := newTestService()
	userID := uuid.New()
	med := stock.add("Aspirin", 1, 100)

	first, _ := svc.Create(context.Background(), userID, []ItemInput{{MedicineID: med, Quantity: 1}}, "addr", nil)
	second, _ := svc.Create(context.Background(), userID, []ItemInput{{MedicineID: med, Quantity: 1}}, "addr", nil)
	_, _ = svc.UpdateStatus(context.Background(), second.ID, "processing")

	all, err := svc.ListByUser(context.Background(), userID, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID {
		t.Errorf("expected newest first, got %d orders", len(all))
	}

	// Case-insensitive status filter.
	pending, _ := svc.ListByUser(context.Background(), userID, "  PENDING ")
	if len(pending) != 1 || pending[0].ID != first.ID {
		t.Errorf("unexpected filtered result: %d orders", len(pending))
	}
}

func TestGetOrderVisibility(t *testing.T) {
	svc, _, stock := newTestService()
	owner := uuid.New()
	med := stock.add("Aspirin", 1, 10)
	o, _ := svc.Create(context.Background(), owner, []ItemInput{{MedicineID: med, Quantity: 1}}, "addr", nil)

	if _, err := svc.Get(context.Background(), o.ID, owner, "user"); err != nil {
		t.Errorf("owner should see the order: %v", err)
	}
	if _, err := svc.Get(context.Background(), o.ID, uuid.New(), "pharmacist"); err != nil {
		t.Errorf("pharmacist should see the order: %v", err)
	}
	if _, err := svc.Get(context.Background(), o.ID, uuid.New(), "user"); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for stranger, got %v", err)
	}
	if _, err := svc.Get(context.Background(), uuid.New(), owner, "user"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatusForwardOnly(t *testing.T) {
	svc, _, stock := newTestService()
	med := stock.add("Aspirin", 1, 10)
	o, _ := svc.Create(context.Background(), uuid.New(), []ItemInput{{MedicineID: med, Quantity: 1}}, "addr", nil)

	// Skipping ahead is rejected.
	if _, err := svc.UpdateStatus(context.Background(), o.ID, "shipped"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for pending->shipped, got %v", err)
	}

	// The full forward path works, case-insensitively.
	for _, next := range []string{"Processing", "SHIPPED", "delivered"} {
		if _, err := svc.UpdateStatus(context.Background(), o.ID, next); err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
	}

	got, _ := svc.Get(context.Background(), o.ID, o.UserID, "user")
	if got.Status != StatusDelivered || got.DeliveredAt == nil {
		t.Errorf("expected delivered with timestamp, got %q", got.Status)
	}

	// Delivered is terminal.
	if _, err := svc.UpdateStatus(context.Background(), o.ID, "processing"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition after delivery, got %v", err)
	}
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	svc, _, stock := newTestService()
	med := stock.add("Aspirin", 1, 10)
	o, _ := svc.Create(context.Background(), uuid.New(), []ItemInput{{MedicineID: med, Quantity: 1}}, "addr", nil)

	for _, bad := range []string{"pending", "cancelled", "unknown", ""} {
		if _, err := svc.UpdateStatus(context.Background(), o.ID, bad); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("status %q: expected ErrInvalidStatus, got %v", bad, err)
		}
	}
}

func TestCancelRestoresStock(t *testing.T) {
	svc, _, stock := newTestService()
	owner := uuid.New()
	med := stock.add("Aspirin", 1, 10)
	o, _ := svc.Create(context.Background(), owner, []ItemInput{{MedicineID: med, Quantity: 4}}, "addr", nil)

	if stock.medicines[med].Stock != 6 {
		t.Fatalf("precondition: stock should be 6, got %d", stock.medicines[med].Stock)
	}

	cancelled, err := svc.Cancel(context.Background(), o.ID, owner)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != StatusCancelled || cancelled.CancelledAt == nil {
		t.Errorf("expected cancelled with timestamp, got %q", cancelled.Status)
	}
	if stock.medicines[med].Stock != 10 {
		t.Errorf("stock not restored: %d", stock.medicines[med].Stock)
	}
}

func TestCancelRules(t *testing.T) {
	svc, _, stock := newTestService()
	owner := uuid.New()
	med := stock.add("Aspirin", 1, 100)

	// Only the owner may cancel.
	o, _ := svc.Create(context.Background(), owner, []ItemInput{{MedicineID: med, Quantity: 1}}, "addr", nil)
	if _, err := svc.Cancel(context.Background(), o.ID, uuid.New()); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	// Processing orders can still be cancelled.
	_, _ = svc.UpdateStatus(context.Background(), o.ID, "processing")
	if _, err := svc.Cancel(context.Background(), o.ID, owner); err != nil {
		t.Errorf("cancel from processing: %v", err)
	}

	// Shipped orders cannot.
	shipped, _ := svc.Create(context.Background(), owner, []ItemInput{{MedicineID: med, Quantity: 1}}, "addr", nil)
	_, _ = svc.UpdateStatus(context.Background(), shipped.ID, "processing")
	_, _ = svc.UpdateStatus(context.Background(), shipped.ID, "shipped")
	if _, err := svc.Cancel(context.Background(), shipped.ID, owner); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for shipped order, got %v", err)
	}
}
