package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carefull/carefull/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) Upsert(ctx context.Context, e *Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	// The UNIQUE (pharmacy_id, medicine_id) constraint makes repeated
	// onboarding selections update in place instead of stacking rows.
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO pharmacy_inventory (
			id, pharmacy_id, medicine_id, quantity, low_stock_threshold, supplier_email
		) VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (pharmacy_id, medicine_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			low_stock_threshold = EXCLUDED.low_stock_threshold,
			supplier_email = EXCLUDED.supplier_email,
			updated_at = NOW()
		RETURNING id`,
		e.ID, e.PharmacyID, e.MedicineID, e.Quantity, e.LowStockThreshold, e.SupplierEmail,
	).Scan(&e.ID)
}

func (r *repoPG) GetEntry(ctx context.Context, pharmacyID, medicineID uuid.UUID) (*Entry, error) {
	var e Entry
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT i.id, i.pharmacy_id, i.medicine_id, i.quantity, i.low_stock_threshold,
			i.supplier_email, i.created_at, i.updated_at, m.name
		FROM pharmacy_inventory i
		JOIN medicine m ON m.id = i.medicine_id
		WHERE i.pharmacy_id = $1 AND i.medicine_id = $2`,
		pharmacyID, medicineID,
	).Scan(&e.ID, &e.PharmacyID, &e.MedicineID, &e.Quantity, &e.LowStockThreshold,
		&e.SupplierEmail, &e.CreatedAt, &e.UpdatedAt, &e.MedicineName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repoPG) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]*Entry, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT i.id, i.pharmacy_id, i.medicine_id, i.quantity, i.low_stock_threshold,
			i.supplier_email, i.created_at, i.updated_at, m.name
		FROM pharmacy_inventory i
		JOIN medicine m ON m.id = i.medicine_id
		WHERE i.pharmacy_id = $1 ORDER BY i.created_at`, pharmacyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(&e.ID, &e.PharmacyID, &e.MedicineID, &e.Quantity, &e.LowStockThreshold,
			&e.SupplierEmail, &e.CreatedAt, &e.UpdatedAt, &e.MedicineName)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, nil
}

func (r *repoPG) LowStock(ctx context.Context, pharmacyID uuid.UUID) ([]*LowStockItem, error) {
	// The inner join drops entries whose medicine was removed from the
	// catalog.
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT m.id, m.name, i.quantity, m.manufacturer, i.supplier_email
		FROM pharmacy_inventory i
		JOIN medicine m ON m.id = i.medicine_id
		WHERE i.pharmacy_id = $1 AND i.quantity < i.low_stock_threshold
		ORDER BY i.created_at`, pharmacyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*LowStockItem
	for rows.Next() {
		var item LowStockItem
		if err := rows.Scan(&item.DrugID, &item.Name, &item.Quantity, &item.Manufacturer, &item.SupplierEmail); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, nil
}

func (r *repoPG) IncrementQuantity(ctx context.Context, pharmacyID, medicineID uuid.UUID, qty int) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE pharmacy_inventory SET quantity = quantity + $3, updated_at = NOW()
		WHERE pharmacy_id = $1 AND medicine_id = $2`,
		pharmacyID, medicineID, qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}
