package order

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

const orderCols = `id, user_id, delivery_address, prescription_image, total, status,
	created_at, updated_at, delivered_at, cancelled_at`

func (r *repoPG) Create(ctx context.Context, o *Order) error {
	o.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO orders (id, user_id, delivery_address, prescription_image, total, status)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		o.ID, o.UserID, o.DeliveryAddress, o.PrescriptionImage, o.Total, o.Status,
	)
	if err != nil {
		return err
	}

	for _, item := range o.Items {
		item.ID = uuid.New()
		item.OrderID = o.ID
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO order_item (id, order_id, medicine_id, quantity, price, subtotal)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			item.ID, item.OrderID, item.MedicineID, item.Quantity, item.Price, item.Subtotal,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.conn(ctx).QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	items, err := r.itemsFor(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]*Order, error) {
	query := `SELECT ` + orderCols + ` FROM orders WHERE user_id = $1`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND LOWER(status) = LOWER($2)`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		err := rows.Scan(&o.ID, &o.UserID, &o.DeliveryAddress, &o.PrescriptionImage, &o.Total,
			&o.Status, &o.CreatedAt, &o.UpdatedAt, &o.DeliveredAt, &o.CancelledAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		items, err := r.itemsFor(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return orders, nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, o *Order) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE orders SET status=$2, delivered_at=$3, cancelled_at=$4, updated_at=NOW()
		WHERE id = $1`,
		o.ID, o.Status, o.DeliveredAt, o.CancelledAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) itemsFor(ctx context.Context, orderID uuid.UUID) ([]*Item, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, order_id, medicine_id, quantity, price, subtotal
		FROM order_item WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MedicineID, &item.Quantity, &item.Price, &item.Subtotal); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.DeliveryAddress, &o.PrescriptionImage, &o.Total,
		&o.Status, &o.CreatedAt, &o.UpdatedAt, &o.DeliveredAt, &o.CancelledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
