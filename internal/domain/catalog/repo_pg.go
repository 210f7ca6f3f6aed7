package catalog

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

const medCols = `id, name, description, price, stock, manufacturer, category,
	prescription_required, dosage, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, m *Medicine) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medicine (
			id, name, description, price, stock, manufacturer, category,
			prescription_required, dosage
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		m.ID, m.Name, m.Description, m.Price, m.Stock, m.Manufacturer, m.Category,
		m.PrescriptionRequired, m.Dosage,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return scanMed(r.conn(ctx).QueryRow(ctx, `SELECT `+medCols+` FROM medicine WHERE id = $1`, id))
}

func (r *repoPG) GetByNameAndManufacturer(ctx context.Context, name, manufacturer string) (*Medicine, error) {
	return scanMed(r.conn(ctx).QueryRow(ctx,
		`SELECT `+medCols+` FROM medicine WHERE LOWER(name) = LOWER($1) AND LOWER(COALESCE(manufacturer, '')) = LOWER($2)`,
		name, manufacturer))
}

func (r *repoPG) Update(ctx context.Context, m *Medicine) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE medicine SET
			name=$2, description=$3, price=$4, stock=$5, manufacturer=$6,
			category=$7, prescription_required=$8, dosage=$9, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.Description, m.Price, m.Stock, m.Manufacturer,
		m.Category, m.PrescriptionRequired, m.Dosage,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM medicine WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medicine`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+medCols+` FROM medicine ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectMeds(rows, total)
}

func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Medicine, int, error) {
	pattern := "%" + query + "%"
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM medicine
		WHERE name ILIKE $1 OR description ILIKE $1 OR manufacturer ILIKE $1`,
		pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+medCols+` FROM medicine
		WHERE name ILIKE $1 OR description ILIKE $1 OR manufacturer ILIKE $1
		ORDER BY name LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectMeds(rows, total)
}

func (r *repoPG) ListWithManufacturer(ctx context.Context) ([]*MedicineSummary, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT id, name, manufacturer FROM medicine ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*MedicineSummary
	for rows.Next() {
		var s MedicineSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Manufacturer); err != nil {
			return nil, err
		}
		summaries = append(summaries, &s)
	}
	return summaries, nil
}

func (r *repoPG) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE medicine SET stock = stock - $2, updated_at = NOW() WHERE id = $1 AND stock >= $2`,
		id, qty)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) RestoreStock(ctx context.Context, id uuid.UUID, qty int) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE medicine SET stock = stock + $2, updated_at = NOW() WHERE id = $1`,
		id, qty)
	return err
}

func scanMed(row pgx.Row) (*Medicine, error) {
	var m Medicine
	err := row.Scan(
		&m.ID, &m.Name, &m.Description, &m.Price, &m.Stock, &m.Manufacturer,
		&m.Category, &m.PrescriptionRequired, &m.Dosage, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMeds(rows pgx.Rows, total int) ([]*Medicine, int, error) {
	var meds []*Medicine
	for rows.Next() {
		var m Medicine
		err := rows.Scan(
			&m.ID, &m.Name, &m.Description, &m.Price, &m.Stock, &m.Manufacturer,
			&m.Category, &m.PrescriptionRequired, &m.Dosage, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		meds = append(meds, &m)
	}
	return meds, total, nil
}
