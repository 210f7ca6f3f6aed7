package pharmacy

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

const pharmacyCols = `id, name, email, password_hash, location, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Pharmacy) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO pharmacy (id, name, email, password_hash, location)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.Name, p.Email, p.PasswordHash, p.Location,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Pharmacy, error) {
	return scanPharmacy(r.conn(ctx).QueryRow(ctx,
		`SELECT `+pharmacyCols+` FROM pharmacy WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Pharmacy, error) {
	return scanPharmacy(r.conn(ctx).QueryRow(ctx,
		`SELECT `+pharmacyCols+` FROM pharmacy WHERE LOWER(email) = LOWER($1)`, email))
}

func (r *repoPG) AddSupplier(ctx context.Context, s *Supplier) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO pharmacy_supplier (id, pharmacy_id, name, email)
		VALUES ($1,$2,$3,$4)`,
		s.ID, s.PharmacyID, s.Name, s.Email,
	)
	return err
}

func (r *repoPG) ListSuppliers(ctx context.Context, pharmacyID uuid.UUID) ([]*Supplier, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, pharmacy_id, name, email, created_at
		FROM pharmacy_supplier WHERE pharmacy_id = $1 ORDER BY created_at`, pharmacyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []*Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.PharmacyID, &s.Name, &s.Email, &s.CreatedAt); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, &s)
	}
	return suppliers, nil
}

func (r *repoPG) SupplierExists(ctx context.Context, pharmacyID uuid.UUID, email string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pharmacy_supplier
			WHERE pharmacy_id = $1 AND LOWER(email) = LOWER($2)
		)`, pharmacyID, email).Scan(&exists)
	return exists, err
}

func scanPharmacy(row pgx.Row) (*Pharmacy, error) {
	var p Pharmacy
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.Location, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
