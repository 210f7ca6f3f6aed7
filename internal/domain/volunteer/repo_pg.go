package volunteer

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

const volunteerCols = `id, name, specialties, password_hash, verified, rating, points, created_at`

func (r *repoPG) Create(ctx context.Context, v *Volunteer) error {
	v.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO volunteer (id, name, specialties, password_hash, verified, rating, points)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		v.ID, v.Name, v.Specialties, v.PasswordHash, v.Verified, v.Rating, v.Points,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Volunteer, error) {
	return scanVolunteer(r.conn(ctx).QueryRow(ctx,
		`SELECT `+volunteerCols+` FROM volunteer WHERE id = $1`, id))
}

func (r *repoPG) GetByName(ctx context.Context, name string) (*Volunteer, error) {
	return scanVolunteer(r.conn(ctx).QueryRow(ctx,
		`SELECT `+volunteerCols+` FROM volunteer WHERE LOWER(name) = LOWER($1)`, name))
}

func (r *repoPG) List(ctx context.Context) ([]*Volunteer, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+volunteerCols+` FROM volunteer ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

func scanVolunteer(row pgx.Row) (*Volunteer, error) {
	var v Volunteer
	err := row.Scan(&v.ID, &v.Name, &v.Specialties, &v.PasswordHash, &v.Verified, &v.Rating, &v.Points, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
