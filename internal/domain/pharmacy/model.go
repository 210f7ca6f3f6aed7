package pharmacy

import (
	"time"

	"github.com/google/uuid"
)

// Pharmacy maps to the pharmacy table.
type Pharmacy struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Location     string    `db:"location" json:"location"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Supplier maps to the pharmacy_supplier table.
type Supplier struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PharmacyID uuid.UUID `db:"pharmacy_id" json:"pharmacy_id"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
