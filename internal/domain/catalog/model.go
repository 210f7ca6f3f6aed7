package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Medicine maps to the medicine table.
type Medicine struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	Name                 string    `db:"name" json:"name"`
	Description          *string   `db:"description" json:"description,omitempty"`
	Price                float64   `db:"price" json:"price"`
	Stock                int       `db:"stock" json:"stock"`
	Manufacturer         *string   `db:"manufacturer" json:"manufacturer,omitempty"`
	Category             *string   `db:"category" json:"category,omitempty"`
	PrescriptionRequired bool      `db:"prescription_required" json:"prescription_required"`
	Dosage               *string   `db:"dosage" json:"dosage,omitempty"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// MedicineSummary is the name+manufacturer projection used by pharmacy
// onboarding dropdowns.
type MedicineSummary struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Manufacturer *string   `db:"manufacturer" json:"manufacturer,omitempty"`
}
