package volunteer

import (
	"time"

	"github.com/google/uuid"
)

// Volunteer maps to the volunteer table. Volunteers are medical staff
// (MBBS graduates) who register to assist on the platform; they start
// unverified until their credentials are checked.
type Volunteer struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Specialties  []string  `db:"specialties" json:"specialties"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Verified     bool      `db:"verified" json:"verified"`
	Rating       float64   `db:"rating" json:"rating"`
	Points       int       `db:"points" json:"points"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
