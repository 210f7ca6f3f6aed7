package identity

import (
	"time"

	"github.com/google/uuid"
)

// Valid account roles.
var validRoles = map[string]bool{
	"user":       true,
	"pharmacist": true,
	"admin":      true,
}

// User maps to the app_user table.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"full_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	MobileNumber *string   `db:"mobile_number" json:"mobile_number,omitempty"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
