package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Profile maps to the doctor_profiles table. A user with an active profile
// resolves to the doctor role; creating or deleting a profile never writes to
// the users table.
type Profile struct {
	ID           uuid.UUID           `db:"id" json:"id"`
	UserID       uuid.UUID           `db:"user_id" json:"user_id"`
	Specialty    string              `db:"specialty" json:"specialty"`
	Phone        string              `db:"phone" json:"phone"`
	Availability map[string][]string `db:"availability" json:"availability,omitempty"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at" json:"updated_at"`

	// Joined user columns, populated on reads.
	UserName  string `db:"user_name" json:"user_name,omitempty"`
	UserEmail string `db:"user_email" json:"user_email,omitempty"`
}
