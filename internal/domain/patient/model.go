package patient

import (
	"time"

	"github.com/google/uuid"
)

// Valid genders for a patient profile.
var validGenders = map[string]bool{
	"male":   true,
	"female": true,
	"other":  true,
}

// Profile maps to the patient_profiles table. A user with a profile resolves
// to the patient role; the users table is never written by profile CRUD.
type Profile struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	DOB       string    `db:"dob" json:"dob"`
	Gender    string    `db:"gender" json:"gender"`
	Address   string    `db:"address" json:"address"`
	Phone     string    `db:"phone" json:"phone"`
	Symptoms  *string   `db:"symptoms" json:"symptoms,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Joined user columns, populated on reads.
	UserName  string `db:"user_name" json:"user_name,omitempty"`
	UserEmail string `db:"user_email" json:"user_email,omitempty"`
}
