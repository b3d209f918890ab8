package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. No status is terminal: a cancelled or completed
// appointment can still be corrected by an authorized actor.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Statuses lists the valid appointment statuses in display order.
var Statuses = []string{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusCompleted: true,
	StatusCancelled: true,
}

// DateLayout is the wire and storage format for appointment dates.
const DateLayout = "2006-01-02"

// MaxNotesLen bounds the free-text notes field, counted in characters.
const MaxNotesLen = 1000

// Appointment maps to the appointments table. Date is a calendar day and
// TimeSlot is an opaque label such as "09:00 - 09:30"; two bookings conflict
// when both strings match exactly.
type Appointment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Date      string    `db:"date" json:"date"`
	TimeSlot  string    `db:"time_slot" json:"time_slot"`
	Status    string    `db:"status" json:"status"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Joined user columns, populated on reads.
	DoctorName  string `db:"doctor_name" json:"doctor_name,omitempty"`
	PatientName string `db:"patient_name" json:"patient_name,omitempty"`
}

// BookedSlot is the projection used for conflict checking and for the
// booking form's client-side conflict display.
type BookedSlot struct {
	ID       uuid.UUID `db:"id" json:"id"`
	DoctorID uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Date     string    `db:"date" json:"date"`
	TimeSlot string    `db:"time_slot" json:"time_slot"`
	Status   string    `db:"status" json:"status"`
}
