package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create and Update re-check the slot inside the writing transaction,
	// returning a slot_taken RuleError when a concurrent booking won the
	// race past the engine's pre-check.
	Create(ctx context.Context, a *Appointment) error
	Update(ctx context.Context, a *Appointment) error

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)

	// BookedSlots returns non-cancelled appointments for the doctor with
	// date >= fromDate, excluding excludeID (uuid.Nil for none).
	BookedSlots(ctx context.Context, doctorID uuid.UUID, fromDate string, excludeID uuid.UUID) ([]BookedSlot, error)

	// AllBookedSlots is BookedSlots across all doctors, for the booking
	// form's conflict display.
	AllBookedSlots(ctx context.Context, fromDate string, excludeID uuid.UUID) ([]BookedSlot, error)
}
