package appointment

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Rejection reason codes returned to the caller alongside the field name.
const (
	CodeRequired         = "required"
	CodeInvalidReference = "invalid_reference"
	CodeInvalidDate      = "invalid_date"
	CodeNotInFuture      = "not_in_future"
	CodeInvalidEnum      = "invalid_enum"
	CodeTooLong          = "too_long"
	CodeSlotTaken        = "slot_taken"
	CodeFutureCompletion = "future_completion"
)

// RuleKind classifies a rejection: malformed field, booking conflict, or
// illegal status transition. Every kind is recoverable and surfaced to the
// caller; nothing is retried.
type RuleKind int

const (
	KindValidation RuleKind = iota
	KindConflict
	KindTransition
)

// RuleError is a rejection from the rule engine, carrying the offending
// field and a machine-readable reason code.
type RuleError struct {
	Field string   `json:"field"`
	Code  string   `json:"code"`
	Kind  RuleKind `json:"-"`
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Code)
}

// Candidate is a proposed appointment write, before persistence.
type Candidate struct {
	DoctorID  uuid.UUID `json:"doctor_id"`
	PatientID uuid.UUID `json:"patient_id"`
	Date      string    `json:"date"`
	TimeSlot  string    `json:"time_slot"`
	Status    string    `json:"status"`
	Notes     *string   `json:"notes,omitempty"`
}

// Refs carries reference-existence facts resolved by the caller against the
// user store. The engine itself does no I/O.
type Refs struct {
	DoctorExists  bool
	PatientExists bool
}

// Update is a role-discriminated update request. The two variants encode
// which submitted fields the actor may set; everything else is carried over
// from the existing record rather than taken from the request.
type Update interface {
	// Resolve produces the full candidate to validate and persist, and
	// reports whether the date-in-past check is waived (it is for
	// doctor updates, where the date is carried over, not resubmitted).
	Resolve(existing *Appointment) (Candidate, bool)
}

// FullUpdate replaces all six fields. Used by admin/staff actors, and for
// creates, where there is no existing record to preserve.
type FullUpdate struct {
	Candidate
}

func (u FullUpdate) Resolve(_ *Appointment) (Candidate, bool) {
	return u.Candidate, false
}

// DoctorUpdate lets a doctor change only status and notes on an appointment;
// doctor, patient, date and slot are preserved from the stored record.
type DoctorUpdate struct {
	Status string
	Notes  *string
}

func (u DoctorUpdate) Resolve(existing *Appointment) (Candidate, bool) {
	return Candidate{
		DoctorID:  existing.DoctorID,
		PatientID: existing.PatientID,
		Date:      existing.Date,
		TimeSlot:  existing.TimeSlot,
		Status:    u.Status,
		Notes:     u.Notes,
	}, true
}

// UpdateFor maps an actor role and a submitted candidate to the update
// variant that role is allowed to make.
func UpdateFor(role string, submitted Candidate) Update {
	if role == "doctor" {
		return DoctorUpdate{Status: submitted.Status, Notes: submitted.Notes}
	}
	return FullUpdate{Candidate: submitted}
}

// ValidateFields checks the candidate's fields, reporting the first failure.
// exemptPastDate waives the date-in-past check for doctor updates.
func ValidateFields(c Candidate, now time.Time, refs Refs, exemptPastDate bool) *RuleError {
	if c.DoctorID == uuid.Nil {
		return &RuleError{Field: "doctor_id", Code: CodeRequired, Kind: KindValidation}
	}
	if !refs.DoctorExists {
		return &RuleError{Field: "doctor_id", Code: CodeInvalidReference, Kind: KindValidation}
	}
	if c.PatientID == uuid.Nil {
		return &RuleError{Field: "patient_id", Code: CodeRequired, Kind: KindValidation}
	}
	if !refs.PatientExists {
		return &RuleError{Field: "patient_id", Code: CodeInvalidReference, Kind: KindValidation}
	}

	if c.Date == "" {
		return &RuleError{Field: "date", Code: CodeRequired, Kind: KindValidation}
	}
	day, err := time.Parse(DateLayout, c.Date)
	if err != nil {
		return &RuleError{Field: "date", Code: CodeInvalidDate, Kind: KindValidation}
	}
	if !exemptPastDate && day.Before(dateOnly(now)) {
		return &RuleError{Field: "date", Code: CodeNotInFuture, Kind: KindValidation}
	}

	if c.TimeSlot == "" {
		return &RuleError{Field: "time_slot", Code: CodeRequired, Kind: KindValidation}
	}

	if c.Status == "" {
		return &RuleError{Field: "status", Code: CodeRequired, Kind: KindValidation}
	}
	if !validStatuses[c.Status] {
		return &RuleError{Field: "status", Code: CodeInvalidEnum, Kind: KindValidation}
	}

	if c.Notes != nil && utf8.RuneCountInString(*c.Notes) > MaxNotesLen {
		return &RuleError{Field: "notes", Code: CodeTooLong, Kind: KindValidation}
	}

	return nil
}

// CheckSlotConflict rejects the candidate when another non-cancelled
// appointment for the same doctor already holds the same (date, time_slot).
// Slots are compared by exact string equality, not parsed interval overlap.
// excludeID is the candidate's own id on update, uuid.Nil on create.
func CheckSlotConflict(c Candidate, existing []BookedSlot, excludeID uuid.UUID) *RuleError {
	for _, s := range existing {
		if s.ID == excludeID {
			continue
		}
		if s.DoctorID != c.DoctorID || s.Status == StatusCancelled {
			continue
		}
		if s.Date == c.Date && s.TimeSlot == c.TimeSlot {
			return &RuleError{Field: "time_slot", Code: CodeSlotTaken, Kind: KindConflict}
		}
	}
	return nil
}

// CheckStatusTransition rejects completion of an appointment whose date is
// still in the future. All other transitions are permitted, including out of
// cancelled and completed.
func CheckStatusTransition(c Candidate, now time.Time) *RuleError {
	if c.Status != StatusCompleted {
		return nil
	}
	day, err := time.Parse(DateLayout, c.Date)
	if err != nil {
		return &RuleError{Field: "date", Code: CodeInvalidDate, Kind: KindValidation}
	}
	if day.After(dateOnly(now)) {
		return &RuleError{Field: "status", Code: CodeFutureCompletion, Kind: KindTransition}
	}
	return nil
}

// Evaluate runs the full rule chain against a candidate, first failure wins.
func Evaluate(c Candidate, now time.Time, refs Refs, existing []BookedSlot, excludeID uuid.UUID, exemptPastDate bool) *RuleError {
	if rerr := ValidateFields(c, now, refs, exemptPastDate); rerr != nil {
		return rerr
	}
	if rerr := CheckStatusTransition(c, now); rerr != nil {
		return rerr
	}
	return CheckSlotConflict(c, existing, excludeID)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
