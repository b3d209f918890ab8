package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("appointment not found")
	ErrForbidden = errors.New("appointment belongs to another user")
)

// UserDirectory answers existence checks against the user store.
type UserDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo  Repository
	users UserDirectory
	now   func() time.Time
}

func NewService(repo Repository, users UserDirectory) *Service {
	return &Service{repo: repo, users: users, now: time.Now}
}

// SetClock overrides the service clock, for tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) resolveRefs(ctx context.Context, c Candidate) (Refs, error) {
	var refs Refs
	var err error
	if c.DoctorID != uuid.Nil {
		if refs.DoctorExists, err = s.users.Exists(ctx, c.DoctorID); err != nil {
			return refs, fmt.Errorf("check doctor: %w", err)
		}
	}
	if c.PatientID != uuid.Nil {
		if refs.PatientExists, err = s.users.Exists(ctx, c.PatientID); err != nil {
			return refs, fmt.Errorf("check patient: %w", err)
		}
	}
	return refs, nil
}

// Create validates and books a new appointment. All roles submit the full
// field set on create.
func (s *Service) Create(ctx context.Context, c Candidate) (*Appointment, error) {
	now := s.now()

	refs, err := s.resolveRefs(ctx, c)
	if err != nil {
		return nil, err
	}

	slots, err := s.repo.BookedSlots(ctx, c.DoctorID, now.Format(DateLayout), uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("load booked slots: %w", err)
	}

	if rerr := Evaluate(c, now, refs, slots, uuid.Nil, false); rerr != nil {
		return nil, rerr
	}

	a := &Appointment{
		DoctorID:  c.DoctorID,
		PatientID: c.PatientID,
		Date:      c.Date,
		TimeSlot:  c.TimeSlot,
		Status:    c.Status,
		Notes:     c.Notes,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, a.ID)
}

// Update applies a role-discriminated update: doctors may change only status
// and notes on their own appointments, everyone else replaces the full
// field set.
func (s *Service) Update(ctx context.Context, role string, actorID, id uuid.UUID, submitted Candidate) (*Appointment, error) {
	now := s.now()

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if role == "doctor" && existing.DoctorID != actorID {
		return nil, ErrForbidden
	}

	c, exemptPastDate := UpdateFor(role, submitted).Resolve(existing)

	refs, err := s.resolveRefs(ctx, c)
	if err != nil {
		return nil, err
	}

	slots, err := s.repo.BookedSlots(ctx, c.DoctorID, now.Format(DateLayout), id)
	if err != nil {
		return nil, fmt.Errorf("load booked slots: %w", err)
	}

	if rerr := Evaluate(c, now, refs, slots, id, exemptPastDate); rerr != nil {
		return nil, rerr
	}

	existing.DoctorID = c.DoctorID
	existing.PatientID = c.PatientID
	existing.Date = c.Date
	existing.TimeSlot = c.TimeSlot
	existing.Status = c.Status
	existing.Notes = c.Notes
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Get returns the appointment when the actor may see it. Doctors and
// patients read only appointments they are party to; out-of-scope reads
// report not-found rather than confirming the record exists.
func (s *Service) Get(ctx context.Context, role string, actorID, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if role == "doctor" && a.DoctorID != actorID {
		return nil, ErrNotFound
	}
	if role == "patient" && a.PatientID != actorID {
		return nil, ErrNotFound
	}
	return a, nil
}

// List returns appointments visible to the actor: doctors see their own
// schedule, patients their own bookings, admin and staff see all.
func (s *Service) List(ctx context.Context, role string, actorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	switch role {
	case "doctor":
		return s.repo.ListByDoctor(ctx, actorID, limit, offset)
	case "patient":
		return s.repo.ListByPatient(ctx, actorID, limit, offset)
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// UpcomingSlots exposes the non-cancelled upcoming bookings for the booking
// form's conflict display.
func (s *Service) UpcomingSlots(ctx context.Context, excludeID uuid.UUID) ([]BookedSlot, error) {
	return s.repo.AllBookedSlots(ctx, s.now().Format(DateLayout), excludeID)
}
