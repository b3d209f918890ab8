package appointment

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

var (
	testNow     = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	testDoctor  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testPatient = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	bothExist   = Refs{DoctorExists: true, PatientExists: true}
)

func validCandidate() Candidate {
	return Candidate{
		DoctorID:  testDoctor,
		PatientID: testPatient,
		Date:      "2026-03-15",
		TimeSlot:  "09:00 - 09:30",
		Status:    StatusPending,
	}
}

func TestValidateFields(t *testing.T) {
	longNotes := strings.Repeat("x", MaxNotesLen+1)
	okNotes := strings.Repeat("x", MaxNotesLen)
	// 1000 characters but 2000 bytes; the limit counts characters.
	wideNotes := strings.Repeat("é", MaxNotesLen)
	longWideNotes := strings.Repeat("é", MaxNotesLen+1)

	tests := []struct {
		name      string
		mutate    func(*Candidate)
		refs      Refs
		wantField string
		wantCode  string
	}{
		{"valid", func(c *Candidate) {}, bothExist, "", ""},
		{"missing doctor", func(c *Candidate) { c.DoctorID = uuid.Nil }, bothExist, "doctor_id", CodeRequired},
		{"unknown doctor", func(c *Candidate) {}, Refs{DoctorExists: false, PatientExists: true}, "doctor_id", CodeInvalidReference},
		{"missing patient", func(c *Candidate) { c.PatientID = uuid.Nil }, bothExist, "patient_id", CodeRequired},
		{"unknown patient", func(c *Candidate) {}, Refs{DoctorExists: true, PatientExists: false}, "patient_id", CodeInvalidReference},
		{"missing date", func(c *Candidate) { c.Date = "" }, bothExist, "date", CodeRequired},
		{"malformed date", func(c *Candidate) { c.Date = "15/03/2026" }, bothExist, "date", CodeInvalidDate},
		{"impossible date", func(c *Candidate) { c.Date = "2026-02-30" }, bothExist, "date", CodeInvalidDate},
		{"yesterday", func(c *Candidate) { c.Date = "2026-03-09" }, bothExist, "date", CodeNotInFuture},
		{"today is allowed", func(c *Candidate) { c.Date = "2026-03-10" }, bothExist, "", ""},
		{"missing slot", func(c *Candidate) { c.TimeSlot = "" }, bothExist, "time_slot", CodeRequired},
		{"missing status", func(c *Candidate) { c.Status = "" }, bothExist, "status", CodeRequired},
		{"bad status", func(c *Candidate) { c.Status = "scheduled" }, bothExist, "status", CodeInvalidEnum},
		{"notes at limit", func(c *Candidate) { c.Notes = &okNotes }, bothExist, "", ""},
		{"notes too long", func(c *Candidate) { c.Notes = &longNotes }, bothExist, "notes", CodeTooLong},
		{"multibyte notes at limit", func(c *Candidate) { c.Notes = &wideNotes }, bothExist, "", ""},
		{"multibyte notes too long", func(c *Candidate) { c.Notes = &longWideNotes }, bothExist, "notes", CodeTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCandidate()
			tt.mutate(&c)
			rerr := ValidateFields(c, testNow, tt.refs, false)
			if tt.wantCode == "" {
				if rerr != nil {
					t.Fatalf("unexpected rejection: %v", rerr)
				}
				return
			}
			if rerr == nil {
				t.Fatalf("expected %s/%s, got nil", tt.wantField, tt.wantCode)
			}
			if rerr.Field != tt.wantField || rerr.Code != tt.wantCode {
				t.Errorf("got %s/%s, want %s/%s", rerr.Field, rerr.Code, tt.wantField, tt.wantCode)
			}
			if rerr.Kind != KindValidation {
				t.Errorf("kind = %d, want KindValidation", rerr.Kind)
			}
		})
	}
}

func TestValidateFieldsPastDateExempt(t *testing.T) {
	c := validCandidate()
	c.Date = "2026-03-01"
	if rerr := ValidateFields(c, testNow, bothExist, true); rerr != nil {
		t.Fatalf("past date should be waived when exempt: %v", rerr)
	}
	if rerr := ValidateFields(c, testNow, bothExist, false); rerr == nil || rerr.Code != CodeNotInFuture {
		t.Fatalf("past date should be rejected when not exempt, got %v", rerr)
	}
}

func TestCheckSlotConflict(t *testing.T) {
	otherDoctor := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	ownID := uuid.MustParse("44444444-4444-4444-4444-444444444444")

	c := validCandidate()

	tests := []struct {
		name     string
		existing []BookedSlot
		exclude  uuid.UUID
		taken    bool
	}{
		{"no bookings", nil, uuid.Nil, false},
		{
			"same doctor same slot",
			[]BookedSlot{{ID: uuid.New(), DoctorID: testDoctor, Date: c.Date, TimeSlot: c.TimeSlot, Status: StatusConfirmed}},
			uuid.Nil,
			true,
		},
		{
			"same slot other doctor",
			[]BookedSlot{{ID: uuid.New(), DoctorID: otherDoctor, Date: c.Date, TimeSlot: c.TimeSlot, Status: StatusConfirmed}},
			uuid.Nil,
			false,
		},
		{
			"same doctor other slot",
			[]BookedSlot{{ID: uuid.New(), DoctorID: testDoctor, Date: c.Date, TimeSlot: "10:00 - 10:30", Status: StatusConfirmed}},
			uuid.Nil,
			false,
		},
		{
			"same doctor other day",
			[]BookedSlot{{ID: uuid.New(), DoctorID: testDoctor, Date: "2026-03-16", TimeSlot: c.TimeSlot, Status: StatusConfirmed}},
			uuid.Nil,
			false,
		},
		{
			"cancelled booking frees the slot",
			[]BookedSlot{{ID: uuid.New(), DoctorID: testDoctor, Date: c.Date, TimeSlot: c.TimeSlot, Status: StatusCancelled}},
			uuid.Nil,
			false,
		},
		{
			"own record is excluded on update",
			[]BookedSlot{{ID: ownID, DoctorID: testDoctor, Date: c.Date, TimeSlot: c.TimeSlot, Status: StatusConfirmed}},
			ownID,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rerr := CheckSlotConflict(c, tt.existing, tt.exclude)
			if tt.taken {
				if rerr == nil {
					t.Fatal("expected slot_taken, got nil")
				}
				if rerr.Field != "time_slot" || rerr.Code != CodeSlotTaken || rerr.Kind != KindConflict {
					t.Errorf("got %s/%s kind=%d", rerr.Field, rerr.Code, rerr.Kind)
				}
			} else if rerr != nil {
				t.Fatalf("unexpected rejection: %v", rerr)
			}
		})
	}
}

func TestCheckStatusTransition(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		date     string
		wantCode string
	}{
		{"complete past appointment", StatusCompleted, "2026-03-01", ""},
		{"complete today", StatusCompleted, "2026-03-10", ""},
		{"complete future appointment", StatusCompleted, "2026-03-11", CodeFutureCompletion},
		{"cancel future appointment", StatusCancelled, "2026-03-20", ""},
		{"confirm future appointment", StatusConfirmed, "2026-03-20", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCandidate()
			c.Status = tt.status
			c.Date = tt.date
			rerr := CheckStatusTransition(c, testNow)
			if tt.wantCode == "" {
				if rerr != nil {
					t.Fatalf("unexpected rejection: %v", rerr)
				}
				return
			}
			if rerr == nil || rerr.Code != tt.wantCode {
				t.Fatalf("got %v, want code %s", rerr, tt.wantCode)
			}
			if rerr.Field != "status" || rerr.Kind != KindTransition {
				t.Errorf("got field=%s kind=%d, want status/KindTransition", rerr.Field, rerr.Kind)
			}
		})
	}
}

func TestEvaluateOrder(t *testing.T) {
	// Field validation fires before the conflict check even when both apply.
	c := validCandidate()
	c.Status = "scheduled"
	existing := []BookedSlot{{ID: uuid.New(), DoctorID: testDoctor, Date: c.Date, TimeSlot: c.TimeSlot, Status: StatusConfirmed}}

	rerr := Evaluate(c, testNow, bothExist, existing, uuid.Nil, false)
	if rerr == nil || rerr.Code != CodeInvalidEnum {
		t.Fatalf("got %v, want invalid_enum before slot_taken", rerr)
	}

	c.Status = StatusPending
	rerr = Evaluate(c, testNow, bothExist, existing, uuid.Nil, false)
	if rerr == nil || rerr.Code != CodeSlotTaken {
		t.Fatalf("got %v, want slot_taken once fields are valid", rerr)
	}
}

func TestUpdateForDoctorPreservesBooking(t *testing.T) {
	notes := "seen and discharged"
	existing := &Appointment{
		ID:        uuid.New(),
		DoctorID:  testDoctor,
		PatientID: testPatient,
		Date:      "2026-03-05",
		TimeSlot:  "11:00 - 11:30",
		Status:    StatusConfirmed,
	}

	submitted := Candidate{
		DoctorID:  uuid.New(), // a doctor cannot reassign the booking
		PatientID: uuid.New(),
		Date:      "2026-04-01",
		TimeSlot:  "16:00 - 16:30",
		Status:    StatusCompleted,
		Notes:     &notes,
	}

	c, exempt := UpdateFor("doctor", submitted).Resolve(existing)
	if !exempt {
		t.Error("doctor update should waive the past-date check")
	}
	if c.DoctorID != existing.DoctorID || c.PatientID != existing.PatientID {
		t.Error("doctor update must preserve the booked parties")
	}
	if c.Date != existing.Date || c.TimeSlot != existing.TimeSlot {
		t.Error("doctor update must preserve date and slot")
	}
	if c.Status != StatusCompleted || c.Notes == nil || *c.Notes != notes {
		t.Error("doctor update must apply submitted status and notes")
	}

	// A past appointment completed by its doctor passes the full chain.
	if rerr := Evaluate(c, testNow, bothExist, nil, existing.ID, exempt); rerr != nil {
		t.Fatalf("doctor completing a past appointment was rejected: %v", rerr)
	}
}

func TestUpdateForAdminReplacesAllFields(t *testing.T) {
	existing := &Appointment{
		ID:       uuid.New(),
		DoctorID: testDoctor,
		Date:     "2026-03-05",
	}
	submitted := validCandidate()

	c, exempt := UpdateFor("admin", submitted).Resolve(existing)
	if exempt {
		t.Error("full update must enforce the past-date check")
	}
	if c != submitted {
		t.Errorf("full update must use submitted fields verbatim, got %+v", c)
	}
}
