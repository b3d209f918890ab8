package appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

func updateRequest(t *testing.T, svc *Service, role string, actorID, id uuid.UUID, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/appointments/"+id.String(), strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, actorID.String())
	ctx = context.WithValue(ctx, auth.UserRoleKey, role)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	h := NewHandler(svc, nil)
	if err := h.Update(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestUpdateMissingAppointmentIs404(t *testing.T) {
	svc, _ := newTestService()

	rec := updateRequest(t, svc, auth.RoleAdmin, uuid.Nil, uuid.New(), `{"status":"cancelled"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateOtherDoctorsAppointmentIs403(t *testing.T) {
	svc, repo := newTestService()

	a := &Appointment{
		ID:        uuid.New(),
		DoctorID:  testDoctor,
		PatientID: testPatient,
		Date:      "2026-03-15",
		TimeSlot:  "09:00 - 09:30",
		Status:    StatusConfirmed,
	}
	repo.byID[a.ID] = a

	rec := updateRequest(t, svc, auth.RoleDoctor, uuid.New(), a.ID, `{"status":"cancelled"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestUpdateRejectionCarriesFieldAndCode(t *testing.T) {
	svc, repo := newTestService()
	svc.SetClock(func() time.Time { return testNow })

	a := &Appointment{
		ID:        uuid.New(),
		DoctorID:  testDoctor,
		PatientID: testPatient,
		Date:      "2026-03-20",
		TimeSlot:  "09:00 - 09:30",
		Status:    StatusConfirmed,
	}
	repo.byID[a.ID] = a

	rec := updateRequest(t, svc, auth.RoleDoctor, testDoctor, a.ID, `{"status":"completed"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, CodeFutureCompletion) || !strings.Contains(body, `"status"`) {
		t.Errorf("body = %s, want field status with future_completion", body)
	}
}
