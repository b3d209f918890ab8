package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

type mockRepo struct {
	counts       StatusCounts
	scopedTo     uuid.UUID
	distinct     int
	doctorCount  int
	patientCount int
}

func (m *mockRepo) AppointmentCounts(_ context.Context, doctorID uuid.UUID) (StatusCounts, error) {
	m.scopedTo = doctorID
	return m.counts, nil
}

func (m *mockRepo) DistinctPatients(_ context.Context, _ uuid.UUID) (int, error) {
	return m.distinct, nil
}

func (m *mockRepo) CountDoctors(_ context.Context) (int, error)  { return m.doctorCount, nil }
func (m *mockRepo) CountPatients(_ context.Context) (int, error) { return m.patientCount, nil }

func statsRequest(t *testing.T, repo Repository, role, userID string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	ctx = context.WithValue(ctx, auth.UserRoleKey, role)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := NewHandler(repo).Stats(c); err != nil {
		t.Fatalf("Stats: %v", err)
	}
	return rec
}

func TestStatsAdmin(t *testing.T) {
	repo := &mockRepo{
		counts:       StatusCounts{Pending: 3, Confirmed: 2, Completed: 5, Cancelled: 1},
		doctorCount:  4,
		patientCount: 9,
	}

	rec := statsRequest(t, repo, auth.RoleAdmin, "dev-user")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got AdminStats
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TotalAppointments != 11 {
		t.Errorf("total_appointments = %d, want 11", got.TotalAppointments)
	}
	if got.TotalDoctors != 4 || got.TotalPatients != 9 {
		t.Errorf("totals = %d/%d, want 4/9", got.TotalDoctors, got.TotalPatients)
	}
	if repo.scopedTo != uuid.Nil {
		t.Error("admin stats must be clinic-wide, not doctor-scoped")
	}
}

func TestStatsDoctorScoped(t *testing.T) {
	doctorID := uuid.New()
	repo := &mockRepo{
		counts:   StatusCounts{Confirmed: 2, Completed: 7},
		distinct: 6,
	}

	rec := statsRequest(t, repo, auth.RoleDoctor, doctorID.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got DoctorStats
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TotalAppointments != 9 || got.DistinctPatients != 6 {
		t.Errorf("got %+v", got)
	}
	if repo.scopedTo != doctorID {
		t.Errorf("counts scoped to %s, want %s", repo.scopedTo, doctorID)
	}
}
