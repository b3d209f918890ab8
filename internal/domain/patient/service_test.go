package patient

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	byID     map[uuid.UUID]*Profile
	byUserID map[uuid.UUID]*Profile
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: map[uuid.UUID]*Profile{}, byUserID: map[uuid.UUID]*Profile{}}
}

func (m *mockRepo) Create(_ context.Context, p *Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.byID[p.ID] = p
	m.byUserID[p.UserID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Profile, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (m *mockRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*Profile, error) {
	p, ok := m.byUserID[userID]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Profile) error {
	if _, ok := m.byID[p.ID]; !ok {
		return errors.New("not found")
	}
	m.byID[p.ID] = p
	m.byUserID[p.UserID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if p, ok := m.byID[id]; ok {
		delete(m.byUserID, p.UserID)
		delete(m.byID, id)
	}
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Profile, int, error) {
	var out []*Profile
	for _, p := range m.byID {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *mockRepo) ListEligibleUsers(_ context.Context) ([]EligibleUser, error) {
	return nil, nil
}

type mockDirectory struct {
	known map[uuid.UUID]bool
}

func (m *mockDirectory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.known[id], nil
}

func validProfile(userID uuid.UUID) *Profile {
	return &Profile{
		UserID:  userID,
		DOB:     "1990-06-15",
		Gender:  "female",
		Address: "12 High Street",
		Phone:   "555-0100",
	}
}

func TestCreateProfile(t *testing.T) {
	userID := uuid.New()
	repo := newMockRepo()
	svc := NewService(repo, &mockDirectory{known: map[uuid.UUID]bool{userID: true}})
	ctx := context.Background()

	p := validProfile(userID)
	if err := svc.CreateProfile(ctx, p); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	// One profile per user.
	if err := svc.CreateProfile(ctx, validProfile(userID)); err == nil {
		t.Error("second profile for the same user accepted")
	}
}

func TestCreateProfileValidation(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name   string
		mutate func(*Profile)
		want   string
	}{
		{"missing address", func(p *Profile) { p.Address = "" }, "address"},
		{"address too long", func(p *Profile) { p.Address = strings.Repeat("x", 256) }, "address"},
		{"missing phone", func(p *Profile) { p.Phone = "" }, "phone"},
		{"phone too long", func(p *Profile) { p.Phone = strings.Repeat("5", 21) }, "phone"},
		{"malformed dob", func(p *Profile) { p.DOB = "15/06/1990" }, "dob"},
		{"bad gender", func(p *Profile) { p.Gender = "unknown" }, "gender"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo()
			svc := NewService(repo, &mockDirectory{known: map[uuid.UUID]bool{userID: true}})

			p := validProfile(userID)
			tt.mutate(p)
			err := svc.CreateProfile(context.Background(), p)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestCreateProfileUnknownUser(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockDirectory{known: map[uuid.UUID]bool{}})

	err := svc.CreateProfile(context.Background(), validProfile(uuid.New()))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("unknown user: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	userID := uuid.New()
	repo := newMockRepo()
	svc := NewService(repo, &mockDirectory{known: map[uuid.UUID]bool{userID: true}})
	ctx := context.Background()

	p := validProfile(userID)
	if err := svc.CreateProfile(ctx, p); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	update := validProfile(uuid.New()) // rebinding attempt, must be ignored
	update.ID = p.ID
	update.Address = "34 New Road"
	update.Gender = "" // omitted field keeps the stored value
	if err := svc.UpdateProfile(ctx, update); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if update.UserID != userID {
		t.Error("profile must stay bound to its original user")
	}
	if update.Gender != "female" {
		t.Errorf("gender = %q, want stored value carried over", update.Gender)
	}

	got, err := svc.GetProfile(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Address != "34 New Road" {
		t.Errorf("address = %q, want updated", got.Address)
	}
}
