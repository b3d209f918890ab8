package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserDirectory answers existence checks against the user store.
type UserDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo  Repository
	users UserDirectory
}

func NewService(repo Repository, users UserDirectory) *Service {
	return &Service{repo: repo, users: users}
}

func validateProfile(p *Profile) error {
	if p.Address == "" {
		return fmt.Errorf("address is required")
	}
	if len(p.Address) > 255 {
		return fmt.Errorf("address must be at most 255 characters")
	}
	if p.Phone == "" {
		return fmt.Errorf("phone is required")
	}
	if len(p.Phone) > 20 {
		return fmt.Errorf("phone must be at most 20 characters")
	}
	if _, err := time.Parse("2006-01-02", p.DOB); err != nil {
		return fmt.Errorf("dob must be a valid date (YYYY-MM-DD)")
	}
	if !validGenders[p.Gender] {
		return fmt.Errorf("gender must be male, female or other")
	}
	return nil
}

func (s *Service) CreateProfile(ctx context.Context, p *Profile) error {
	if p.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if err := validateProfile(p); err != nil {
		return err
	}

	ok, err := s.users.Exists(ctx, p.UserID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return fmt.Errorf("user %s does not exist", p.UserID)
	}

	if existing, err := s.repo.GetByUserID(ctx, p.UserID); err == nil && existing != nil {
		return fmt.Errorf("user already has a patient profile")
	}

	return s.repo.Create(ctx, p)
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, p *Profile) error {
	existing, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("patient profile not found: %w", err)
	}
	if p.Gender == "" {
		p.Gender = existing.Gender
	}
	if err := validateProfile(p); err != nil {
		return err
	}
	// The profile stays bound to its user; rebinding is not supported.
	p.UserID = existing.UserID
	return s.repo.Update(ctx, p)
}

// DeleteProfile removes the profile. The linked user's derived role reverts
// on its own; no role write-back happens here.
func (s *Service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListProfiles(ctx context.Context, limit, offset int) ([]*Profile, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) EligibleUsers(ctx context.Context) ([]EligibleUser, error) {
	return s.repo.ListEligibleUsers(ctx)
}
