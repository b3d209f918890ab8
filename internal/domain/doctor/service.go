package doctor

import (
	"context"
	"fmt"

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

func (s *Service) CreateProfile(ctx context.Context, p *Profile) error {
	if p.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if p.Specialty == "" {
		return fmt.Errorf("specialty is required")
	}

	ok, err := s.users.Exists(ctx, p.UserID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return fmt.Errorf("user %s does not exist", p.UserID)
	}

	if existing, err := s.repo.GetByUserID(ctx, p.UserID); err == nil && existing != nil {
		return fmt.Errorf("user already has a doctor profile")
	}

	return s.repo.Create(ctx, p)
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, p *Profile) error {
	if p.Specialty == "" {
		return fmt.Errorf("specialty is required")
	}
	existing, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("doctor profile not found: %w", err)
	}
	// The profile stays bound to its user; rebinding is not supported.
	p.UserID = existing.UserID
	return s.repo.Update(ctx, p)
}

// DeleteProfile removes the profile. The linked user's role reverts to
// patient or plain user on its own because roles are derived, not stored.
func (s *Service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListProfiles(ctx context.Context, limit, offset int) ([]*Profile, int, error) {
	return s.repo.List(ctx, limit, offset)
}
