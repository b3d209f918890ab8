package patient

import (
	"context"

	"github.com/google/uuid"
)

// EligibleUser is a user who may still be registered as a patient.
type EligibleUser struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Name  string    `db:"name" json:"name"`
	Email string    `db:"email" json:"email"`
}

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Profile, int, error)

	// ListEligibleUsers returns users without a patient profile who are not
	// admins, for the profile-creation form.
	ListEligibleUsers(ctx context.Context) ([]EligibleUser, error)
}
