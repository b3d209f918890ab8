package user

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// RoleOf derives the user's role from the is_admin flag and the
	// existence of doctor/patient profile rows.
	RoleOf(ctx context.Context, id uuid.UUID) (string, error)

	// Option lists for the booking and profile forms.
	ListDoctors(ctx context.Context) ([]Ref, error)
	ListPatients(ctx context.Context) ([]Ref, error)
}
