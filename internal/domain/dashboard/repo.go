package dashboard

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// AppointmentCounts returns per-status appointment counts, scoped to
	// one doctor when doctorID is non-nil, clinic-wide otherwise.
	AppointmentCounts(ctx context.Context, doctorID uuid.UUID) (StatusCounts, error)

	DistinctPatients(ctx context.Context, doctorID uuid.UUID) (int, error)
	CountDoctors(ctx context.Context) (int, error)
	CountPatients(ctx context.Context) (int, error)
}
