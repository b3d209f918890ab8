package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) AppointmentCounts(ctx context.Context, doctorID uuid.UUID) (StatusCounts, error) {
	q := `SELECT
		COUNT(*) FILTER (WHERE status = 'pending'),
		COUNT(*) FILTER (WHERE status = 'confirmed'),
		COUNT(*) FILTER (WHERE status = 'completed'),
		COUNT(*) FILTER (WHERE status = 'cancelled')
	FROM appointments
	WHERE ($1::uuid IS NULL OR doctor_id = $1)`

	arg := &doctorID
	if doctorID == uuid.Nil {
		arg = nil
	}

	var c StatusCounts
	if err := r.pool.QueryRow(ctx, q, arg).Scan(&c.Pending, &c.Confirmed, &c.Completed, &c.Cancelled); err != nil {
		return c, fmt.Errorf("count appointments: %w", err)
	}
	return c, nil
}

func (r *repoPG) DistinctPatients(ctx context.Context, doctorID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT patient_id) FROM appointments WHERE doctor_id = $1`,
		doctorID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count distinct patients: %w", err)
	}
	return n, nil
}

func (r *repoPG) CountDoctors(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctor_profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count doctors: %w", err)
	}
	return n, nil
}

func (r *repoPG) CountPatients(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient_profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}
