package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const apptCols = `a.id, a.doctor_id, a.patient_id, to_char(a.date, 'YYYY-MM-DD'), a.time_slot,
	a.status, a.notes, a.created_at, a.updated_at,
	d.name AS doctor_name, p.name AS patient_name`

const apptFrom = ` FROM appointments a
	JOIN users d ON d.id = a.doctor_id
	JOIN users p ON p.id = a.patient_id`

// uniqueViolation is the Postgres error code raised by the partial unique
// index on (doctor_id, date, time_slot) WHERE status <> 'cancelled'.
const uniqueViolation = "23505"

var errSlotTaken = &RuleError{Field: "time_slot", Code: CodeSlotTaken, Kind: KindConflict}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	taken, err := slotTakenTx(ctx, tx, a.DoctorID, a.Date, a.TimeSlot, uuid.Nil)
	if err != nil {
		return err
	}
	if taken {
		return errSlotTaken
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO appointments (id, doctor_id, patient_id, date, time_slot, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.DoctorID, a.PatientID, a.Date, a.TimeSlot, a.Status, a.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errSlotTaken
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if a.Status != StatusCancelled {
		taken, err := slotTakenTx(ctx, tx, a.DoctorID, a.Date, a.TimeSlot, a.ID)
		if err != nil {
			return err
		}
		if taken {
			return errSlotTaken
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE appointments
		SET doctor_id = $2, patient_id = $3, date = $4, time_slot = $5,
		    status = $6, notes = $7, updated_at = NOW()
		WHERE id = $1`,
		a.ID, a.DoctorID, a.PatientID, a.Date, a.TimeSlot, a.Status, a.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errSlotTaken
		}
		return err
	}

	return tx.Commit(ctx)
}

func slotTakenTx(ctx context.Context, tx pgx.Tx, doctorID uuid.UUID, date, timeSlot string, excludeID uuid.UUID) (bool, error) {
	q := `SELECT EXISTS(
		SELECT 1 FROM appointments
		WHERE doctor_id = $1 AND date = $2 AND time_slot = $3
		  AND status <> 'cancelled'`
	args := []any{doctorID, date, timeSlot}
	if excludeID != uuid.Nil {
		q += ` AND id <> $4`
		args = append(args, excludeID)
	}
	q += `)`

	var taken bool
	err := tx.QueryRow(ctx, q, args...).Scan(&taken)
	return taken, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppt(r.pool.QueryRow(ctx, `SELECT `+apptCols+apptFrom+` WHERE a.id = $1`, id))
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+apptFrom+`
		ORDER BY a.created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectAppts(rows)
	return out, total, err
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE doctor_id = $1`, doctorID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+apptFrom+`
		WHERE a.doctor_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3`, doctorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectAppts(rows)
	return out, total, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+apptFrom+`
		WHERE a.patient_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectAppts(rows)
	return out, total, err
}

func (r *repoPG) BookedSlots(ctx context.Context, doctorID uuid.UUID, fromDate string, excludeID uuid.UUID) ([]BookedSlot, error) {
	q := `SELECT id, doctor_id, to_char(date, 'YYYY-MM-DD'), time_slot, status
		FROM appointments
		WHERE doctor_id = $1 AND status <> 'cancelled' AND date >= $2`
	args := []any{doctorID, fromDate}
	if excludeID != uuid.Nil {
		q += ` AND id <> $3`
		args = append(args, excludeID)
	}
	return r.querySlots(ctx, q, args...)
}

func (r *repoPG) AllBookedSlots(ctx context.Context, fromDate string, excludeID uuid.UUID) ([]BookedSlot, error) {
	q := `SELECT id, doctor_id, to_char(date, 'YYYY-MM-DD'), time_slot, status
		FROM appointments
		WHERE status <> 'cancelled' AND date >= $1`
	args := []any{fromDate}
	if excludeID != uuid.Nil {
		q += ` AND id <> $2`
		args = append(args, excludeID)
	}
	return r.querySlots(ctx, q, args...)
}

func (r *repoPG) querySlots(ctx context.Context, q string, args ...any) ([]BookedSlot, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookedSlot
	for rows.Next() {
		var s BookedSlot
		if err := rows.Scan(&s.ID, &s.DoctorID, &s.Date, &s.TimeSlot, &s.Status); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppt(row rowScanner) (*Appointment, error) {
	a := &Appointment{}
	if err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.Date, &a.TimeSlot,
		&a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		&a.DoctorName, &a.PatientName); err != nil {
		return nil, err
	}
	return a, nil
}

func collectAppts(rows pgx.Rows) ([]*Appointment, error) {
	var out []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
