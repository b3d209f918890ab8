package doctor

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const profileCols = `d.id, d.user_id, d.specialty, d.phone, d.availability,
	d.created_at, d.updated_at, u.name AS user_name, u.email AS user_email`

const profileFrom = ` FROM doctor_profiles d JOIN users u ON u.id = d.user_id`

func (r *repoPG) Create(ctx context.Context, p *Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctor_profiles (id, user_id, specialty, phone, availability)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.UserID, p.Specialty, p.Phone, p.Availability,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileCols+profileFrom+` WHERE d.id = $1`, id))
}

func (r *repoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileCols+profileFrom+` WHERE d.user_id = $1`, userID))
}

func (r *repoPG) Update(ctx context.Context, p *Profile) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE doctor_profiles
		SET specialty = $2, phone = $3, availability = $4, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Specialty, p.Phone, p.Availability,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM doctor_profiles WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Profile, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctor_profiles`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+profileCols+profileFrom+`
		ORDER BY d.created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	p := &Profile{}
	if err := row.Scan(&p.ID, &p.UserID, &p.Specialty, &p.Phone, &p.Availability,
		&p.CreatedAt, &p.UpdatedAt, &p.UserName, &p.UserEmail); err != nil {
		return nil, err
	}
	return p, nil
}
