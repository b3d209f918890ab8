package patient

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

const profileCols = `p.id, p.user_id, to_char(p.dob, 'YYYY-MM-DD'), p.gender, p.address, p.phone,
	p.symptoms, p.created_at, p.updated_at, u.name AS user_name, u.email AS user_email`

const profileFrom = ` FROM patient_profiles p JOIN users u ON u.id = p.user_id`

func (r *repoPG) Create(ctx context.Context, p *Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient_profiles (id, user_id, dob, gender, address, phone, symptoms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.UserID, p.DOB, p.Gender, p.Address, p.Phone, p.Symptoms,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileCols+profileFrom+` WHERE p.id = $1`, id))
}

func (r *repoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileCols+profileFrom+` WHERE p.user_id = $1`, userID))
}

func (r *repoPG) Update(ctx context.Context, p *Profile) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE patient_profiles
		SET dob = $2, gender = $3, address = $4, phone = $5, symptoms = $6, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.DOB, p.Gender, p.Address, p.Phone, p.Symptoms,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM patient_profiles WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Profile, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient_profiles`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+profileCols+profileFrom+`
		ORDER BY p.created_at DESC
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

func (r *repoPG) ListEligibleUsers(ctx context.Context) ([]EligibleUser, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name, u.email FROM users u
		WHERE NOT u.is_admin
		  AND NOT EXISTS (SELECT 1 FROM patient_profiles p WHERE p.user_id = u.id)
		ORDER BY u.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EligibleUser
	for rows.Next() {
		var eu EligibleUser
		if err := rows.Scan(&eu.ID, &eu.Name, &eu.Email); err != nil {
			return nil, err
		}
		out = append(out, eu)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	p := &Profile{}
	if err := row.Scan(&p.ID, &p.UserID, &p.DOB, &p.Gender, &p.Address, &p.Phone,
		&p.Symptoms, &p.CreatedAt, &p.UpdatedAt, &p.UserName, &p.UserEmail); err != nil {
		return nil, err
	}
	return p, nil
}
