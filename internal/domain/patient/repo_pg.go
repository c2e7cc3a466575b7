package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fedy10/medicab/pkg/calendar"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const patientCols = `id, doctor_id, name, phone, email, address, profession,
	country, region, birth_date, conditions, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Patient, error) {
	var p Patient
	var birth *string
	err := row.Scan(&p.ID, &p.DoctorID, &p.Name, &p.Phone, &p.Email, &p.Address,
		&p.Profession, &p.Country, &p.Region, &birth, &p.Conditions,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if birth != nil {
		d, err := calendar.ParseDate(*birth)
		if err != nil {
			return nil, err
		}
		p.BirthDate = &d
	}
	return &p, nil
}

func birthString(p *Patient) *string {
	if p.BirthDate == nil {
		return nil
	}
	s := p.BirthDate.String()
	return &s
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient (id, doctor_id, name, phone, email, address, profession,
			country, region, birth_date, conditions)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		p.ID, p.DoctorID, p.Name, p.Phone, p.Email, p.Address, p.Profession,
		p.Country, p.Region, birthString(p), p.Conditions)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) GetByPhone(ctx context.Context, doctorID uuid.UUID, phone string) (*Patient, error) {
	return r.scan(r.pool.QueryRow(ctx, `
		SELECT `+patientCols+` FROM patient
		WHERE doctor_id = $1 AND phone = $2
		ORDER BY created_at LIMIT 1`, doctorID, phone))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE patient SET name=$2, phone=$3, email=$4, address=$5, profession=$6,
			country=$7, region=$8, birth_date=$9, conditions=$10, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Phone, p.Email, p.Address, p.Profession,
		p.Country, p.Region, birthString(p), p.Conditions)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient WHERE doctor_id = $1`, doctorID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientCols+` FROM patient WHERE doctor_id = $1
		ORDER BY name LIMIT $2 OFFSET $3`, doctorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *repoPG) SearchByName(ctx context.Context, doctorID uuid.UUID, name string, limit, offset int) ([]*Patient, int, error) {
	pattern := "%" + name + "%"
	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM patient WHERE doctor_id = $1 AND name ILIKE $2`,
		doctorID, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientCols+` FROM patient WHERE doctor_id = $1 AND name ILIKE $2
		ORDER BY name LIMIT $3 OFFSET $4`, doctorID, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *repoPG) collect(rows pgx.Rows, total int) ([]*Patient, int, error) {
	var items []*Patient
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

// exactMatcher resolves identity by exact phone-string comparison. Two phone
// strings that spell the same number differently are distinct on purpose:
// silently merging patients is worse than a duplicate record.
type exactMatcher struct{ repo Repository }

// NewExactMatcher returns the phone exact-match identity resolver.
func NewExactMatcher(repo Repository) Matcher { return &exactMatcher{repo: repo} }

func (m *exactMatcher) Match(ctx context.Context, doctorID uuid.UUID, phone string) (*Patient, bool, error) {
	p, err := m.repo.GetByPhone(ctx, doctorID, phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return p, true, nil
}
