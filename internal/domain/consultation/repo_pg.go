package consultation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fedy10/medicab/pkg/calendar"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const consultationCols = `id, appointment_id, doctor_id, patient_id, patient_name,
	date, payment_type, tariff, amount_paid, reimbursed,
	symptoms, diagnosis, prescription, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Consultation, error) {
	var c Consultation
	var date string
	err := row.Scan(&c.ID, &c.AppointmentID, &c.DoctorID, &c.PatientID, &c.PatientName,
		&date, &c.PaymentType, &c.Tariff, &c.AmountPaid, &c.Reimbursed,
		&c.Symptoms, &c.Diagnosis, &c.Prescription, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.Date, err = calendar.ParseDate(date); err != nil {
		return nil, fmt.Errorf("consultation %s: %w", c.ID, err)
	}
	return &c, nil
}

func (r *repoPG) Create(ctx context.Context, c *Consultation) error {
	c.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO consultation (id, appointment_id, doctor_id, patient_id, patient_name,
			date, payment_type, tariff, amount_paid, reimbursed,
			symptoms, diagnosis, prescription)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		c.ID, c.AppointmentID, c.DoctorID, c.PatientID, c.PatientName,
		c.Date.String(), c.PaymentType, c.Tariff, c.AmountPaid, c.Reimbursed,
		c.Symptoms, c.Diagnosis, c.Prescription)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+consultationCols+` FROM consultation WHERE id = $1`, id))
}

func (r *repoPG) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Consultation, error) {
	return r.scan(r.pool.QueryRow(ctx, `
		SELECT `+consultationCols+` FROM consultation WHERE appointment_id = $1`, appointmentID))
}

func (r *repoPG) UpdateNotes(ctx context.Context, id uuid.UUID, notes ClinicalNotes) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE consultation SET symptoms=$2, diagnosis=$3, prescription=$4, updated_at=NOW()
		WHERE id = $1`,
		id, notes.Symptoms, notes.Diagnosis, notes.Prescription)
	return err
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM consultation WHERE doctor_id = $1`, doctorID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+consultationCols+` FROM consultation WHERE doctor_id = $1
		ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3`, doctorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM consultation WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+consultationCols+` FROM consultation WHERE patient_id = $1
		ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *repoPG) ListBetween(ctx context.Context, doctorID uuid.UUID, from, to calendar.Date) ([]*Consultation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+consultationCols+` FROM consultation
		WHERE doctor_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date`, doctorID, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, _, err := r.collect(rows, 0)
	return items, err
}

func (r *repoPG) ListAllBetween(ctx context.Context, from, to calendar.Date) ([]*Consultation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+consultationCols+` FROM consultation
		WHERE date >= $1 AND date <= $2
		ORDER BY date`, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, _, err := r.collect(rows, 0)
	return items, err
}

func (r *repoPG) collect(rows pgx.Rows, total int) ([]*Consultation, int, error) {
	var items []*Consultation
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}
