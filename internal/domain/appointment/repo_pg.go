package appointment

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

const appointmentCols = `id, doctor_id, patient_id, patient_name, patient_phone,
	date, time, duration, new_patient, type, status, reason, payment_type,
	amount_paid, reimbursed, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var date, tod string
	var paymentType *string
	err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.PatientName, &a.PatientPhone,
		&date, &tod, &a.Duration, &a.NewPatient, &a.Type, &a.Status, &a.Reason,
		&paymentType, &a.AmountPaid, &a.Reimbursed, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if a.Date, err = calendar.ParseDate(date); err != nil {
		return nil, fmt.Errorf("appointment %s: %w", a.ID, err)
	}
	if a.Time, err = calendar.ParseTimeOfDay(tod); err != nil {
		return nil, fmt.Errorf("appointment %s: %w", a.ID, err)
	}
	if paymentType != nil {
		pt := PaymentType(*paymentType)
		a.PaymentType = &pt
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointment (id, doctor_id, patient_id, patient_name, patient_phone,
			date, time, duration, new_patient, type, status, reason)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, a.DoctorID, a.PatientID, a.PatientName, a.PatientPhone,
		a.Date.String(), a.Time.String(), a.Duration, a.NewPatient, a.Type, a.Status, a.Reason)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+appointmentCols+` FROM appointment WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	var paymentType *string
	if a.PaymentType != nil {
		s := string(*a.PaymentType)
		paymentType = &s
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE appointment SET patient_id=$2, patient_name=$3, patient_phone=$4,
			date=$5, time=$6, duration=$7, new_patient=$8, type=$9, status=$10,
			reason=$11, payment_type=$12, amount_paid=$13, reimbursed=$14, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PatientID, a.PatientName, a.PatientPhone,
		a.Date.String(), a.Time.String(), a.Duration, a.NewPatient, a.Type, a.Status,
		a.Reason, paymentType, a.AmountPaid, a.Reimbursed)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByDate(ctx context.Context, doctorID uuid.UUID, date calendar.Date) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentCols+` FROM appointment
		WHERE doctor_id = $1 AND date = $2
		ORDER BY time`, doctorID, date.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, _, err := r.collect(rows, 0)
	return items, err
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, f Filter, limit, offset int) ([]*Appointment, int, error) {
	where := `WHERE doctor_id = $1`
	args := []any{doctorID}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, f.From.String())
		where += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, f.To.String())
		where += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM appointment %s
		ORDER BY date DESC, time DESC LIMIT $%d OFFSET $%d`,
		appointmentCols, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentCols+` FROM appointment WHERE patient_id = $1
		ORDER BY date DESC, time DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *repoPG) ExistsAt(ctx context.Context, doctorID uuid.UUID, date calendar.Date, t calendar.TimeOfDay, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointment
			WHERE doctor_id = $1 AND date = $2 AND time = $3
			  AND status != 'cancelled' AND id != $4
		)`, doctorID, date.String(), t.String(), exclude).Scan(&exists)
	return exists, err
}

func (r *repoPG) collect(rows pgx.Rows, total int) ([]*Appointment, int, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}
