package consultation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fedy10/medicab/internal/domain/appointment"
	"github.com/fedy10/medicab/pkg/calendar"
)

var ErrNotFound = errors.New("consultation not found")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	return c, nil
}

func (s *Service) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Consultation, error) {
	c, err := s.repo.GetByAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	return c, nil
}

// UpdateNotes fills in the clinical fields. Payment fields cannot be changed
// through any path once the consultation exists.
func (s *Service) UpdateNotes(ctx context.Context, id uuid.UUID, notes ClinicalNotes) (*Consultation, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateNotes(ctx, id, notes); err != nil {
		return nil, fmt.Errorf("update notes: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	return s.repo.ListByDoctor(ctx, doctorID, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListBetween(ctx context.Context, doctorID uuid.UUID, from, to calendar.Date) ([]*Consultation, error) {
	return s.repo.ListBetween(ctx, doctorID, from, to)
}

func (s *Service) ListAllBetween(ctx context.Context, from, to calendar.Date) ([]*Consultation, error) {
	return s.repo.ListAllBetween(ctx, from, to)
}

// Recorder adapts the repository to the confirmation flow, which hands over
// a VisitRecord when an appointment completes.
type Recorder struct {
	repo Repository
}

func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

func (r *Recorder) Record(ctx context.Context, v appointment.VisitRecord) error {
	c := &Consultation{
		AppointmentID: v.AppointmentID,
		DoctorID:      v.DoctorID,
		PatientID:     v.PatientID,
		PatientName:   v.PatientName,
		Date:          v.Date,
		PaymentType:   v.PaymentType,
		Tariff:        v.Tariff,
		AmountPaid:    v.AmountPaid,
		Reimbursed:    v.Reimbursed,
	}
	return r.repo.Create(ctx, c)
}
