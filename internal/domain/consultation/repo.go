package consultation

import (
	"context"

	"github.com/google/uuid"

	"github.com/fedy10/medicab/pkg/calendar"
)

type Repository interface {
	Create(ctx context.Context, c *Consultation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Consultation, error)
	// UpdateNotes rewrites the clinical fields only. Payment fields are
	// immutable once written.
	UpdateNotes(ctx context.Context, id uuid.UUID, notes ClinicalNotes) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Consultation, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Consultation, int, error)
	// ListBetween returns every consultation for the doctor with a date in
	// [from, to], unpaginated. Feeds the revenue aggregation.
	ListBetween(ctx context.Context, doctorID uuid.UUID, from, to calendar.Date) ([]*Consultation, error)
	// ListAllBetween is the clinic-wide variant, across all doctors.
	ListAllBetween(ctx context.Context, from, to calendar.Date) ([]*Consultation, error)
}
