package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/fedy10/medicab/pkg/calendar"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByDate returns the agenda for one day, ordered by time.
	ListByDate(ctx context.Context, doctorID uuid.UUID, date calendar.Date) ([]*Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, f Filter, limit, offset int) ([]*Appointment, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	// ExistsAt reports whether another appointment already holds this slot.
	ExistsAt(ctx context.Context, doctorID uuid.UUID, date calendar.Date, t calendar.TimeOfDay, exclude uuid.UUID) (bool, error)
}

// Filter narrows ListByDoctor. Zero values mean "any".
type Filter struct {
	Status Status
	From   *calendar.Date
	To     *calendar.Date
}
