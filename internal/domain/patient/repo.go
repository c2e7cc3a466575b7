package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByPhone(ctx context.Context, doctorID uuid.UUID, phone string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Patient, int, error)
	SearchByName(ctx context.Context, doctorID uuid.UUID, name string, limit, offset int) ([]*Patient, int, error)
}

// Matcher decides whether an appointment request refers to an existing
// patient. The only implementation matches the phone string exactly; the
// interface exists so normalized or fuzzy matching can be introduced later
// without touching callers.
type Matcher interface {
	Match(ctx context.Context, doctorID uuid.UUID, phone string) (*Patient, bool, error)
}
