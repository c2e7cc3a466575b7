package revenue

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fedy10/medicab/internal/domain/consultation"
	"github.com/fedy10/medicab/pkg/calendar"
)

// Source provides consultation history for a date range. The consultation
// service satisfies it directly.
type Source interface {
	ListBetween(ctx context.Context, doctorID uuid.UUID, from, to calendar.Date) ([]*consultation.Consultation, error)
	ListAllBetween(ctx context.Context, from, to calendar.Date) ([]*consultation.Consultation, error)
}

type Service struct {
	src Source
}

func NewService(src Source) *Service {
	return &Service{src: src}
}

// Report aggregates one bucket for one doctor. History is fetched for the
// current and previous bucket in a single query so the period-over-period
// comparison needs no second round trip.
func (s *Service) Report(ctx context.Context, doctorID uuid.UUID, p Period, ref calendar.Date) (Report, error) {
	if !p.Valid() {
		return Report{}, ErrInvalidPeriod
	}
	prevFrom, _ := Bounds(p, PreviousReference(p, ref))
	_, to := Bounds(p, ref)

	items, err := s.src.ListBetween(ctx, doctorID, prevFrom, to)
	if err != nil {
		return Report{}, fmt.Errorf("load consultations: %w", err)
	}
	return Aggregate(toEntries(items), p, ref), nil
}

// GlobalReport aggregates one bucket across every doctor in the clinic.
func (s *Service) GlobalReport(ctx context.Context, p Period, ref calendar.Date) (Report, error) {
	if !p.Valid() {
		return Report{}, ErrInvalidPeriod
	}
	prevFrom, _ := Bounds(p, PreviousReference(p, ref))
	_, to := Bounds(p, ref)

	items, err := s.src.ListAllBetween(ctx, prevFrom, to)
	if err != nil {
		return Report{}, fmt.Errorf("load consultations: %w", err)
	}
	return Aggregate(toEntries(items), p, ref), nil
}

func toEntries(items []*consultation.Consultation) []Entry {
	entries := make([]Entry, 0, len(items))
	for _, c := range items {
		entries = append(entries, Entry{
			Date:        c.Date,
			PaymentType: c.PaymentType,
			AmountPaid:  c.AmountPaid,
		})
	}
	return entries
}
