package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidTariff is returned when a profile carries a negative tariff.
var ErrInvalidTariff = errors.New("tariff must not be negative")

type Service struct {
	repo            Repository
	defaultCurrency string
}

func NewService(repo Repository, defaultCurrency string) *Service {
	return &Service{repo: repo, defaultCurrency: defaultCurrency}
}

func (s *Service) Create(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Tariff < 0 {
		return ErrInvalidTariff
	}
	if d.Currency == "" {
		d.Currency = s.defaultCurrency
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Tariff < 0 {
		return ErrInvalidTariff
	}
	if d.Currency == "" {
		d.Currency = s.defaultCurrency
	}
	return s.repo.Update(ctx, d)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Tariff returns the doctor's current standard consultation fee.
func (s *Service) Tariff(ctx context.Context, id uuid.UUID) (float64, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return d.Tariff, nil
}
