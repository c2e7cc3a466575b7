package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound     = errors.New("patient not found")
	ErrMissingName  = errors.New("patient name is required")
	ErrMissingPhone = errors.New("patient phone is required")
)

type Service struct {
	repo    Repository
	matcher Matcher
}

func NewService(repo Repository, matcher Matcher) *Service {
	return &Service{repo: repo, matcher: matcher}
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	if _, err := s.Get(ctx, p.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Patient, int, error) {
	return s.repo.ListByDoctor(ctx, doctorID, limit, offset)
}

func (s *Service) Search(ctx context.Context, doctorID uuid.UUID, name string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.SearchByName(ctx, doctorID, name, limit, offset)
}

// Resolve finds the patient with exactly this phone, or creates one when none
// exists. Confirming the same name+phone twice therefore always lands on the
// same record, while a different phone spelling yields a new one.
func (s *Service) Resolve(ctx context.Context, doctorID uuid.UUID, name, phone string) (*Patient, bool, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, false, ErrMissingPhone
	}
	if existing, found, err := s.matcher.Match(ctx, doctorID, phone); err != nil {
		return nil, false, fmt.Errorf("resolve patient: %w", err)
	} else if found {
		return existing, false, nil
	}
	if name == "" {
		return nil, false, ErrMissingName
	}
	p := &Patient{DoctorID: doctorID, Name: name, Phone: phone}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, false, fmt.Errorf("create patient: %w", err)
	}
	return p, true, nil
}

// IdentityAdapter exposes Resolve in the shape the appointment flow consumes:
// just the patient id, not the whole record.
type IdentityAdapter struct {
	Svc *Service
}

func (a IdentityAdapter) Resolve(ctx context.Context, doctorID uuid.UUID, name, phone string) (uuid.UUID, bool, error) {
	p, created, err := a.Svc.Resolve(ctx, doctorID, name, phone)
	if err != nil {
		return uuid.Nil, false, err
	}
	return p.ID, created, nil
}

func validate(p *Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	if p.Name == "" {
		return ErrMissingName
	}
	if p.Phone == "" {
		return ErrMissingPhone
	}
	return nil
}
