package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fedy10/medicab/pkg/calendar"
)

var (
	ErrNotFound       = errors.New("appointment not found")
	ErrMissingPatient = errors.New("patient name and phone are required")
	ErrInvalidDate    = errors.New("a valid appointment date is required")
	ErrInvalidTime    = errors.New("a valid appointment time is required")
	ErrInvalidType    = errors.New("invalid appointment type")
	ErrSlotTaken      = errors.New("slot already booked")
	ErrNotScheduled   = errors.New("only a scheduled appointment can be confirmed")
	ErrTerminal       = errors.New("appointment is in a terminal state")
	ErrInvalidPayment = errors.New("invalid payment type")
	ErrNegativeAmount = errors.New("amount paid must be a non-negative number")
	ErrAmountRequired = errors.New("amount paid is required for insurance and cnam payments")
)

// IdentityResolver maps a (name, phone) pair onto a patient record, creating
// one when the phone is unknown to this doctor.
type IdentityResolver interface {
	Resolve(ctx context.Context, doctorID uuid.UUID, name, phone string) (uuid.UUID, bool, error)
}

// TariffSource reads the doctor's current standard fee. Confirmation always
// uses the fee in force at confirm time, not at booking time.
type TariffSource interface {
	Tariff(ctx context.Context, doctorID uuid.UUID) (float64, error)
}

// Recorder persists the financial record of a completed visit. Records are
// written once and never updated through this interface.
type Recorder interface {
	Record(ctx context.Context, v VisitRecord) error
}

// VisitRecord is the payload handed to the Recorder when an appointment is
// confirmed.
type VisitRecord struct {
	AppointmentID uuid.UUID
	DoctorID      uuid.UUID
	PatientID     *uuid.UUID
	PatientName   string
	Date          calendar.Date
	PaymentType   PaymentType
	Tariff        float64
	AmountPaid    float64
	Reimbursed    *float64
}

type Service struct {
	repo     Repository
	resolver IdentityResolver
	tariffs  TariffSource
	recorder Recorder

	// allowDoubleBooking keeps the historical behavior where two patients can
	// hold the same slot. Some clinics rely on it for overlapping control
	// visits, so it defaults on.
	allowDoubleBooking bool
}

func NewService(repo Repository, resolver IdentityResolver, tariffs TariffSource, recorder Recorder, allowDoubleBooking bool) *Service {
	return &Service{
		repo:               repo,
		resolver:           resolver,
		tariffs:            tariffs,
		recorder:           recorder,
		allowDoubleBooking: allowDoubleBooking,
	}
}

// Create books a slot. The patient is resolved by exact phone match first;
// when no record exists one is created. Patient creation and appointment
// creation are two separate writes: if the second fails the new patient
// record stays behind, which is acceptable.
func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if err := s.validate(a); err != nil {
		return err
	}
	if !s.allowDoubleBooking {
		taken, err := s.repo.ExistsAt(ctx, a.DoctorID, a.Date, a.Time, uuid.Nil)
		if err != nil {
			return fmt.Errorf("check slot: %w", err)
		}
		if taken {
			return ErrSlotTaken
		}
	}
	patientID, created, err := s.resolver.Resolve(ctx, a.DoctorID, a.PatientName, a.PatientPhone)
	if err != nil {
		return fmt.Errorf("resolve patient: %w", err)
	}
	a.PatientID = &patientID
	a.NewPatient = created
	a.Status = StatusScheduled
	if err := s.repo.Create(ctx, a); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

// Update edits the slot details of a scheduled appointment. Status and
// payment fields are not writable here: completion goes through Confirm and
// cancellation through Cancel.
func (s *Service) Update(ctx context.Context, a *Appointment) error {
	existing, err := s.Get(ctx, a.ID)
	if err != nil {
		return err
	}
	if existing.Status.Terminal() {
		return ErrTerminal
	}
	if err := s.validate(a); err != nil {
		return err
	}
	if !s.allowDoubleBooking {
		taken, err := s.repo.ExistsAt(ctx, existing.DoctorID, a.Date, a.Time, a.ID)
		if err != nil {
			return fmt.Errorf("check slot: %w", err)
		}
		if taken {
			return ErrSlotTaken
		}
	}
	existing.PatientName = a.PatientName
	existing.PatientPhone = a.PatientPhone
	existing.Date = a.Date
	existing.Time = a.Time
	existing.Duration = a.Duration
	existing.Type = a.Type
	existing.Reason = a.Reason
	*a = *existing
	return s.repo.Update(ctx, existing)
}

// Cancel marks a scheduled appointment cancelled. Terminal, no way back.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status.Terminal() {
		return nil, ErrTerminal
	}
	a.Status = StatusCancelled
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	return a, nil
}

// Delete removes the appointment row. A consultation created from it is a
// historical financial record and is left untouched.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Confirmation is the caller's payment choice for Confirm.
type Confirmation struct {
	PaymentType PaymentType `json:"payment_type"`
	// AmountPaid is required for insurance and cnam and ignored otherwise.
	AmountPaid *float64 `json:"amount_paid,omitempty"`
}

// Confirm moves a scheduled appointment to completed, settles the payment
// and writes the consultation record. The only transition into completed,
// and completed is terminal.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID, conf Confirmation) (*Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusScheduled {
		return nil, ErrNotScheduled
	}
	if !conf.PaymentType.Valid() {
		return nil, ErrInvalidPayment
	}

	tariff, err := s.tariffs.Tariff(ctx, a.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("read tariff: %w", err)
	}

	amountPaid, reimbursed, err := settle(conf, tariff)
	if err != nil {
		return nil, err
	}

	a.Status = StatusCompleted
	pt := conf.PaymentType
	a.PaymentType = &pt
	a.AmountPaid = &amountPaid
	a.Reimbursed = reimbursed
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("confirm appointment: %w", err)
	}

	rec := VisitRecord{
		AppointmentID: a.ID,
		DoctorID:      a.DoctorID,
		PatientID:     a.PatientID,
		PatientName:   a.PatientName,
		Date:          a.Date,
		PaymentType:   conf.PaymentType,
		Tariff:        tariff,
		AmountPaid:    amountPaid,
		Reimbursed:    reimbursed,
	}
	if err := s.recorder.Record(ctx, rec); err != nil {
		return nil, fmt.Errorf("record consultation: %w", err)
	}
	return a, nil
}

// settle applies the payment rules. Reimbursed is nil for categories where
// reimbursement does not apply.
func settle(conf Confirmation, tariff float64) (float64, *float64, error) {
	switch conf.PaymentType {
	case PaymentNormal:
		return tariff, nil, nil
	case PaymentFree:
		return 0, nil, nil
	case PaymentInsurance, PaymentCNAM:
		if conf.AmountPaid == nil {
			return 0, nil, ErrAmountRequired
		}
		if *conf.AmountPaid < 0 {
			return 0, nil, ErrNegativeAmount
		}
		r := tariff - *conf.AmountPaid
		if r < 0 {
			r = 0
		}
		return *conf.AmountPaid, &r, nil
	}
	return 0, nil, ErrInvalidPayment
}

// Agenda returns the doctor's appointments for one day, ordered by time.
func (s *Service) Agenda(ctx context.Context, doctorID uuid.UUID, date calendar.Date) ([]*Appointment, error) {
	return s.repo.ListByDate(ctx, doctorID, date)
}

func (s *Service) List(ctx context.Context, doctorID uuid.UUID, f Filter, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByDoctor(ctx, doctorID, f, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) validate(a *Appointment) error {
	a.PatientName = strings.TrimSpace(a.PatientName)
	a.PatientPhone = strings.TrimSpace(a.PatientPhone)
	if a.PatientName == "" || a.PatientPhone == "" {
		return ErrMissingPatient
	}
	if !a.Date.IsValid() {
		return ErrInvalidDate
	}
	// The clinic never books midnight slots, so a zero time means the field
	// was omitted.
	if a.Time == (calendar.TimeOfDay{}) {
		return ErrInvalidTime
	}
	if a.Type == "" {
		a.Type = TypeConsultation
	}
	if !a.Type.Valid() {
		return ErrInvalidType
	}
	if a.Duration <= 0 {
		a.Duration = 30
	}
	return nil
}
