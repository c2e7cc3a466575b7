package consultation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fedy10/medicab/internal/domain/appointment"
	"github.com/fedy10/medicab/pkg/calendar"
)

type mockRepo struct {
	consultations map[uuid.UUID]*Consultation
}

func newMockRepo() *mockRepo {
	return &mockRepo{consultations: make(map[uuid.UUID]*Consultation)}
}

func (m *mockRepo) Create(_ context.Context, c *Consultation) error {
	c.ID = uuid.New()
	cp := *c
	m.consultations[c.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Consultation, error) {
	c, ok := m.consultations[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (m *mockRepo) GetByAppointment(_ context.Context, appointmentID uuid.UUID) (*Consultation, error) {
	for _, c := range m.consultations {
		if c.AppointmentID == appointmentID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockRepo) UpdateNotes(_ context.Context, id uuid.UUID, notes ClinicalNotes) error {
	c, ok := m.consultations[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.Symptoms = notes.Symptoms
	c.Diagnosis = notes.Diagnosis
	c.Prescription = notes.Prescription
	return nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	var items []*Consultation
	for _, c := range m.consultations {
		if c.DoctorID == doctorID {
			cp := *c
			items = append(items, &cp)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	var items []*Consultation
	for _, c := range m.consultations {
		if c.PatientID != nil && *c.PatientID == patientID {
			cp := *c
			items = append(items, &cp)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) ListBetween(_ context.Context, doctorID uuid.UUID, from, to calendar.Date) ([]*Consultation, error) {
	var items []*Consultation
	for _, c := range m.consultations {
		if c.DoctorID == doctorID && !c.Date.Before(from) && !to.Before(c.Date) {
			cp := *c
			items = append(items, &cp)
		}
	}
	return items, nil
}

func (m *mockRepo) ListAllBetween(_ context.Context, from, to calendar.Date) ([]*Consultation, error) {
	var items []*Consultation
	for _, c := range m.consultations {
		if !c.Date.Before(from) && !to.Before(c.Date) {
			cp := *c
			items = append(items, &cp)
		}
	}
	return items, nil
}

func mustDate(t *testing.T, s string) calendar.Date {
	t.Helper()
	d, err := calendar.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestRecorderCreatesBlankClinicalFields(t *testing.T) {
	repo := newMockRepo()
	rec := NewRecorder(repo)
	reimbursed := 20.0
	v := appointment.VisitRecord{
		AppointmentID: uuid.New(),
		DoctorID:      uuid.New(),
		PatientName:   "Ali Ben Salah",
		Date:          mustDate(t, "2024-03-05"),
		PaymentType:   appointment.PaymentInsurance,
		Tariff:        60,
		AmountPaid:    40,
		Reimbursed:    &reimbursed,
	}
	if err := rec.Record(context.Background(), v); err != nil {
		t.Fatalf("record: %v", err)
	}

	c, err := NewService(repo).GetByAppointment(context.Background(), v.AppointmentID)
	if err != nil {
		t.Fatalf("get by appointment: %v", err)
	}
	if c.Tariff != 60 || c.AmountPaid != 40 || c.Reimbursed == nil || *c.Reimbursed != 20 {
		t.Errorf("payment fields not carried over: %+v", c)
	}
	if c.Symptoms != "" || c.Diagnosis != "" || c.Prescription != "" {
		t.Errorf("clinical fields must start blank: %+v", c)
	}
}

func TestUpdateNotesDoesNotTouchPayment(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	c := &Consultation{
		AppointmentID: uuid.New(),
		DoctorID:      uuid.New(),
		PatientName:   "Ali Ben Salah",
		Date:          mustDate(t, "2024-03-05"),
		PaymentType:   appointment.PaymentNormal,
		Tariff:        60,
		AmountPaid:    60,
	}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateNotes(context.Background(), c.ID, ClinicalNotes{
		Symptoms:     "fever",
		Diagnosis:    "flu",
		Prescription: "rest",
	})
	if err != nil {
		t.Fatalf("update notes: %v", err)
	}
	if updated.Symptoms != "fever" || updated.Diagnosis != "flu" || updated.Prescription != "rest" {
		t.Errorf("notes not applied: %+v", updated)
	}
	if updated.AmountPaid != 60 || updated.Tariff != 60 || updated.PaymentType != appointment.PaymentNormal {
		t.Errorf("payment fields changed by notes update: %+v", updated)
	}
}

func TestUpdateNotesMissing(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.UpdateNotes(context.Background(), uuid.New(), ClinicalNotes{Symptoms: "fever"})
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
