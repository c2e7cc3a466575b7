package appointment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fedy10/medicab/pkg/calendar"
)

type mockRepo struct {
	appointments map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{appointments: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.appointments[a.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.appointments, id)
	return nil
}

func (m *mockRepo) ListByDate(_ context.Context, doctorID uuid.UUID, date calendar.Date) ([]*Appointment, error) {
	var items []*Appointment
	for _, a := range m.appointments {
		if a.DoctorID == doctorID && a.Date == date {
			cp := *a
			items = append(items, &cp)
		}
	}
	return items, nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, f Filter, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appointments {
		if a.DoctorID == doctorID {
			cp := *a
			items = append(items, &cp)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appointments {
		if a.PatientID != nil && *a.PatientID == patientID {
			cp := *a
			items = append(items, &cp)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) ExistsAt(_ context.Context, doctorID uuid.UUID, date calendar.Date, t calendar.TimeOfDay, exclude uuid.UUID) (bool, error) {
	for _, a := range m.appointments {
		if a.ID != exclude && a.DoctorID == doctorID && a.Date == date && a.Time == t && a.Status != StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

type mockResolver struct {
	byPhone map[string]uuid.UUID
}

func newMockResolver() *mockResolver {
	return &mockResolver{byPhone: make(map[string]uuid.UUID)}
}

func (m *mockResolver) Resolve(_ context.Context, doctorID uuid.UUID, name, phone string) (uuid.UUID, bool, error) {
	key := doctorID.String() + "|" + phone
	if id, ok := m.byPhone[key]; ok {
		return id, false, nil
	}
	id := uuid.New()
	m.byPhone[key] = id
	return id, true, nil
}

type mockTariffs struct{ tariff float64 }

func (m *mockTariffs) Tariff(_ context.Context, _ uuid.UUID) (float64, error) {
	return m.tariff, nil
}

type mockRecorder struct{ records []VisitRecord }

func (m *mockRecorder) Record(_ context.Context, v VisitRecord) error {
	m.records = append(m.records, v)
	return nil
}

type fixture struct {
	svc      *Service
	repo     *mockRepo
	tariffs  *mockTariffs
	recorder *mockRecorder
}

func newFixture(tariff float64, allowDoubleBooking bool) *fixture {
	repo := newMockRepo()
	tariffs := &mockTariffs{tariff: tariff}
	recorder := &mockRecorder{}
	svc := NewService(repo, newMockResolver(), tariffs, recorder, allowDoubleBooking)
	return &fixture{svc: svc, repo: repo, tariffs: tariffs, recorder: recorder}
}

func (f *fixture) book(t *testing.T, doctorID uuid.UUID, date, tod string) *Appointment {
	t.Helper()
	d, err := calendar.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	hm, err := calendar.ParseTimeOfDay(tod)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	a := &Appointment{
		DoctorID:     doctorID,
		PatientName:  "Ali Ben Salah",
		PatientPhone: "21612345",
		Date:         d,
		Time:         hm,
		Type:         TypeConsultation,
	}
	if err := f.svc.Create(context.Background(), a); err != nil {
		t.Fatalf("create: %v", err)
	}
	return a
}

func fptr(v float64) *float64 { return &v }

func TestCreateResolvesPatientAndSchedules(t *testing.T) {
	f := newFixture(60, true)
	a := f.book(t, uuid.New(), "2024-03-05", "09:00")

	if a.Status != StatusScheduled {
		t.Errorf("status = %s, want scheduled", a.Status)
	}
	if a.PatientID == nil {
		t.Fatal("expected patient to be resolved on create")
	}
	if !a.NewPatient {
		t.Error("first booking for a phone must be flagged as a new patient")
	}
	b := f.book(t, a.DoctorID, "2024-03-06", "10:00")
	if *b.PatientID != *a.PatientID {
		t.Error("same phone must resolve to the same patient")
	}
	if b.NewPatient {
		t.Error("a returning patient must not be flagged as new")
	}
}

func TestCreateRequiresDateAndTime(t *testing.T) {
	f := newFixture(60, true)
	doctorID := uuid.New()

	a := &Appointment{
		DoctorID:     doctorID,
		PatientName:  "Ali Ben Salah",
		PatientPhone: "21612345",
	}
	if err := f.svc.Create(context.Background(), a); err != ErrInvalidDate {
		t.Errorf("zero date: expected ErrInvalidDate, got %v", err)
	}

	d, _ := calendar.ParseDate("2024-03-05")
	a.Date = d
	if err := f.svc.Create(context.Background(), a); err != ErrInvalidTime {
		t.Errorf("zero time: expected ErrInvalidTime, got %v", err)
	}

	if len(f.repo.appointments) != 0 {
		t.Errorf("rejected bookings must not be stored, found %d", len(f.repo.appointments))
	}

	hm, _ := calendar.ParseTimeOfDay("09:00")
	a.Time = hm
	if err := f.svc.Create(context.Background(), a); err != nil {
		t.Errorf("valid slot rejected: %v", err)
	}
}

func TestDoubleBookingAllowedByDefault(t *testing.T) {
	f := newFixture(60, true)
	doctorID := uuid.New()
	f.book(t, doctorID, "2024-03-05", "09:00")
	f.book(t, doctorID, "2024-03-05", "09:00")
}

func TestDoubleBookingRejectedWhenDisabled(t *testing.T) {
	f := newFixture(60, false)
	doctorID := uuid.New()
	first := f.book(t, doctorID, "2024-03-05", "09:00")

	dup := &Appointment{
		DoctorID:     doctorID,
		PatientName:  "Mouna Trabelsi",
		PatientPhone: "21698765",
		Date:         first.Date,
		Time:         first.Time,
	}
	if err := f.svc.Create(context.Background(), dup); err != ErrSlotTaken {
		t.Errorf("expected ErrSlotTaken, got %v", err)
	}
	// A cancelled appointment frees its slot.
	if _, err := f.svc.Cancel(context.Background(), first.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := f.svc.Create(context.Background(), dup); err != nil {
		t.Errorf("expected cancelled slot to be bookable, got %v", err)
	}
}

func TestConfirmNormalPaysTariff(t *testing.T) {
	f := newFixture(60, true)
	a := f.book(t, uuid.New(), "2024-03-05", "09:00")

	got, err := f.svc.Confirm(context.Background(), a.ID, Confirmation{PaymentType: PaymentNormal})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", got.Status)
	}
	if got.AmountPaid == nil || *got.AmountPaid != 60 {
		t.Errorf("amount paid = %v, want 60", got.AmountPaid)
	}
	if got.Reimbursed != nil {
		t.Errorf("reimbursed = %v, want nil for normal", *got.Reimbursed)
	}
}

func TestConfirmFreePaysNothing(t *testing.T) {
	f := newFixture(60, true)
	a := f.book(t, uuid.New(), "2024-03-05", "09:00")

	got, err := f.svc.Confirm(context.Background(), a.ID, Confirmation{PaymentType: PaymentFree})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got.AmountPaid == nil || *got.AmountPaid != 0 {
		t.Errorf("amount paid = %v, want 0", got.AmountPaid)
	}
	if got.Reimbursed != nil {
		t.Errorf("reimbursed = %v, want nil for free", *got.Reimbursed)
	}
}

func TestConfirmInsuranceReimbursement(t *testing.T) {
	cases := []struct {
		name       string
		tariff     float64
		paid       float64
		reimbursed float64
	}{
		{"partial", 60, 40, 20},
		{"full", 60, 60, 0},
		{"overpaid floors at zero", 60, 80, 0},
		{"nothing paid", 60, 0, 60},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(tc.tariff, true)
			a := f.book(t, uuid.New(), "2024-03-05", "09:00")

			got, err := f.svc.Confirm(context.Background(), a.ID, Confirmation{
				PaymentType: PaymentInsurance,
				AmountPaid:  fptr(tc.paid),
			})
			if err != nil {
				t.Fatalf("confirm: %v", err)
			}
			if *got.AmountPaid != tc.paid {
				t.Errorf("amount paid = %v, want %v", *got.AmountPaid, tc.paid)
			}
			if got.Reimbursed == nil || *got.Reimbursed != tc.reimbursed {
				t.Errorf("reimbursed = %v, want %v", got.Reimbursed, tc.reimbursed)
			}
		})
	}
}

func TestConfirmCNAMBehavesLikeInsurance(t *testing.T) {
	f := newFixture(60, true)
	a := f.book(t, uuid.New(), "2024-03-05", "09:00")

	got, err := f.svc.Confirm(context.Background(), a.ID, Confirmation{
		PaymentType: PaymentCNAM,
		AmountPaid:  fptr(40),
	})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if *got.Reimbursed != 20 {
		t.Errorf("reimbursed = %v, want 20", *got.Reimbursed)
	}
}

func TestConfirmInsuranceRequiresAmount(t *testing.T) {
	f := newFixture(60, true)
	a := f.book(t, uuid.New(), "2024-03-05", "09:00")

	_, err := f.svc.Confirm(context.Background(), a.ID, Confirmation{PaymentType: PaymentInsurance})
	if err != ErrAmountRequired {
		t.Errorf("expected ErrAmountRequired, got %v", err)
	}
	_, err = f.svc.Confirm(context.Background(), a.ID, Confirmation{
		PaymentType: PaymentCNAM,
		AmountPaid:  fptr(-5),
	})
	if err != ErrNegativeAmount {
		t.Errorf("expected ErrNegativeAmount, got %v", err)
	}
	// Rejections happen before any write.
	if len(f.recorder.records) != 0 {
		t.Errorf("expected no consultation record, got %d", len(f.recorder.records))
	}
	if stored := f.repo.appointments[a.ID]; stored.Status != StatusScheduled {
		t.Errorf("status = %s, want scheduled after rejected confirm", stored.Status)
	}
}

func TestConfirmUsesCurrentTariff(t *testing.T) {
	f := newFixture(60, true)
	a := f.book(t, uuid.New(), "2024-03-05", "09:00")

	// Tariff raised between booking and confirmation.
	f.tariffs.tariff = 80
	got, err := f.svc.Confirm(context.Background(), a.ID, Confirmation{PaymentType: PaymentNormal})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if *got.AmountPaid != 80 {
		t.Errorf("amount paid = %v, want the tariff at confirm time (80)", *got.AmountPaid)
	}
}

func TestConfirmIsTerminal(t *testing.T) {
	f := newFixture(60, true)
	a := f.book(t, uuid.New(), "2024-03-05", "09:00")

	if _, err := f.svc.Confirm(context.Background(), a.ID, Confirmation{PaymentType: PaymentNormal}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := f.svc.Confirm(context.Background(), a.ID, Confirmation{PaymentType: PaymentNormal}); err != ErrNotScheduled {
		t.Errorf("expected ErrNotScheduled on second confirm, got %v", err)
	}
	if len(f.recorder.records) != 1 {
		t.Errorf("expected exactly one consultation record, got %d", len(f.recorder.records))
	}
}

func TestConfirmRecordsVisit(t *testing.T) {
	f := newFixture(60, true)
	a := f.book(t, uuid.New(), "2024-03-05", "09:00")

	if _, err := f.svc.Confirm(context.Background(), a.ID, Confirmation{
		PaymentType: PaymentInsurance,
		AmountPaid:  fptr(40),
	}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(f.recorder.records) != 1 {
		t.Fatalf("expected one record, got %d", len(f.recorder.records))
	}
	rec := f.recorder.records[0]
	if rec.AppointmentID != a.ID || rec.DoctorID != a.DoctorID {
		t.Errorf("record references wrong appointment: %+v", rec)
	}
	if rec.Tariff != 60 || rec.AmountPaid != 40 || rec.Reimbursed == nil || *rec.Reimbursed != 20 {
		t.Errorf("record payment fields wrong: %+v", rec)
	}
	if rec.Date != a.Date {
		t.Errorf("record date = %s, want %s", rec.Date, a.Date)
	}
}

func TestCancelledAppointmentCannotBeConfirmed(t *testing.T) {
	f := newFixture(60, true)
	a := f.book(t, uuid.New(), "2024-03-05", "09:00")

	if _, err := f.svc.Cancel(context.Background(), a.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := f.svc.Confirm(context.Background(), a.ID, Confirmation{PaymentType: PaymentNormal}); err != ErrNotScheduled {
		t.Errorf("expected ErrNotScheduled, got %v", err)
	}
	if _, err := f.svc.Cancel(context.Background(), a.ID); err != ErrTerminal {
		t.Errorf("expected ErrTerminal on second cancel, got %v", err)
	}
}

func TestUpdateRejectedAfterCompletion(t *testing.T) {
	f := newFixture(60, true)
	a := f.book(t, uuid.New(), "2024-03-05", "09:00")

	if _, err := f.svc.Confirm(context.Background(), a.ID, Confirmation{PaymentType: PaymentNormal}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	a.PatientName = "Someone Else"
	if err := f.svc.Update(context.Background(), a); err != ErrTerminal {
		t.Errorf("expected ErrTerminal, got %v", err)
	}
}

func TestDeleteLeavesConsultation(t *testing.T) {
	f := newFixture(60, true)
	a := f.book(t, uuid.New(), "2024-03-05", "09:00")

	if _, err := f.svc.Confirm(context.Background(), a.ID, Confirmation{PaymentType: PaymentNormal}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := f.svc.Delete(context.Background(), a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(f.recorder.records) != 1 {
		t.Errorf("consultation record must survive appointment deletion, got %d records", len(f.recorder.records))
	}
	if _, err := f.svc.Get(context.Background(), a.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestConfirmMissingAppointment(t *testing.T) {
	f := newFixture(60, true)
	_, err := f.svc.Confirm(context.Background(), uuid.New(), Confirmation{PaymentType: PaymentNormal})
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPaymentLabels(t *testing.T) {
	cases := map[PaymentType]string{
		PaymentNormal:    "Normale",
		PaymentFree:      "Gratuit",
		PaymentInsurance: "Assurance",
		PaymentCNAM:      "CNAM",
	}
	for pt, want := range cases {
		if got := pt.Label(); got != want {
			t.Errorf("%s label = %q, want %q", pt, got, want)
		}
	}
}
