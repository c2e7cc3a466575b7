package consultation

import (
	"time"

	"github.com/google/uuid"

	"github.com/fedy10/medicab/internal/domain/appointment"
	"github.com/fedy10/medicab/pkg/calendar"
)

// Consultation is the financial and clinical record of a completed visit.
// It is created once, when the appointment is confirmed, and its payment
// fields never change afterwards. Clinical fields start blank and are filled
// in later. The record outlives its appointment: deleting the appointment
// does not cascade here.
type Consultation struct {
	ID            uuid.UUID               `json:"id"`
	AppointmentID uuid.UUID               `json:"appointment_id"`
	DoctorID      uuid.UUID               `json:"doctor_id"`
	PatientID     *uuid.UUID              `json:"patient_id,omitempty"`
	PatientName   string                  `json:"patient_name"`
	Date          calendar.Date           `json:"date"`
	PaymentType   appointment.PaymentType `json:"payment_type"`
	Tariff        float64                 `json:"tariff"`
	AmountPaid    float64                 `json:"amount_paid"`
	Reimbursed    *float64                `json:"reimbursed,omitempty"`
	Symptoms      string                  `json:"symptoms"`
	Diagnosis     string                  `json:"diagnosis"`
	Prescription  string                  `json:"prescription"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// ClinicalNotes is the mutable part of a consultation.
type ClinicalNotes struct {
	Symptoms     string `json:"symptoms"`
	Diagnosis    string `json:"diagnosis"`
	Prescription string `json:"prescription"`
}
