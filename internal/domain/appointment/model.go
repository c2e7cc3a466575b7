package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/fedy10/medicab/pkg/calendar"
)

// Status is the appointment lifecycle state. Completed and cancelled are
// terminal.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Type distinguishes why the patient is coming in.
type Type string

const (
	TypeConsultation Type = "consultation"
	TypeControl      Type = "control"
	TypeEmergency    Type = "emergency"
)

func (t Type) Valid() bool {
	switch t {
	case TypeConsultation, TypeControl, TypeEmergency:
		return true
	}
	return false
}

// PaymentType categorizes how a completed visit was settled.
type PaymentType string

const (
	PaymentNormal    PaymentType = "normal"
	PaymentFree      PaymentType = "free"
	PaymentInsurance PaymentType = "insurance"
	PaymentCNAM      PaymentType = "cnam"
)

func (p PaymentType) Valid() bool {
	switch p {
	case PaymentNormal, PaymentFree, PaymentInsurance, PaymentCNAM:
		return true
	}
	return false
}

// Covered reports whether a third party reimburses part of the tariff.
func (p PaymentType) Covered() bool {
	return p == PaymentInsurance || p == PaymentCNAM
}

// Label returns the display vocabulary used on receipts and in the agenda.
func (p PaymentType) Label() string {
	switch p {
	case PaymentNormal:
		return "Normale"
	case PaymentFree:
		return "Gratuit"
	case PaymentInsurance:
		return "Assurance"
	case PaymentCNAM:
		return "CNAM"
	}
	return string(p)
}

// Appointment is a booked slot in a doctor's agenda. Patient name and phone
// are denormalized so the agenda renders without a join, and so a slot can be
// booked before the patient record exists.
type Appointment struct {
	ID           uuid.UUID          `json:"id"`
	DoctorID     uuid.UUID          `json:"doctor_id"`
	PatientID    *uuid.UUID         `json:"patient_id,omitempty"`
	PatientName  string             `json:"patient_name"`
	PatientPhone string             `json:"patient_phone"`
	Date         calendar.Date      `json:"date"`
	Time         calendar.TimeOfDay `json:"time"`
	// Duration in minutes. Informational only, slots are keyed by start time.
	Duration     int                `json:"duration"`
	// NewPatient is set on create when resolving the phone number produced a
	// fresh patient record, so the agenda can flag first visits.
	NewPatient   bool               `json:"new_patient"`
	Type         Type               `json:"type"`
	Status       Status             `json:"status"`
	Reason       *string            `json:"reason,omitempty"`
	PaymentType  *PaymentType       `json:"payment_type,omitempty"`
	AmountPaid   *float64           `json:"amount_paid,omitempty"`
	Reimbursed   *float64           `json:"reimbursed,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}
