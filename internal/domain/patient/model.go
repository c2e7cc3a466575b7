package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/fedy10/medicab/pkg/calendar"
)

// Patient maps to the patient table. Phone is the primary matching key for
// identity resolution; every patient belongs to exactly one doctor.
type Patient struct {
	ID         uuid.UUID      `db:"id" json:"id"`
	DoctorID   uuid.UUID      `db:"doctor_id" json:"doctor_id"`
	Name       string         `db:"name" json:"name"`
	Phone      string         `db:"phone" json:"phone"`
	Email      *string        `db:"email" json:"email,omitempty"`
	Address    *string        `db:"address" json:"address,omitempty"`
	Profession *string        `db:"profession" json:"profession,omitempty"`
	Country    *string        `db:"country" json:"country,omitempty"`
	Region     *string        `db:"region" json:"region,omitempty"`
	BirthDate  *calendar.Date `db:"birth_date" json:"birth_date,omitempty"`
	Conditions []string       `db:"conditions" json:"conditions,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// Age derives the patient's age in full years at the given date. Returns
// -1 when the birth date is unknown.
func (p *Patient) Age(at calendar.Date) int {
	if p.BirthDate == nil {
		return -1
	}
	b := *p.BirthDate
	age := at.Year - b.Year
	if at.Month < b.Month || (at.Month == b.Month && at.Day < b.Day) {
		age--
	}
	if age < 0 {
		return -1
	}
	return age
}
