package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Doctor maps to the doctor table. Tariff is the standard fee for one
// consultation; the payment confirmation engine reads it at confirmation
// time, never from a value cached when the appointment was booked.
type Doctor struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Specialty *string   `db:"specialty" json:"specialty,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Tariff    float64   `db:"tariff" json:"tariff"`
	Currency  string    `db:"currency" json:"currency"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
