package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Message is one directed message between two users of the clinic (doctor
// and secretary, typically). Stored alongside the rest of the data rather
// than in any per-client cache, so every device sees the same conversation.
type Message struct {
	ID          uuid.UUID `json:"id"`
	SenderID    uuid.UUID `json:"sender_id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Body        string    `json:"body"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}
