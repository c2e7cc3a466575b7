package messaging

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	// ListConversation returns the messages exchanged between two users,
	// newest first.
	ListConversation(ctx context.Context, a, b uuid.UUID, limit, offset int) ([]*Message, int, error)
	// MarkRead flags every unread message sent from `from` to `to`.
	MarkRead(ctx context.Context, from, to uuid.UUID) (int, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
}
