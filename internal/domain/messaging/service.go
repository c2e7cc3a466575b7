package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyBody   = errors.New("message body is empty")
	ErrSelfMessage = errors.New("cannot send a message to yourself")
	ErrNoRecipient = errors.New("recipient is required")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Send(ctx context.Context, senderID, recipientID uuid.UUID, body string) (*Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	if recipientID == uuid.Nil {
		return nil, ErrNoRecipient
	}
	if senderID == recipientID {
		return nil, ErrSelfMessage
	}
	m := &Message{SenderID: senderID, RecipientID: recipientID, Body: body}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return m, nil
}

func (s *Service) Conversation(ctx context.Context, userID, otherID uuid.UUID, limit, offset int) ([]*Message, int, error) {
	return s.repo.ListConversation(ctx, userID, otherID, limit, offset)
}

// MarkRead marks everything the other party sent to this user as read and
// returns how many messages changed.
func (s *Service) MarkRead(ctx context.Context, userID, otherID uuid.UUID) (int, error) {
	return s.repo.MarkRead(ctx, otherID, userID)
}

func (s *Service) Unread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
