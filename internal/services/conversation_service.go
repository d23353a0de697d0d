package services

import (
	"context"
	"fmt"

	"whatsinbox-backend/internal/models"
	"whatsinbox-backend/internal/store"
)

// ConversationService serves the viewer's read path over the conversation
// log. An empty phone selector means the ConversationAll wildcard.
type ConversationService struct {
	store store.Store
}

func NewConversationService(s store.Store) *ConversationService {
	return &ConversationService{store: s}
}

func (s *ConversationService) ListMessages(ctx context.Context, phone string) ([]models.Message, error) {
	if phone == "" {
		phone = store.ConversationAll
	}
	messages, err := s.store.ListMessages(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("listing messages for %q: %w", phone, err)
	}
	return messages, nil
}

func (s *ConversationService) ListContacts(ctx context.Context) (map[string]string, error) {
	contacts, err := s.store.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	return contacts, nil
}
