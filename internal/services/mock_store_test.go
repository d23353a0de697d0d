package services

import (
	"context"
	"time"

	"whatsinbox-backend/internal/models"
	"whatsinbox-backend/internal/store"
)

// mockStore is an in-memory store.Store for service tests. Setting failWith
// makes every write fail, simulating store unavailability.
type mockStore struct {
	contacts map[string]string
	messages []models.Message
	nextID   int64
	failWith error
}

var _ store.Store = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{contacts: map[string]string{}, nextID: 1}
}

func (m *mockStore) EnsureSchema(ctx context.Context) error { return m.failWith }

func (m *mockStore) UpsertContact(ctx context.Context, phone, name string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.contacts[phone] = name
	return nil
}

func (m *mockStore) AppendMessage(ctx context.Context, arg store.AppendMessageParams) (int64, error) {
	if m.failWith != nil {
		return 0, m.failWith
	}
	id := m.nextID
	m.nextID++
	m.messages = append(m.messages, models.Message{
		ID:        id,
		Phone:     arg.Phone,
		Body:      arg.Body,
		Direction: arg.Direction,
		Timestamp: time.Now().UTC(),
		Type:      arg.Type,
		MediaLink: arg.MediaLink,
		Caption:   arg.Caption,
	})
	return id, nil
}

func (m *mockStore) ListMessages(ctx context.Context, phone string) ([]models.Message, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	if phone == store.ConversationAll {
		return append([]models.Message(nil), m.messages...), nil
	}
	var out []models.Message
	for _, msg := range m.messages {
		if msg.Phone == phone {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockStore) ListContacts(ctx context.Context) (map[string]string, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := map[string]string{}
	for k, v := range m.contacts {
		out[k] = v
	}
	return out, nil
}
