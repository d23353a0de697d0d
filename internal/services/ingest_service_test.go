package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"whatsinbox-backend/internal/models"
	"whatsinbox-backend/internal/store"
)

func webhookPayload(t *testing.T, body string) models.InboundWebhook {
	t.Helper()
	var payload models.InboundWebhook
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("test payload does not parse: %v", err)
	}
	return payload
}

func TestProcessWebhookPersistsTextEvent(t *testing.T) {
	ms := newMockStore()
	svc := NewIngestService(ms)

	payload := webhookPayload(t, `{"results":[{"from":"15551234567","contact":{"name":"Ada"},"message":{"type":"TEXT","text":{"body":"hi"}}}]}`)
	received, err := svc.ProcessWebhook(context.Background(), payload)
	if err != nil {
		t.Fatalf("ProcessWebhook: %v", err)
	}
	if received != 1 {
		t.Errorf("received = %d, want 1", received)
	}
	if ms.contacts["15551234567"] != "Ada" {
		t.Errorf("contacts = %v, want Ada under 15551234567", ms.contacts)
	}
	if len(ms.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(ms.messages))
	}
	msg := ms.messages[0]
	if msg.Phone != "15551234567" || msg.Direction != models.DirectionInbound ||
		msg.Type != models.MessageTypeText || msg.Body != "hi" {
		t.Errorf("stored message = %+v", msg)
	}
}

func TestProcessWebhookMessagesKeyAccepted(t *testing.T) {
	ms := newMockStore()
	svc := NewIngestService(ms)

	payload := webhookPayload(t, `{"messages":[{"from":"1555","message":{"text":"via messages key"}}]}`)
	received, err := svc.ProcessWebhook(context.Background(), payload)
	if err != nil {
		t.Fatalf("ProcessWebhook: %v", err)
	}
	if received != 1 {
		t.Errorf("received = %d, want 1", received)
	}
}

func TestProcessWebhookEmptyBatchIsZeroEvents(t *testing.T) {
	ms := newMockStore()
	svc := NewIngestService(ms)

	for _, body := range []string{`{}`, `{"results":[]}`, `{"results":null,"messages":[]}`} {
		received, err := svc.ProcessWebhook(context.Background(), webhookPayload(t, body))
		if err != nil {
			t.Fatalf("ProcessWebhook(%s): %v", body, err)
		}
		if received != 0 {
			t.Errorf("ProcessWebhook(%s) received = %d, want 0", body, received)
		}
	}
}

func TestProcessWebhookSkipsEventsWithoutSender(t *testing.T) {
	ms := newMockStore()
	svc := NewIngestService(ms)

	payload := webhookPayload(t, `{"results":[
		{"message":{"type":"TEXT","text":"no sender"}},
		{"from":"1555","message":{"text":"counted"}}
	]}`)
	received, err := svc.ProcessWebhook(context.Background(), payload)
	if err != nil {
		t.Fatalf("ProcessWebhook: %v", err)
	}
	if received != 1 {
		t.Errorf("received = %d, want 1 (skipped event must not count)", received)
	}
	if len(ms.messages) != 1 {
		t.Errorf("messages = %d, want 1", len(ms.messages))
	}
	if _, ok := ms.contacts[""]; ok {
		t.Error("no contact row should exist for the skipped event")
	}
}

func TestProcessWebhookStoreFailureLeavesEarlierEventsCommitted(t *testing.T) {
	ms := newMockStore()

	payload := webhookPayload(t, `{"results":[
		{"from":"1","message":{"text":"first"}},
		{"from":"2","message":{"text":"second"}}
	]}`)

	// Fail once the first event is fully persisted.
	firstDone := false
	failing := &failAfterFirst{mockStore: ms, armed: &firstDone}
	received, err := NewIngestService(failing).ProcessWebhook(context.Background(), payload)
	if !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected store.ErrUnavailable, got %v", err)
	}
	if received != 1 {
		t.Errorf("received = %d, want 1 event committed before the failure", received)
	}
	if len(ms.messages) != 1 {
		t.Errorf("messages = %d, want the first event to stay committed", len(ms.messages))
	}
}

// failAfterFirst lets one full event through, then reports unavailability.
type failAfterFirst struct {
	*mockStore
	armed *bool
}

func (f *failAfterFirst) UpsertContact(ctx context.Context, phone, name string) error {
	if *f.armed {
		return store.ErrUnavailable
	}
	return f.mockStore.UpsertContact(ctx, phone, name)
}

func (f *failAfterFirst) AppendMessage(ctx context.Context, arg store.AppendMessageParams) (int64, error) {
	id, err := f.mockStore.AppendMessage(ctx, arg)
	*f.armed = true
	return id, err
}
