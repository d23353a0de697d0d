package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"whatsinbox-backend/internal/integrations/infobip"
	"whatsinbox-backend/internal/models"
	"whatsinbox-backend/internal/services"
	"whatsinbox-backend/internal/store"
)

// stubSender is a canned services.MessageSender.
type stubSender struct {
	status int
	err    error
}

func (s *stubSender) Send(ctx context.Context, apiURL string, payload infobip.OutboundPayload) (int, error) {
	return s.status, s.err
}

func newSendHandlers(ms *memStore, sender services.MessageSender) *SendHandlers {
	return NewSendHandlers(services.NewSendService(ms, sender, services.SendConfig{
		SenderNumber: "447700900000",
		TextAPIURL:   "https://api.example.com/text",
		NotifyURL:    "https://relay.example.com/whatsapp/inbound",
	}))
}

func postSend(t *testing.T, h *SendHandlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/whatsapp/send", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleSend(rec, req)
	return rec
}

func decodeSendResponse(t *testing.T, rec *httptest.ResponseRecorder) models.SendMessageResponse {
	t.Helper()
	var resp models.SendMessageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding send response: %v", err)
	}
	return resp
}

func TestHandleSendDelivered(t *testing.T) {
	ms := newMemStore()
	h := newSendHandlers(ms, &stubSender{status: http.StatusOK})

	rec := postSend(t, h, `{"to":"15551234567","text":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body)
	}
	resp := decodeSendResponse(t, rec)
	if resp.Status != "sent" {
		t.Errorf("status = %q, want sent", resp.Status)
	}
	if resp.MessageID == 0 {
		t.Error("expected the persisted row id in the response")
	}
	if len(ms.messages) != 1 || ms.messages[0].Direction != models.DirectionOutbound {
		t.Errorf("stored rows = %+v", ms.messages)
	}
}

func TestHandleSendProviderFailureReportsSaved(t *testing.T) {
	ms := newMemStore()
	h := newSendHandlers(ms, &stubSender{
		status: http.StatusInternalServerError,
		err:    &infobip.UpstreamError{StatusCode: http.StatusInternalServerError, Body: "boom"},
	})

	rec := postSend(t, h, `{"to":"15551234567","text":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (row was saved)", rec.Code)
	}
	resp := decodeSendResponse(t, rec)
	if resp.Status != "saved" {
		t.Errorf("status = %q, want saved", resp.Status)
	}
	if resp.ProviderStatus != http.StatusInternalServerError || resp.Detail == "" {
		t.Errorf("response = %+v, want provider status and detail", resp)
	}
	if len(ms.messages) != 1 {
		t.Errorf("local row must stay, got %d rows", len(ms.messages))
	}
}

func TestHandleSendInvalidRequest(t *testing.T) {
	h := newSendHandlers(newMemStore(), &stubSender{status: http.StatusOK})

	for _, body := range []string{
		`{not json`,
		`{"text":"no recipient"}`,
		`{"to":"15551234567"}`,
	} {
		rec := postSend(t, h, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("POST %s status = %d, want 400", body, rec.Code)
		}
	}
}

func TestHandleSendStoreUnavailable(t *testing.T) {
	ms := newMemStore()
	ms.failWith = store.ErrUnavailable
	h := newSendHandlers(ms, &stubSender{status: http.StatusOK})

	rec := postSend(t, h, `{"to":"15551234567","text":"hello"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
