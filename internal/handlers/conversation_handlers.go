package handlers

import (
	"log"
	"net/http"

	"whatsinbox-backend/internal/models"
	"whatsinbox-backend/internal/services"
	"whatsinbox-backend/pkg/httputil"
)

// ConversationHandlers serves the viewer's read endpoints.
type ConversationHandlers struct {
	conversationService *services.ConversationService
	mediaService        *services.MediaService
}

func NewConversationHandlers(cs *services.ConversationService, ms *services.MediaService) *ConversationHandlers {
	return &ConversationHandlers{conversationService: cs, mediaService: ms}
}

// HandleListMessages handles GET /messages?phone=<phone|All>. The default
// selector is All. Each message carries a media_url the viewer can use
// directly: proxied for inbound provider media, verbatim for outbound URLs.
func (h *ConversationHandlers) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")

	messages, err := h.conversationService.ListMessages(r.Context(), phone)
	if err != nil {
		log.Printf("ERROR [ConversationHandlers] HandleListMessages: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Message store unavailable")
		return
	}

	resp := make([]models.MessageResponse, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, models.MessageResponse{
			ID:        m.ID,
			Phone:     m.Phone,
			Body:      m.Body,
			Direction: m.Direction,
			Timestamp: m.Timestamp,
			Type:      m.Type,
			MediaLink: m.MediaLink,
			Caption:   m.Caption,
			MediaURL:  h.mediaService.MediaProxyURL(m.MediaLink, m.Direction),
		})
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleListContacts handles GET /contacts, returning the phone -> name map.
func (h *ConversationHandlers) HandleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.conversationService.ListContacts(r.Context())
	if err != nil {
		log.Printf("ERROR [ConversationHandlers] HandleListContacts: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Message store unavailable")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, contacts)
}
