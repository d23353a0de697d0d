package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"whatsinbox-backend/internal/models"
	"whatsinbox-backend/internal/services"
	"whatsinbox-backend/pkg/httputil"
)

// maxInboundBodyBytes caps the size of a webhook callback body so a hostile
// caller cannot exhaust memory. Provider batches are far smaller than this.
const maxInboundBodyBytes = 1 << 20

// WebhookHandlers receives provider callbacks on the inbound webhook.
type WebhookHandlers struct {
	ingestService *services.IngestService
}

func NewWebhookHandlers(is *services.IngestService) *WebhookHandlers {
	return &WebhookHandlers{ingestService: is}
}

// HandleInbound handles POST /whatsapp/inbound. Only an unparseable body is a
// client error; an empty or missing batch array acknowledges zero events. A
// store failure partway through the batch is a server error, with earlier
// events left committed.
func (h *WebhookHandlers) HandleInbound(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxInboundBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to read request body")
		return
	}
	defer r.Body.Close()

	var payload models.InboundWebhook
	if err := json.Unmarshal(body, &payload); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	received, err := h.ingestService.ProcessWebhook(r.Context(), payload)
	if err != nil {
		log.Printf("ERROR [WebhookHandlers] HandleInbound: batch aborted after %d events: %v", received, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Message store unavailable")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.InboundAck{Status: "ok", Received: received})
}
