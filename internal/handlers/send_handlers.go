package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"whatsinbox-backend/internal/models"
	"whatsinbox-backend/internal/services"
	"whatsinbox-backend/pkg/httputil"
)

// SendHandlers exposes the outbound send path.
type SendHandlers struct {
	sendService *services.SendService
}

func NewSendHandlers(ss *services.SendService) *SendHandlers {
	return &SendHandlers{sendService: ss}
}

// HandleSend handles POST /whatsapp/send: persist the outbound row, then call
// the provider. A provider failure still returns 200 with status "saved",
// matching the save-locally-then-send contract.
func (h *SendHandlers) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	defer r.Body.Close()

	result, err := h.sendService.Send(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSendRequest) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("ERROR [SendHandlers] HandleSend: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Message store unavailable")
		return
	}

	status := "saved"
	if result.Delivered {
		status = "sent"
	}
	httputil.RespondJSON(w, http.StatusOK, models.SendMessageResponse{
		Status:         status,
		MessageID:      result.MessageID,
		ProviderStatus: result.ProviderStatus,
		Detail:         result.Detail,
	})
}
