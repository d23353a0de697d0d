package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"whatsinbox-backend/internal/integrations/infobip"
	"whatsinbox-backend/internal/models"
	"whatsinbox-backend/internal/store"

	"github.com/google/uuid"
)

// ErrInvalidSendRequest is returned when a send request is missing the
// recipient or has neither text nor a media URL.
var ErrInvalidSendRequest = errors.New("send request requires a recipient and text or a media URL")

// MessageSender posts an outbound payload to a per-type provider endpoint.
// Implemented by the infobip client.
type MessageSender interface {
	Send(ctx context.Context, apiURL string, payload infobip.OutboundPayload) (int, error)
}

// SendConfig holds the outbound-send wiring: the sender identity, the
// per-media-type provider endpoints, and the webhook URL the provider should
// deliver replies to.
type SendConfig struct {
	SenderNumber   string
	TextAPIURL     string
	ImageAPIURL    string
	VideoAPIURL    string
	DocumentAPIURL string
	NotifyURL      string
}

// SendResult reports one outbound send. The local row always exists once
// MessageID is set; Delivered reflects the provider call only.
type SendResult struct {
	MessageID      int64
	Delivered      bool
	ProviderStatus int
	Detail         string
}

// SendService composes outbound messages: it classifies the content, writes
// the outbound row through the store's append operation, then calls the
// provider API. A provider failure never rolls back the local row.
type SendService struct {
	store  store.Store
	sender MessageSender
	cfg    SendConfig
}

func NewSendService(s store.Store, sender MessageSender, cfg SendConfig) *SendService {
	return &SendService{store: s, sender: sender, cfg: cfg}
}

// Send persists and dispatches one outbound message.
func (s *SendService) Send(ctx context.Context, req models.SendMessageRequest) (SendResult, error) {
	to := strings.TrimSpace(req.To)
	text := strings.TrimSpace(req.Text)
	mediaURL := strings.TrimSpace(req.MediaURL)
	if to == "" || (text == "" && mediaURL == "") {
		return SendResult{}, ErrInvalidSendRequest
	}

	msgType, apiURL := s.classify(mediaURL)

	var body, mediaLink, caption string
	if msgType == models.MessageTypeText {
		body = text
	} else {
		mediaLink = mediaURL
		caption = strings.TrimSpace(req.Caption)
	}

	id, err := s.store.AppendMessage(ctx, store.AppendMessageParams{
		Phone:     to,
		Body:      body,
		Direction: models.DirectionOutbound,
		Type:      msgType,
		MediaLink: mediaLink,
		Caption:   caption,
	})
	if err != nil {
		return SendResult{}, fmt.Errorf("saving outbound message: %w", err)
	}
	result := SendResult{MessageID: id}

	if s.sender == nil || apiURL == "" {
		result.Detail = "provider send skipped: no API endpoint configured"
		log.Printf("[SendService] Message %d saved locally; %s", id, result.Detail)
		return result, nil
	}

	payload := infobip.OutboundPayload{
		From:         s.cfg.SenderNumber,
		To:           to,
		MessageID:    uuid.NewString(),
		CallbackData: "Callback data",
		NotifyURL:    s.cfg.NotifyURL,
		URLOptions:   &infobip.URLOptions{ShortenURL: true, TrackClicks: false, RemoveProtocol: true},
	}
	if msgType == models.MessageTypeText {
		payload.Content = infobip.OutboundContent{Text: body}
	} else {
		payload.Content = infobip.OutboundContent{MediaURL: mediaLink, Caption: caption}
	}

	status, err := s.sender.Send(ctx, apiURL, payload)
	result.ProviderStatus = status
	if err != nil {
		// The row stays; the caller is told delivery failed.
		result.Detail = err.Error()
		log.Printf("[SendService] Message %d saved but provider send failed: %v", id, err)
		return result, nil
	}

	result.Delivered = true
	return result, nil
}

// classify picks the message type and provider endpoint from the media URL's
// extension; no media URL means a text send.
func (s *SendService) classify(mediaURL string) (models.MessageType, string) {
	if mediaURL == "" {
		return models.MessageTypeText, s.cfg.TextAPIURL
	}
	lower := strings.ToLower(mediaURL)
	switch {
	case hasAnySuffix(lower, ".jpg", ".jpeg", ".png", ".gif"):
		return models.MessageTypeImage, s.cfg.ImageAPIURL
	case hasAnySuffix(lower, ".mp4", ".mov", ".webm"):
		return models.MessageTypeVideo, s.cfg.VideoAPIURL
	default:
		return models.MessageTypeDocument, s.cfg.DocumentAPIURL
	}
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
