package models

import "time"

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// InboundAck acknowledges an inbound webhook batch with the number of events
// that were persisted.
type InboundAck struct {
	Status   string `json:"status"`
	Received int    `json:"received"`
}

// SendMessageRequest is the body of POST /whatsapp/send. At least one of Text
// or MediaURL must be non-empty.
type SendMessageRequest struct {
	To       string `json:"to"`
	Text     string `json:"text"`
	MediaURL string `json:"mediaUrl"`
	Caption  string `json:"caption"`
}

// SendMessageResponse reports the outcome of an outbound send. The message is
// always persisted locally first; Status is "sent" when the provider accepted
// it and "saved" when the provider call failed or was skipped.
type SendMessageResponse struct {
	Status         string `json:"status"`
	MessageID      int64  `json:"id"`
	ProviderStatus int    `json:"provider_status,omitempty"`
	Detail         string `json:"detail,omitempty"`
}

// MessageResponse is a stored message as served to the viewer. MediaURL is a
// ready-to-use link: the media proxy route for inbound provider media, or the
// original public URL for outbound attachments.
type MessageResponse struct {
	ID        int64       `json:"id"`
	Phone     string      `json:"phone"`
	Body      string      `json:"message"`
	Direction Direction   `json:"direction"`
	Timestamp time.Time   `json:"timestamp"`
	Type      MessageType `json:"message_type"`
	MediaLink string      `json:"media_link"`
	Caption   string      `json:"caption"`
	MediaURL  string      `json:"media_url,omitempty"`
}
