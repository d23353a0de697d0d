package models

import (
	"strings"
	"time"
)

// Direction indicates who originated a message.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// MessageType is the closed set of message content types the system stores.
// Provider payloads carry a free-form tag; ParseMessageType is the single
// place that tag is interpreted.
type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeImage    MessageType = "image"
	MessageTypeVideo    MessageType = "video"
	MessageTypeDocument MessageType = "document"
	MessageTypeVoice    MessageType = "voice"
	MessageTypeAudio    MessageType = "audio"
)

// ParseMessageType maps a provider type tag (case-insensitive) to a
// MessageType. Absent or unrecognized tags map to MessageTypeText.
func ParseMessageType(tag string) MessageType {
	switch strings.ToUpper(strings.TrimSpace(tag)) {
	case "IMAGE":
		return MessageTypeImage
	case "VIDEO":
		return MessageTypeVideo
	case "DOCUMENT":
		return MessageTypeDocument
	case "VOICE":
		return MessageTypeVoice
	case "AUDIO":
		return MessageTypeAudio
	default:
		return MessageTypeText
	}
}

// IsMedia reports whether messages of this type carry a media identifier
// rather than a text body.
func (t MessageType) IsMedia() bool {
	return t != MessageTypeText && t != ""
}

// Contact represents a row in the 'contacts' table. Phone is the identity
// key; Name is best-effort and falls back to the phone number.
type Contact struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

// Message represents a row in the 'messages' table. Rows are append-only;
// the conversation log is ordered by Timestamp with ID as tiebreak.
type Message struct {
	ID        int64       `json:"id"`
	Phone     string      `json:"phone"`
	Body      string      `json:"message"`
	Direction Direction   `json:"direction"`
	Timestamp time.Time   `json:"timestamp"`
	Type      MessageType `json:"message_type"`
	MediaLink string      `json:"media_link"`
	Caption   string      `json:"caption"`
}
