package models

import "encoding/json"

// InboundWebhook is the top-level payload of a provider webhook callback.
// Depending on delivery mode the batch arrives under "results" or "messages";
// Events returns whichever is populated. Events are kept as raw JSON so that
// one malformed event cannot fail decoding of the whole batch.
type InboundWebhook struct {
	Results  []json.RawMessage `json:"results"`
	Messages []json.RawMessage `json:"messages"`
}

// Events returns the batch array, preferring "results" when non-empty.
func (w InboundWebhook) Events() []json.RawMessage {
	if len(w.Results) > 0 {
		return w.Results
	}
	return w.Messages
}

// InboundEvent is one message event within a webhook batch.
type InboundEvent struct {
	From       string         `json:"from"`
	To         string         `json:"to"`
	MessageID  string         `json:"messageId"`
	ReceivedAt string         `json:"receivedAt"`
	Contact    InboundContact `json:"contact"`
	Message    InboundContent `json:"message"`
}

// InboundContact carries the provider-supplied display name of the sender.
type InboundContact struct {
	Name string `json:"name"`
}

// InboundContent is the content object of an inbound event. Text is raw
// because the provider sends either a plain string or {"body": "..."}.
type InboundContent struct {
	Type     string          `json:"type"`
	Text     json.RawMessage `json:"text"`
	Caption  string          `json:"caption"`
	MediaID  string          `json:"mediaId"`
	ID       string          `json:"id"`
	URL      string          `json:"url"`
	MediaURL string          `json:"mediaUrl"`
}
