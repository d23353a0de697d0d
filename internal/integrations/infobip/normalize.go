package infobip

import (
	"encoding/json"
	"net/url"
	"strings"

	"whatsinbox-backend/internal/models"
)

// NormalizedMessage is the provider-independent form of one inbound event,
// ready to be written through the store.
type NormalizedMessage struct {
	Phone       string
	ContactName string
	Type        models.MessageType
	Body        string
	MediaID     string
	Caption     string
}

// NormalizeEvent transforms one provider event into a NormalizedMessage. It
// performs no I/O and never fails: malformed or missing sub-fields degrade to
// empty/default values so that one bad event cannot abort a batch. The only
// skip condition is a missing sender, reported through ok=false.
func NormalizeEvent(ev models.InboundEvent) (NormalizedMessage, bool) {
	sender := strings.TrimSpace(ev.From)
	if sender == "" {
		return NormalizedMessage{}, false
	}

	name := strings.TrimSpace(ev.Contact.Name)
	if name == "" {
		name = sender
	}

	norm := NormalizedMessage{
		Phone:       sender,
		ContactName: name,
		Type:        models.ParseMessageType(ev.Message.Type),
	}

	if norm.Type.IsMedia() {
		norm.Caption = ev.Message.Caption
		norm.MediaID = resolveMediaID(ev.Message)
	} else {
		norm.Body = textBody(ev.Message.Text)
	}
	return norm, true
}

// NormalizeRaw decodes one raw batch element and normalizes it. Decoding
// errors are deliberately ignored: fields that did parse are used and the
// rest default, matching the degrade-dont-fail contract.
func NormalizeRaw(raw json.RawMessage) (NormalizedMessage, bool) {
	var ev models.InboundEvent
	_ = json.Unmarshal(raw, &ev)
	return NormalizeEvent(ev)
}

// resolveMediaID picks the media identifier with precedence: explicit media
// id field, alternate id field, then the last path segment of a media URL.
func resolveMediaID(content models.InboundContent) string {
	if content.MediaID != "" {
		return content.MediaID
	}
	if content.ID != "" {
		return content.ID
	}
	mediaURL := content.URL
	if mediaURL == "" {
		mediaURL = content.MediaURL
	}
	if mediaURL == "" {
		return ""
	}
	return lastPathSegment(mediaURL)
}

// lastPathSegment extracts the trailing path segment of a URL, which is how
// the provider's media URLs encode the media id. An unparseable URL is
// returned as-is.
func lastPathSegment(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	path := strings.TrimRight(parsed.Path, "/")
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// textBody extracts the body of a text message. The provider sends either a
// plain string or an object with a "body" field; anything else yields "".
func textBody(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Body
	}
	return ""
}
