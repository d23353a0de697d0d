package services

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"

	"whatsinbox-backend/internal/models"
)

// ErrRelayMisconfigured is returned when the relay is missing its provider
// credential or sender number. It fails fast rather than attempting a doomed
// upstream request.
var ErrRelayMisconfigured = errors.New("media relay misconfigured: missing provider API key or sender number")

// MediaFetcher resolves a provider media id to a byte stream and its content
// type. Implemented by the infobip client.
type MediaFetcher interface {
	FetchMedia(ctx context.Context, mediaID string) (io.ReadCloser, string, error)
}

// MediaService is the relay between the viewer and the provider's media
// endpoint. It holds no state across calls; the caller streams the returned
// body and must close it exactly once.
type MediaService struct {
	fetcher      MediaFetcher
	proxyBaseURL string
}

// NewMediaService creates a MediaService. fetcher may be nil when the relay
// is not configured; Open then fails fast with ErrRelayMisconfigured.
func NewMediaService(fetcher MediaFetcher, proxyBaseURL string) *MediaService {
	return &MediaService{
		fetcher:      fetcher,
		proxyBaseURL: strings.TrimRight(proxyBaseURL, "/"),
	}
}

// Open resolves a media identifier to its upstream byte stream.
func (s *MediaService) Open(ctx context.Context, identifier string) (io.ReadCloser, string, error) {
	if s.fetcher == nil {
		return nil, "", ErrRelayMisconfigured
	}
	return s.fetcher.FetchMedia(ctx, identifier)
}

// MediaProxyURL builds the caller-facing URL for a stored media identifier.
// Outbound attachments (and anything already URL-shaped) are locally
// originated public URLs and are returned verbatim; inbound provider ids are
// routed through the media proxy so the caller never needs the provider
// credential.
func (s *MediaService) MediaProxyURL(identifier string, direction models.Direction) string {
	if identifier == "" {
		return ""
	}
	if direction == models.DirectionOutbound || strings.HasPrefix(identifier, "http") {
		return identifier
	}
	return s.proxyBaseURL + "/media-proxy/" + url.QueryEscape(identifier)
}
