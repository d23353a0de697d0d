package infobip

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultMediaBaseURL is the provider API host used for media fetches unless
// overridden in configuration.
const DefaultMediaBaseURL = "https://api.infobip.com"

// maxErrorBodyBytes caps how much of a provider error body is read back, so
// an upstream failure can never produce an unbounded error payload.
const maxErrorBodyBytes = 500

// ErrUpstreamUnreachable is returned when the provider cannot be reached at
// all (DNS, connect, or timeout failure), as opposed to the provider
// answering with a non-200 status.
var ErrUpstreamUnreachable = errors.New("provider unreachable")

// UpstreamError is a non-200 response from the provider. Body is truncated
// to maxErrorBodyBytes.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("provider error: %d %s", e.StatusCode, e.Body)
}

// ClientConfig configures the provider API client.
type ClientConfig struct {
	APIKey       string
	SenderNumber string
	MediaBaseURL string        // defaults to DefaultMediaBaseURL
	Timeout      time.Duration // per-request bound, defaults to 30s
}

// Client calls the provider's WhatsApp HTTP API: streaming media fetches and
// outbound message sends. The API key is attached server-side and never
// exposed to callers of the relay.
type Client struct {
	apiKey       string
	senderNumber string
	mediaBaseURL string
	httpClient   *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	base := strings.TrimRight(cfg.MediaBaseURL, "/")
	if base == "" {
		base = DefaultMediaBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:       cfg.APIKey,
		senderNumber: cfg.SenderNumber,
		mediaBaseURL: base,
		httpClient:   newPooledClient(timeout),
	}
}

// newPooledClient returns an HTTP client with connection pooling sized for
// repeated calls to a single upstream host. The overall Timeout is left
// unset so that long media streams are bounded per-phase (dial, TLS,
// response headers) rather than cut off mid-body.
func newPooledClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport}
}

// FetchMedia resolves a provider media id to its bytes. On success the caller
// owns the returned body and must close it exactly once; the second return is
// the upstream Content-Type (application/octet-stream when absent).
func (c *Client) FetchMedia(ctx context.Context, mediaID string) (io.ReadCloser, string, error) {
	fetchURL := fmt.Sprintf("%s/whatsapp/1/senders/%s/media/%s",
		c.mediaBaseURL, url.PathEscape(c.senderNumber), url.PathEscape(mediaID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building media request: %w", err)
	}
	req.Header.Set("Authorization", "App "+c.apiKey)
	req.Header.Set("Accept", "*/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		resp.Body.Close()
		return nil, "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return resp.Body, contentType, nil
}

// OutboundPayload is the provider's send-message request body.
type OutboundPayload struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	MessageID    string          `json:"messageId"`
	Content      OutboundContent `json:"content"`
	CallbackData string          `json:"callbackData,omitempty"`
	NotifyURL    string          `json:"notifyUrl,omitempty"`
	URLOptions   *URLOptions     `json:"urlOptions,omitempty"`
}

// OutboundContent carries either a text body or a media URL with caption.
type OutboundContent struct {
	Text     string `json:"text,omitempty"`
	MediaURL string `json:"mediaUrl,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// URLOptions controls provider-side link handling on outbound messages.
type URLOptions struct {
	ShortenURL     bool `json:"shortenUrl"`
	TrackClicks    bool `json:"trackClicks"`
	RemoveProtocol bool `json:"removeProtocol"`
}

// Send posts an outbound message to the given per-type provider endpoint and
// returns the provider's status code. A non-2xx response is returned as an
// UpstreamError alongside the status.
func (c *Client) Send(ctx context.Context, apiURL string, payload OutboundPayload) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encoding outbound payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("building send request: %w", err)
	}
	req.Header.Set("Authorization", "App "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return resp.StatusCode, &UpstreamError{StatusCode: resp.StatusCode, Body: string(errBody)}
	}
	return resp.StatusCode, nil
}

// SenderNumber exposes the configured sender, used as the outbound "from".
func (c *Client) SenderNumber() string { return c.senderNumber }
