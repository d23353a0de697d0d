package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"whatsinbox-backend/internal/integrations/infobip"
	"whatsinbox-backend/internal/services"
	"whatsinbox-backend/pkg/httputil"

	"github.com/go-chi/chi/v5"
)

// mediaChunkSize bounds how much of the upstream body is held in memory at a
// time while relaying.
const mediaChunkSize = 8 * 1024

// MediaHandlers serves the authenticated streaming media proxy.
type MediaHandlers struct {
	mediaService *services.MediaService
}

func NewMediaHandlers(ms *services.MediaService) *MediaHandlers {
	return &MediaHandlers{mediaService: ms}
}

// HandleMediaProxy handles GET /media-proxy/{mediaID}. The identifier is
// percent-encoded (plus-for-space included). The upstream body is forwarded
// chunk-by-chunk as it arrives, never buffered whole; a caller disconnect
// cancels the request context, which aborts the upstream read.
func (h *MediaHandlers) HandleMediaProxy(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "mediaID")
	if decoded, err := url.QueryUnescape(identifier); err == nil {
		identifier = decoded
	}
	if identifier == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Missing media identifier")
		return
	}

	upstream, contentType, err := h.mediaService.Open(r.Context(), identifier)
	if err != nil {
		h.respondMediaError(w, identifier, err)
		return
	}
	defer upstream.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	streamCopy(w, upstream)
}

// respondMediaError maps the relay error taxonomy to status codes: 500 for
// missing configuration, the provider's own status for a provider rejection,
// 502 when the provider cannot be reached.
func (h *MediaHandlers) respondMediaError(w http.ResponseWriter, identifier string, err error) {
	var upstreamErr *infobip.UpstreamError
	switch {
	case errors.Is(err, services.ErrRelayMisconfigured):
		log.Printf("ERROR [MediaHandlers] HandleMediaProxy: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Media proxy misconfigured")
	case errors.As(err, &upstreamErr):
		httputil.RespondError(w, upstreamErr.StatusCode,
			fmt.Sprintf("Provider error: %d %s", upstreamErr.StatusCode, upstreamErr.Body))
	case errors.Is(err, infobip.ErrUpstreamUnreachable):
		log.Printf("ERROR [MediaHandlers] HandleMediaProxy: media %s: %v", identifier, err)
		httputil.RespondError(w, http.StatusBadGateway, "Error fetching media from provider")
	default:
		log.Printf("ERROR [MediaHandlers] HandleMediaProxy: media %s: %v", identifier, err)
		httputil.RespondError(w, http.StatusBadGateway, "Error fetching media from provider")
	}
}

// streamCopy forwards src to the response in bounded chunks, flushing after
// each write so bytes reach a slow reader as they arrive. A write failure
// means the caller went away; the loop just stops and the deferred close
// releases the upstream connection.
func streamCopy(w http.ResponseWriter, src io.Reader) {
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, mediaChunkSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("WARN [MediaHandlers] streamCopy: upstream read ended: %v", err)
			}
			return
		}
	}
}
