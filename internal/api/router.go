package api

import (
	"log"
	"net/http"
	"time"

	"whatsinbox-backend/internal/config"
	"whatsinbox-backend/internal/handlers"
	"whatsinbox-backend/pkg/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	WebhookHandlers      *handlers.WebhookHandlers
	MediaHandlers        *handlers.MediaHandlers
	SendHandlers         *handlers.SendHandlers
	ConversationHandlers *handlers.ConversationHandlers
	Config               *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// --- CORS Configuration ---
	// The viewer front end is served from a different origin.
	allowedOrigins := []string{"http://localhost:3000", "http://localhost:8501"}
	if deps.Config != nil && deps.Config.ViewerPublicURL != "" {
		allowedOrigins = append(allowedOrigins, deps.Config.ViewerPublicURL)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Used by the keep-alive task and external uptime monitors.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// JSON routes get a request timeout; the media proxy is mounted outside
	// this group because a large streamed transfer may legitimately outlive
	// it (the relay bounds its upstream fetch itself).
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		if deps.WebhookHandlers != nil {
			r.Post("/whatsapp/inbound", deps.WebhookHandlers.HandleInbound)
		} else {
			log.Println("WARN: WebhookHandlers dependency is nil, skipping /whatsapp/inbound route.")
		}

		if deps.SendHandlers != nil {
			r.Post("/whatsapp/send", deps.SendHandlers.HandleSend)
		} else {
			log.Println("WARN: SendHandlers dependency is nil, skipping /whatsapp/send route.")
		}

		if deps.ConversationHandlers != nil {
			r.Get("/messages", deps.ConversationHandlers.HandleListMessages)
			r.Get("/contacts", deps.ConversationHandlers.HandleListContacts)
		} else {
			log.Println("WARN: ConversationHandlers dependency is nil, skipping read routes.")
		}
	})

	if deps.MediaHandlers != nil {
		r.Get("/media-proxy/{mediaID}", deps.MediaHandlers.HandleMediaProxy)
	} else {
		log.Println("WARN: MediaHandlers dependency is nil, skipping /media-proxy route.")
	}

	return r
}
