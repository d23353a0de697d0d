package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"whatsinbox-backend/internal/api"
	"whatsinbox-backend/internal/config"
	"whatsinbox-backend/internal/handlers"
	"whatsinbox-backend/internal/integrations/infobip"
	"whatsinbox-backend/internal/keepalive"
	"whatsinbox-backend/internal/services"
	"whatsinbox-backend/internal/store/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	log.Println("Starting WhatsInbox Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize Database Connection Pool
	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	dbpool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Unable to create database connection pool: %v\n", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(dbCtx); err != nil {
		log.Fatalf("FATAL: Unable to ping database: %v\n", err)
	}
	log.Println("Database connection pool established and pinged successfully.")

	// 3. Initialize Store and run idempotent schema creation
	pgStore := postgres.NewPostgresStore(dbpool)
	if err := pgStore.EnsureSchema(dbCtx); err != nil {
		log.Fatalf("FATAL: Failed to ensure database schema: %v", err)
	}
	log.Println("Postgres store initialized.")

	// 4. Initialize provider client. Left nil when unconfigured so the media
	// relay and outbound sends fail fast instead of making doomed requests.
	var providerClient *infobip.Client
	if cfg.InfobipAPIKey != "" && cfg.SenderNumber != "" {
		providerClient = infobip.NewClient(infobip.ClientConfig{
			APIKey:       cfg.InfobipAPIKey,
			SenderNumber: cfg.SenderNumber,
			MediaBaseURL: cfg.MediaBaseURL,
			Timeout:      30 * time.Second,
		})
		log.Println("Infobip client initialized.")
	} else {
		log.Println("WARN: Infobip client not configured; media relay and sends disabled.")
	}

	// 5. Initialize Services
	ingestService := services.NewIngestService(pgStore)
	log.Println("IngestService initialized.")

	var mediaFetcher services.MediaFetcher
	var messageSender services.MessageSender
	if providerClient != nil {
		mediaFetcher = providerClient
		messageSender = providerClient
	}
	mediaService := services.NewMediaService(mediaFetcher, cfg.ProxyBaseURL)
	log.Println("MediaService initialized.")

	sendService := services.NewSendService(pgStore, messageSender, services.SendConfig{
		SenderNumber:   cfg.SenderNumber,
		TextAPIURL:     cfg.TextAPIURL,
		ImageAPIURL:    cfg.ImageAPIURL,
		VideoAPIURL:    cfg.VideoAPIURL,
		DocumentAPIURL: cfg.DocumentAPIURL,
		NotifyURL:      strings.TrimRight(cfg.ProxyBaseURL, "/") + "/whatsapp/inbound",
	})
	log.Println("SendService initialized.")

	conversationService := services.NewConversationService(pgStore)
	log.Println("ConversationService initialized.")

	// 6. Setup Router & Inject Dependencies
	router := api.NewRouter(api.RouterDependencies{
		WebhookHandlers:      handlers.NewWebhookHandlers(ingestService),
		MediaHandlers:        handlers.NewMediaHandlers(mediaService),
		SendHandlers:         handlers.NewSendHandlers(sendService),
		ConversationHandlers: handlers.NewConversationHandlers(conversationService, mediaService),
		Config:               cfg,
	})
	log.Println("HTTP router configured.")

	// 7. Start the keep-alive pinger, tied to process lifetime.
	pingCtx, pingCancel := context.WithCancel(context.Background())
	defer pingCancel()
	pinger := keepalive.New(cfg.KeepAliveInterval,
		strings.TrimRight(cfg.ProxyBaseURL, "/")+"/health",
		strings.TrimRight(cfg.ViewerPublicURL, "/"),
	)
	go pinger.Start(pingCtx)

	// 8. Configure and Start HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// WriteTimeout stays unset: media-proxy responses stream for as long
		// as the transfer takes. Slow-client exposure is bounded by the
		// upstream fetch timeout and per-chunk write failures.
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v\n", cfg.HTTPPort, err)
		}
		log.Println("Server listener routine stopped.")
	}()

	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")
	pingCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server graceful shutdown failed: %v", err)
	}

	log.Println("Server shutdown complete.")
}
