package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort    string
	DatabaseURL string

	// Provider credentials and endpoints.
	InfobipAPIKey  string
	SenderNumber   string
	MediaBaseURL   string
	TextAPIURL     string
	ImageAPIURL    string
	VideoAPIURL    string
	DocumentAPIURL string

	// ProxyBaseURL is this service's externally reachable base URL, used to
	// build media proxy links and the provider's reply webhook URL.
	ProxyBaseURL string

	// ViewerPublicURL is the public URL of the chat viewer, pinged by the
	// keep-alive task and allowed through CORS.
	ViewerPublicURL string

	KeepAliveInterval time.Duration
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		log.Fatal("FATAL: DATABASE_URL environment variable is not set.")
	}

	intervalStr := getEnv("KEEPALIVE_INTERVAL_MINUTES", "5")
	intervalMinutes, err := strconv.Atoi(intervalStr)
	if err != nil || intervalMinutes <= 0 {
		log.Printf("Warning: Invalid KEEPALIVE_INTERVAL_MINUTES '%s', using default 5m.", intervalStr)
		intervalMinutes = 5
	}

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseURL:       dbURL,
		InfobipAPIKey:     getEnv("INFOBIP_API_KEY", ""),
		SenderNumber:      getEnv("SENDER_NUMBER", ""),
		MediaBaseURL:      getEnv("MEDIA_BASE_URL", "https://api.infobip.com"),
		TextAPIURL:        getEnv("TEXT_API_URL", ""),
		ImageAPIURL:       getEnv("IMAGE_API_URL", ""),
		VideoAPIURL:       getEnv("VIDEO_API_URL", ""),
		DocumentAPIURL:    getEnv("DOCUMENT_API_URL", ""),
		ProxyBaseURL:      getEnv("PROXY_BASE_URL", "http://localhost:8080"),
		ViewerPublicURL:   getEnv("VIEWER_PUBLIC_URL", ""),
		KeepAliveInterval: time.Duration(intervalMinutes) * time.Minute,
	}

	if cfg.InfobipAPIKey == "" || cfg.SenderNumber == "" {
		log.Println("Warning: INFOBIP_API_KEY or SENDER_NUMBER not set; media relay and outbound sends will be unavailable.")
	}

	log.Printf("Loaded config: Port=%s, DB_URL=***, MediaBase=%s, KeepAlive=%s",
		cfg.HTTPPort, cfg.MediaBaseURL, cfg.KeepAliveInterval)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
