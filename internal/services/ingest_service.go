package services

import (
	"context"
	"fmt"
	"log"

	"whatsinbox-backend/internal/integrations/infobip"
	"whatsinbox-backend/internal/models"
	"whatsinbox-backend/internal/store"
)

// IngestService drives the webhook pipeline: normalize each event in a batch,
// upsert the sender contact, append the message row. Events without a sender
// are skipped silently; store unavailability aborts the rest of the batch but
// leaves already-persisted events committed (no transaction spans the batch).
type IngestService struct {
	store store.Store
}

func NewIngestService(s store.Store) *IngestService {
	return &IngestService{store: s}
}

// ProcessWebhook persists the events of one inbound batch and returns how
// many were written. A missing or empty batch array is a valid zero-event
// call, not an error.
func (s *IngestService) ProcessWebhook(ctx context.Context, payload models.InboundWebhook) (int, error) {
	received := 0
	for _, raw := range payload.Events() {
		norm, ok := infobip.NormalizeRaw(raw)
		if !ok {
			log.Println("[IngestService] Skipping event without sender.")
			continue
		}

		if err := s.store.UpsertContact(ctx, norm.Phone, norm.ContactName); err != nil {
			return received, fmt.Errorf("upserting contact %s: %w", norm.Phone, err)
		}
		if _, err := s.store.AppendMessage(ctx, store.AppendMessageParams{
			Phone:     norm.Phone,
			Body:      norm.Body,
			Direction: models.DirectionInbound,
			Type:      norm.Type,
			MediaLink: norm.MediaID,
			Caption:   norm.Caption,
		}); err != nil {
			return received, fmt.Errorf("appending message from %s: %w", norm.Phone, err)
		}
		received++
	}
	return received, nil
}
