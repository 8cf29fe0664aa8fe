package domain

import "time"

// EnrichmentEvent is published downstream after a place's address has been
// persisted. Consumers use it to invalidate caches and rebuild search
// indexes without polling the store.
type EnrichmentEvent struct {
	PlaceID    string            `json:"place_id"`
	Address    AddressComponents `json:"address"`
	EnrichedAt time.Time         `json:"enriched_at"`
}

// NewEnrichmentEvent stamps an event with the current time in UTC.
func NewEnrichmentEvent(placeID string, addr AddressComponents) EnrichmentEvent {
	return EnrichmentEvent{
		PlaceID:    placeID,
		Address:    addr,
		EnrichedAt: clock.Now().UTC(),
	}
}
