package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/address-enrichment/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	event := domain.EnrichmentEvent{
		PlaceID: "place-1",
		Address: domain.AddressComponents{
			Street:      "Main St",
			HouseNumber: "12",
			City:        "Metropolis",
		},
		EnrichedAt: now,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("place-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"street":"Main St"`)
	assert.Contains(t, string(msg.Value), `"house_number":"12"`)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "enriched_at", msg.Headers[0].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[0].Value)
}

func TestSerializeToMessage_OmitsAbsentFields(t *testing.T) {
	event := domain.EnrichmentEvent{
		PlaceID:    "place-2",
		Address:    domain.AddressComponents{City: "Smallville"},
		EnrichedAt: time.Now(),
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.NotContains(t, string(msg.Value), "street")
	assert.NotContains(t, string(msg.Value), "postcode")
	assert.Contains(t, string(msg.Value), `"city":"Smallville"`)
}
