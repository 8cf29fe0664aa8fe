package nominatim

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/address-enrichment/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGeocoder struct {
	calls int
	addr  *domain.AddressComponents
	err   error
}

func (g *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (*domain.AddressComponents, error) {
	g.calls++
	return g.addr, g.err
}

func TestCachedGeocoder_SecondLookupHitsCache(t *testing.T) {
	inner := &countingGeocoder{addr: &domain.AddressComponents{Street: "Main St", City: "Metropolis"}}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	first, err := cached.ReverseGeocode(context.Background(), 30.2672, -97.7431)
	require.NoError(t, err)
	second, err := cached.ReverseGeocode(context.Background(), 30.2672, -97.7431)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
}

func TestCachedGeocoder_DistinctCoordinatesMiss(t *testing.T) {
	inner := &countingGeocoder{addr: &domain.AddressComponents{City: "Metropolis"}}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, err := cached.ReverseGeocode(context.Background(), 30.0, -97.0)
	require.NoError(t, err)
	_, err = cached.ReverseGeocode(context.Background(), 31.0, -97.0)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_DoesNotCacheNoAddress(t *testing.T) {
	inner := &countingGeocoder{addr: nil}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	addr, err := cached.ReverseGeocode(context.Background(), 0, -160)
	require.NoError(t, err)
	assert.Nil(t, addr)

	_, err = cached.ReverseGeocode(context.Background(), 0, -160)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "nil results must not be cached")
}

func TestCachedGeocoder_DoesNotCacheErrors(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("provider down")}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, err := cached.ReverseGeocode(context.Background(), 47.0, 8.0)
	require.Error(t, err)
	_, err = cached.ReverseGeocode(context.Background(), 47.0, 8.0)
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := newLRUCache(2)
	a := &domain.AddressComponents{City: "A"}
	b := &domain.AddressComponents{City: "B"}
	c := &domain.AddressComponents{City: "C"}

	cache.put("a", a)
	cache.put("b", b)

	// Touch "a" so "b" becomes the eviction victim.
	_, ok := cache.get("a")
	require.True(t, ok)

	cache.put("c", c)

	_, ok = cache.get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	got, ok := cache.get("a")
	require.True(t, ok)
	assert.Equal(t, a, got)
	got, ok = cache.get("c")
	require.True(t, ok)
	assert.Equal(t, c, got)
}

func TestLRUCache_PutExistingKeyUpdatesValue(t *testing.T) {
	cache := newLRUCache(2)
	cache.put("a", &domain.AddressComponents{City: "old"})
	cache.put("a", &domain.AddressComponents{City: "new"})

	got, ok := cache.get("a")
	require.True(t, ok)
	assert.Equal(t, "new", got.City)
}
