package nominatim

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/address-enrichment/internal/domain"
	"github.com/couchcryptid/address-enrichment/internal/observability"
	"github.com/couchcryptid/address-enrichment/internal/ratelimit"
)

// ThrottledGeocoder gates a Geocoder behind the shared rate limiter. It is
// meant to sit inside the cache decorator (cache → limiter → client) so that
// only lookups that actually reach the provider spend a limiter slot; a
// cache hit issues no network call and owes the provider nothing.
type ThrottledGeocoder struct {
	inner   domain.Geocoder
	limiter ratelimit.Limiter
	metrics *observability.Metrics
}

// NewThrottledGeocoder creates a throttling decorator around a geocoder.
func NewThrottledGeocoder(inner domain.Geocoder, limiter ratelimit.Limiter, metrics *observability.Metrics) *ThrottledGeocoder {
	return &ThrottledGeocoder{
		inner:   inner,
		limiter: limiter,
		metrics: metrics,
	}
}

func (g *ThrottledGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (*domain.AddressComponents, error) {
	waitStart := time.Now()
	if err := g.limiter.Throttle(ctx); err != nil {
		return nil, fmt.Errorf("throttle: %w", err)
	}
	g.metrics.ThrottleWait.Observe(time.Since(waitStart).Seconds())

	return g.inner.ReverseGeocode(ctx, lat, lon)
}
