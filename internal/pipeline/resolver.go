// Package pipeline drives address enrichment: resolving coordinates through
// the rate-limited provider and writing results back to the place store.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/couchcryptid/address-enrichment/internal/domain"
)

// Resolver turns one coordinate pair into a normalized address. Provider
// pacing is not its concern: the geocoder it is handed already carries the
// throttle below its cache, so cache hits come back without waiting.
type Resolver struct {
	geocoder domain.Geocoder
	timeout  time.Duration
	logger   *slog.Logger
}

// NewResolver creates a Resolver. The timeout bounds each provider call,
// including connection setup.
func NewResolver(geocoder domain.Geocoder, timeout time.Duration, logger *slog.Logger) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		timeout:  timeout,
		logger:   logger,
	}
}

// Resolve returns the address at the coordinates, (nil, nil) when the
// provider knows none, or an error on invalid input, transport, timeout, or
// provider failure. Absence of an address is an outcome, not a failure.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) (*domain.AddressComponents, error) {
	// Reject malformed store rows before they spend a limiter slot.
	if !isFinite(lat) || !isFinite(lon) {
		return nil, fmt.Errorf("non-finite coordinates (%v, %v)", lat, lon)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	addr, err := r.geocoder.ReverseGeocode(callCtx, lat, lon)
	if err != nil {
		r.logger.Warn("reverse geocoding failed", "lat", lat, "lon", lon, "error", err)
		return nil, err
	}
	return addr, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
