package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/address-enrichment/internal/domain"
)

// ProgressFunc is invoked after every item, successful or not.
type ProgressFunc func(completed, total int)

// ErrorFunc is invoked only for items whose resolution failed. A nil address
// from a successful provider call is not an error and does not trigger it.
type ErrorFunc func(id, message string)

// Batch resolves an ordered list of coordinates strictly sequentially.
// Parallelizing would gain nothing — the limiter serializes provider calls
// anyway — and sequential processing keeps progress reporting trivial.
type Batch struct {
	resolver *Resolver
	logger   *slog.Logger
}

// NewBatch creates a batch orchestrator over the given resolver.
func NewBatch(resolver *Resolver, logger *slog.Logger) *Batch {
	return &Batch{resolver: resolver, logger: logger}
}

// ResolveAll resolves every coordinate in input order and returns one result
// per input, in the same order; no item is ever dropped. One item's failure
// never aborts the rest: the item is recorded with a nil address, onError is
// invoked, and the loop continues. Cancelling ctx does not shorten the
// result: remaining items fail fast inside the geocoder and are recorded
// as errors.
func (b *Batch) ResolveAll(ctx context.Context, coords []domain.Coordinate, onProgress ProgressFunc, onError ErrorFunc) []domain.EnrichmentResult {
	total := len(coords)
	results := make([]domain.EnrichmentResult, 0, total)

	for i, coord := range coords {
		addr, err := b.resolver.Resolve(ctx, coord.Lat, coord.Lon)
		if err != nil {
			b.logger.Warn("batch item failed", "place_id", coord.ID, "error", err)
			if onError != nil {
				onError(coord.ID, err.Error())
			}
		}

		results = append(results, domain.EnrichmentResult{ID: coord.ID, Address: addr})
		if onProgress != nil {
			onProgress(i+1, total)
		}
	}

	return results
}
