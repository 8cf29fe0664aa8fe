package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/address-enrichment/internal/domain"
	"github.com/couchcryptid/address-enrichment/internal/observability"
)

// EventPublisher publishes enrichment events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.EnrichmentEvent) error
}

// Service selects the places that need enrichment, drives resolution, and
// persists the results. It holds no state between runs: address completeness
// in the store is the only progress marker, which makes any run safely
// resumable.
type Service struct {
	store     domain.PlaceStore
	resolver  *Resolver
	batch     *Batch
	publisher EventPublisher // nil disables event publishing
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewService creates the enrichment service. Pass a nil publisher to disable
// enrichment events.
func NewService(store domain.PlaceStore, resolver *Resolver, batch *Batch, publisher EventPublisher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		store:     store,
		resolver:  resolver,
		batch:     batch,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Enrich resolves and persists addresses for the candidate places among ids.
// Batch mode reports per-item progress and is meant for bulk backfills;
// single mode resolves the same way but without the telemetry. Partial
// failures end up as strings in the report, never as a returned error; the
// error return is reserved for failures before any per-place work started.
func (s *Service) Enrich(ctx context.Context, ids []string, batchMode bool) (domain.BatchReport, error) {
	records, err := s.store.SelectByIDs(ctx, ids)
	if err != nil {
		return domain.BatchReport{}, fmt.Errorf("select places: %w", err)
	}
	if len(records) == 0 {
		return domain.BatchReport{Message: "No places found"}, nil
	}

	candidates := make([]domain.Coordinate, 0, len(records))
	for _, rec := range records {
		if rec.NeedsAddress() {
			candidates = append(candidates, domain.Coordinate{ID: rec.ID, Lat: rec.Lat, Lon: rec.Lon})
		}
	}
	if len(candidates) == 0 {
		return domain.BatchReport{Message: "all places already have address information"}, nil
	}

	start := time.Now()
	s.metrics.BatchSize.Observe(float64(len(candidates)))

	results, errs, failed := s.resolveCandidates(ctx, candidates, batchMode)

	enriched := 0
	for _, res := range results {
		if res.Address == nil {
			// A failed resolution already produced an error entry; only a
			// genuine "provider knows no address" gets its own message.
			if !failed[res.ID] {
				errs = append(errs, fmt.Sprintf("no address found for place %s", res.ID))
				s.metrics.EnrichmentErrors.Inc()
			}
			continue
		}

		if err := s.store.UpdateAddress(ctx, res.ID, *res.Address); err != nil {
			s.logger.Warn("persisting address failed", "place_id", res.ID, "error", err)
			errs = append(errs, fmt.Sprintf("failed to update place %s: %s", res.ID, err))
			s.metrics.EnrichmentErrors.Inc()
			continue
		}

		enriched++
		s.metrics.PlacesEnriched.Inc()
		s.publishEvent(ctx, res)
	}

	s.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("enrichment run finished",
		"enriched", enriched,
		"candidates", len(candidates),
		"errors", len(errs),
		"batch_mode", batchMode,
	)

	return domain.BatchReport{
		Message:  fmt.Sprintf("enriched %d of %d places", enriched, len(candidates)),
		Enriched: enriched,
		Total:    len(candidates),
		Errors:   errs,
	}, nil
}

// resolveCandidates runs either the batch orchestrator or the plain
// sequential loop. Both paths share the resolver's fault semantics; batch
// mode additionally emits progress telemetry. The failed set marks ids whose
// resolution errored, as opposed to resolving to "no address".
func (s *Service) resolveCandidates(ctx context.Context, candidates []domain.Coordinate, batchMode bool) ([]domain.EnrichmentResult, []string, map[string]bool) {
	errs := make([]string, 0)
	failed := make(map[string]bool)

	onError := func(id, message string) {
		failed[id] = true
		errs = append(errs, fmt.Sprintf("failed to resolve address for place %s: %s", id, message))
		s.metrics.EnrichmentErrors.Inc()
	}

	if batchMode {
		onProgress := func(completed, total int) {
			s.logger.Info("batch progress", "completed", completed, "total", total)
		}
		results := s.batch.ResolveAll(ctx, candidates, onProgress, onError)
		return results, errs, failed
	}

	results := make([]domain.EnrichmentResult, 0, len(candidates))
	for _, coord := range candidates {
		addr, err := s.resolver.Resolve(ctx, coord.Lat, coord.Lon)
		if err != nil {
			onError(coord.ID, err.Error())
		}
		results = append(results, domain.EnrichmentResult{ID: coord.ID, Address: addr})
	}
	return results, errs, failed
}

// publishEvent emits an enrichment event when a publisher is configured.
// Publishing is telemetry: a failure is logged but never affects the report.
func (s *Service) publishEvent(ctx context.Context, res domain.EnrichmentResult) {
	if s.publisher == nil {
		return
	}
	event := domain.NewEnrichmentEvent(res.ID, *res.Address)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publishing enrichment event failed", "place_id", res.ID, "error", err)
		return
	}
	s.metrics.EventsPublished.Inc()
}
