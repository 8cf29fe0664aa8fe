// Package nominatim implements domain.Geocoder against the OSM Nominatim
// reverse-geocoding API.
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/address-enrichment/internal/domain"
	"github.com/couchcryptid/address-enrichment/internal/observability"
)

// StatusError reports a failed provider exchange with the HTTP status this
// layer assigns to it: provider statuses pass through unchanged and a
// request that exceeds its deadline maps to 408. Callers above the resolver
// never see these codes; they exist so anything proxying this client can
// reproduce them 1:1.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("nominatim: status %d: %s", e.StatusCode, e.Message)
}

// Client implements domain.Geocoder using the Nominatim /reverse endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	language   string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim client. The userAgent identifies this
// deployment to the provider, as its usage policy requires. Request
// deadlines come from the caller's context, not a client-wide timeout, so
// the resolver stays in charge of them.
func NewClient(baseURL, userAgent, language string, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		userAgent:  userAgent,
		language:   language,
		metrics:    metrics,
		logger:     logger,
	}
}

// ReverseGeocode converts coordinates to normalized address components.
// A payload without an address section yields (nil, nil).
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (*domain.AddressComponents, error) {
	params := url.Values{
		"format":          {"json"},
		"lat":             {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":             {strconv.FormatFloat(lon, 'f', -1, 64)},
		"addressdetails":  {"1"},
		"accept-language": {c.language},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &StatusError{StatusCode: http.StatusRequestTimeout, Message: "reverse geocode timed out"}
		}
		return nil, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if payload.Address == nil {
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		c.logger.Debug("no address in provider response", "lat", lat, "lon", lon)
		return nil, nil
	}

	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	return payload.Address.normalize(), nil
}

// Nominatim API response types.

type response struct {
	DisplayName string   `json:"display_name"`
	Address     *address `json:"address"`
}

type address struct {
	HouseNumber   string `json:"house_number"`
	Road          string `json:"road"`
	Neighbourhood string `json:"neighbourhood"`
	Suburb        string `json:"suburb"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	County        string `json:"county"`
	State         string `json:"state"`
	Country       string `json:"country"`
	Postcode      string `json:"postcode"`
}

// normalize maps the provider's heterogeneous schema into the canonical
// components. Absent fields stay empty; no placeholders.
func (a *address) normalize() *domain.AddressComponents {
	district := a.Neighbourhood
	if district == "" {
		district = a.Suburb
	}

	city := a.City
	if city == "" {
		city = a.Town
	}
	if city == "" {
		city = a.Village
	}

	return &domain.AddressComponents{
		Street:      a.Road,
		HouseNumber: a.HouseNumber,
		District:    district,
		City:        city,
		County:      a.County,
		State:       a.State,
		Country:     a.Country,
		Postcode:    a.Postcode,
	}
}
