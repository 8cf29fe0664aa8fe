package domain

import "context"

// Geocoder resolves coordinates to address components.
type Geocoder interface {
	// ReverseGeocode converts a coordinate pair to a normalized address.
	// It returns (nil, nil) when the provider knows no address at the
	// coordinates; errors are reserved for transport, timeout, and
	// provider-status failures.
	ReverseGeocode(ctx context.Context, lat, lon float64) (*AddressComponents, error)
}
