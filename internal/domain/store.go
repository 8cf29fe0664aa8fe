package domain

import "context"

// PlaceStore is the persistence collaborator owning place records. The
// pipeline reads identity and coordinates through it and writes address
// fields back; each update is atomic per record, there is no batch
// transaction.
type PlaceStore interface {
	// SelectByIDs fetches the records for the given ids. Unknown ids are
	// silently absent from the result, not an error.
	SelectByIDs(ctx context.Context, ids []string) ([]PlaceRecord, error)

	// UpdateAddress writes the resolved address fields for one place.
	UpdateAddress(ctx context.Context, id string, addr AddressComponents) error
}
