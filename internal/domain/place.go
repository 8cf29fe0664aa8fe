package domain

// PlaceRecord is the pipeline's view of a row in the place store. Identity
// and coordinates are read-only here; the address fields are what the
// pipeline writes back.
type PlaceRecord struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	Street      string `json:"street,omitempty"`
	HouseNumber string `json:"house_number,omitempty"`
	City        string `json:"city,omitempty"`
	County      string `json:"county,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
}

// NeedsAddress reports whether the place is a candidate for enrichment.
// Street and city are the two fields every usable address has; anything
// missing either is considered unenriched.
func (r PlaceRecord) NeedsAddress() bool {
	return r.Street == "" || r.City == ""
}

// AddressComponents is the normalized address produced by one resolution.
// Every field is optional: an empty string means the provider did not supply
// it, not that resolution failed.
type AddressComponents struct {
	Street      string `json:"street,omitempty"`
	HouseNumber string `json:"house_number,omitempty"`
	District    string `json:"district,omitempty"`
	City        string `json:"city,omitempty"`
	County      string `json:"county,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
}

// Coordinate identifies one place to resolve.
type Coordinate struct {
	ID  string
	Lat float64
	Lon float64
}

// EnrichmentResult pairs a place id with its resolved address. A nil Address
// means the provider returned no address for those coordinates; a transport
// or timeout failure is surfaced separately, not through this type.
type EnrichmentResult struct {
	ID      string
	Address *AddressComponents
}

// BatchReport summarizes one enrichment run. It is built fresh per
// invocation and never persisted.
type BatchReport struct {
	Message  string   `json:"message"`
	Enriched int      `json:"enriched"`
	Total    int      `json:"total"`
	Errors   []string `json:"errors,omitempty"`
}
