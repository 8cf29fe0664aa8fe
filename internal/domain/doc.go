// Package domain models places and the address data used to enrich them.
//
// # Candidate Selection
//
// A place is a candidate for enrichment when it is missing its street or its
// city. That predicate is the only "needs work" marker the pipeline has: there
// is no persisted batch state, so a run that dies halfway simply leaves the
// unfinished places as candidates for the next run. See
// [PlaceRecord.NeedsAddress].
//
// # Provider Conventions
//
// Address data comes from the OSM Nominatim reverse-geocoding API
// (https://nominatim.org/release-docs/latest/api/Reverse/). Its schema is
// heterogeneous and is normalized into [AddressComponents] as follows:
//
//	road         → Street
//	house_number → HouseNumber
//	neighbourhood, falling back to suburb     → District
//	city, falling back to town, then village  → City
//	county, state, country, postcode          → unchanged
//
// Fields the provider does not supply stay empty; an empty field means
// "unknown", never a placeholder. A response without an address section is a
// legitimate outcome (the coordinates point at open water, for example) and
// is distinct from a transport failure: the [Geocoder] contract returns
// (nil, nil) for the former and a non-nil error for the latter.
//
// Nominatim's usage policy caps clients at one request per second and
// requires an identifying User-Agent. The rate limiter and the provider
// client enforce both; nothing in this package calls the provider directly.
package domain
