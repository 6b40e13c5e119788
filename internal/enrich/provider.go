package enrich

import "context"

// PopulationResult is the outcome of a population lookup. Available is false
// when the source could not produce a figure; Detail carries the reason.
type PopulationResult struct {
	Population int
	Available  bool
	Detail     string
}

// AreaResult is the outcome of a land-area lookup in square miles.
type AreaResult struct {
	SqMi      float64
	Available bool
	Detail    string
}

// PlaceResult is the outcome of a city/state/coordinate lookup. Matched is
// false when the ZIP is unknown to the source.
type PlaceResult struct {
	City      string
	State     string
	Latitude  float64
	Longitude float64
	Matched   bool
	Detail    string
}

// CompetitorResult is the outcome of a nearby-competitor count.
type CompetitorResult struct {
	Count     int
	Available bool
	Detail    string
}

// PopulationProvider looks up the resident population of a ZIP code.
type PopulationProvider interface {
	Population(ctx context.Context, zip string) PopulationResult
}

// AreaProvider looks up the land area of a ZIP code.
type AreaProvider interface {
	Area(ctx context.Context, zip string) AreaResult
}

// LocationProvider looks up the city, state, and centroid of a ZIP code.
type LocationProvider interface {
	Locate(ctx context.Context, zip string) PlaceResult
}

// CompetitorProvider counts competing installations near a point.
type CompetitorProvider interface {
	Competitors(ctx context.Context, zip string, lat, lng float64) CompetitorResult
}
