package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioskworks/sitescout/internal/model"
	"github.com/kioskworks/sitescout/internal/zcta"
)

type stubPopulation struct {
	result PopulationResult
	calls  int
}

func (s *stubPopulation) Population(context.Context, string) PopulationResult {
	s.calls++
	return s.result
}

type stubArea struct{ result AreaResult }

func (s *stubArea) Area(context.Context, string) AreaResult { return s.result }

type stubLocation struct{ result PlaceResult }

func (s *stubLocation) Locate(context.Context, string) PlaceResult { return s.result }

type stubCompetitors struct {
	result CompetitorResult
	lat    float64
	lng    float64
}

func (s *stubCompetitors) Competitors(_ context.Context, _ string, lat, lng float64) CompetitorResult {
	s.lat, s.lng = lat, lng
	return s.result
}

type stubCentroids struct{ entries map[string]zcta.Entry }

func (s *stubCentroids) Lookup(zip string) (zcta.Entry, bool) {
	e, ok := s.entries[zip]
	return e, ok
}

func TestEnrichAllProvidersResolve(t *testing.T) {
	pop := &stubPopulation{result: PopulationResult{Population: 54000, Available: true}}
	comp := &stubCompetitors{result: CompetitorResult{Count: 1, Available: true}}
	e := New(
		pop,
		&stubArea{result: AreaResult{SqMi: 10.8, Available: true}},
		&stubLocation{result: PlaceResult{City: "Beverly Hills", State: "CA", Latitude: 34.09, Longitude: -118.41, Matched: true}},
		WithCompetitors(comp),
	)

	got := e.Enrich(context.Background(), model.ZipRecord{ZipCode: "90210"})

	assert.Equal(t, 54000, got.Population)
	assert.Equal(t, 10.8, got.AreaSqMi)
	assert.Equal(t, 5000.0, got.Density)
	assert.Equal(t, "Beverly Hills", got.City)
	assert.Equal(t, "CA", got.State)
	assert.True(t, got.HasCoords)
	assert.True(t, got.HasCompetitors)
	assert.Equal(t, 1, got.Competitors)
	assert.Equal(t, 34.09, comp.lat)
	assert.Empty(t, e.Degradations())
}

func TestEnrichDegradesToSentinels(t *testing.T) {
	e := New(
		&stubPopulation{result: PopulationResult{Detail: "census: request failed"}},
		&stubArea{result: AreaResult{Detail: "zip not present in ZCTA index"}},
		&stubLocation{result: PlaceResult{Detail: "zipapi: status 404"}},
	)

	got := e.Enrich(context.Background(), model.ZipRecord{ZipCode: "00501"})

	assert.Equal(t, 0, got.Population)
	assert.Equal(t, 0.0, got.AreaSqMi)
	assert.Equal(t, 0.0, got.Density)
	assert.Equal(t, model.UnknownSentinel, got.City)
	assert.Equal(t, model.UnknownSentinel, got.State)
	assert.False(t, got.HasCoords)
	assert.False(t, got.HasCompetitors)

	degs := e.Degradations()
	require.Len(t, degs, 3)
	stages := []string{degs[0].Stage, degs[1].Stage, degs[2].Stage}
	assert.Equal(t, []string{"population", "area", "location"}, stages)
	for _, d := range degs {
		assert.Equal(t, "00501", d.ZipCode)
		assert.NotEmpty(t, d.Detail)
	}
}

func TestEnrichCentroidFallbackSuppliesCoordinates(t *testing.T) {
	comp := &stubCompetitors{result: CompetitorResult{Count: 3, Available: true}}
	e := New(
		&stubPopulation{result: PopulationResult{Population: 12000, Available: true}},
		&stubArea{result: AreaResult{SqMi: 6, Available: true}},
		&stubLocation{result: PlaceResult{Detail: "zipapi: status 404"}},
		WithCompetitors(comp),
		WithCentroidFallback(&stubCentroids{entries: map[string]zcta.Entry{
			"36925": {LandSqMi: 6, Latitude: 32.26, Longitude: -88.12, HasCentroid: true},
		}}),
	)

	got := e.Enrich(context.Background(), model.ZipRecord{ZipCode: "36925"})

	// City and state stay unknown, but the geometry centroid keeps the ZIP
	// eligible for discovery.
	assert.Equal(t, model.UnknownSentinel, got.City)
	assert.True(t, got.HasCoords)
	assert.Equal(t, 32.26, got.Latitude)
	assert.Equal(t, -88.12, got.Longitude)
	assert.True(t, got.HasCompetitors)
	assert.Equal(t, 32.26, comp.lat)
}

func TestEnrichCompetitorsSkippedWithoutCoordinates(t *testing.T) {
	comp := &stubCompetitors{result: CompetitorResult{Count: 9, Available: true}}
	e := New(
		&stubPopulation{result: PopulationResult{Population: 12000, Available: true}},
		&stubArea{result: AreaResult{SqMi: 6, Available: true}},
		&stubLocation{result: PlaceResult{Detail: "zipapi: connection refused"}},
		WithCompetitors(comp),
	)

	got := e.Enrich(context.Background(), model.ZipRecord{ZipCode: "99999"})

	assert.False(t, got.HasCoords)
	assert.False(t, got.HasCompetitors)
	assert.Zero(t, comp.lat)
}

func TestEnrichMemoizesPerZip(t *testing.T) {
	pop := &stubPopulation{result: PopulationResult{Population: 8000, Available: true}}
	e := New(
		pop,
		&stubArea{result: AreaResult{SqMi: 2, Available: true}},
		&stubLocation{result: PlaceResult{City: "Somers", State: "NY", Latitude: 41.3, Longitude: -73.7, Matched: true}},
	)

	e.Enrich(context.Background(), model.ZipRecord{ZipCode: "10589"})
	e.Enrich(context.Background(), model.ZipRecord{ZipCode: "10589"})

	assert.Equal(t, 1, pop.calls)
}
