package discover

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioskworks/sitescout/pkg/places"
)

type stubPlaces struct {
	nearby   map[string][]places.Place // keyed by category
	nearbyNA map[string]bool           // categories that error
	keyword  []places.Place
	keywordE error
	details  map[string]*places.Detail

	nearbyCalls  []string
	keywordCalls int
}

func (s *stubPlaces) NearbySearch(_ context.Context, _, _ float64, _ int, placeType string) ([]places.Place, error) {
	s.nearbyCalls = append(s.nearbyCalls, placeType)
	if s.nearbyNA[placeType] {
		return nil, eris.New("places: request failed")
	}
	return s.nearby[placeType], nil
}

func (s *stubPlaces) KeywordSearch(context.Context, float64, float64, int, string) ([]places.Place, error) {
	s.keywordCalls++
	return s.keyword, s.keywordE
}

func (s *stubPlaces) Details(_ context.Context, placeID string) (*places.Detail, error) {
	d, ok := s.details[placeID]
	if !ok {
		return nil, eris.Errorf("places: no detail for %s", placeID)
	}
	return d, nil
}

func TestDiscoverDedupesByPlaceID(t *testing.T) {
	stub := &stubPlaces{
		nearby: map[string][]places.Place{
			"gas_station": {
				{PlaceID: "p1", Name: "Quick Fuel", Vicinity: "1 Main St"},
				{PlaceID: "p2", Name: "Corner Mart", Vicinity: "2 Main St"},
			},
			// Same place surfaces again under a later category.
			"convenience_store": {
				{PlaceID: "p2", Name: "Corner Mart", Vicinity: "2 Main St"},
				{PlaceID: "p3", Name: "City Pharmacy", Vicinity: "3 Main St"},
			},
		},
	}
	svc := NewService(stub, 1600, []string{"gas_station", "convenience_store"}, "bitcoin atm")

	pois := svc.Discover(context.Background(), 34.09, -118.41)

	require.Len(t, pois, 3)
	assert.Equal(t, []string{"gas_station", "convenience_store"}, stub.nearbyCalls)
	// First-seen category wins for the duplicate.
	assert.Equal(t, "p2", pois[1].PlaceID)
	assert.Equal(t, "gas_station", pois[1].Category)
	assert.Equal(t, "convenience_store", pois[2].Category)
}

func TestDiscoverSkipsFailedCategory(t *testing.T) {
	stub := &stubPlaces{
		nearby: map[string][]places.Place{
			"pharmacy": {{PlaceID: "p9", Name: "City Pharmacy"}},
		},
		nearbyNA: map[string]bool{"supermarket": true},
	}
	svc := NewService(stub, 1600, []string{"supermarket", "pharmacy"}, "")

	pois := svc.Discover(context.Background(), 40.75, -73.99)

	require.Len(t, pois, 1)
	assert.Equal(t, "p9", pois[0].PlaceID)
}

func TestDiscoverDefaultsCategoriesAndRadius(t *testing.T) {
	stub := &stubPlaces{}
	svc := NewService(stub, 0, nil, "")

	svc.Discover(context.Background(), 0, 0)

	assert.Equal(t, DefaultCategories, stub.nearbyCalls)
	assert.Equal(t, 1600, svc.radiusMeters)
}

func TestBrandMatches(t *testing.T) {
	stub := &stubPlaces{keyword: []places.Place{{PlaceID: "b1"}, {PlaceID: "b2"}}}
	svc := NewService(stub, 1600, []string{"pharmacy"}, "bitcoin atm")

	assert.Equal(t, 2, svc.BrandMatches(context.Background(), 34.09, -118.41))
}

func TestBrandMatchesFailureCountsZero(t *testing.T) {
	stub := &stubPlaces{keywordE: eris.New("places: status 500")}
	svc := NewService(stub, 1600, []string{"pharmacy"}, "bitcoin atm")

	assert.Zero(t, svc.BrandMatches(context.Background(), 34.09, -118.41))
}

func TestBrandMatchesDisabledWithoutKeyword(t *testing.T) {
	stub := &stubPlaces{keyword: []places.Place{{PlaceID: "b1"}}}
	svc := NewService(stub, 1600, []string{"pharmacy"}, "")

	assert.Zero(t, svc.BrandMatches(context.Background(), 34.09, -118.41))
	assert.Zero(t, stub.keywordCalls)
}

func TestDetailConvertsPeriods(t *testing.T) {
	stub := &stubPlaces{details: map[string]*places.Detail{
		"p1": {
			Phone:   "(212) 555-0100",
			Website: "https://quickfuel.example.com",
			Periods: []places.Period{{Open: "0600", Close: "2300"}},
		},
	}}
	svc := NewService(stub, 1600, nil, "")

	d, err := svc.Detail(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "(212) 555-0100", d.Phone)
	require.Len(t, d.Periods, 1)
	assert.Equal(t, "0600", d.Periods[0].Open)

	_, err = svc.Detail(context.Background(), "missing")
	require.Error(t, err)
}
