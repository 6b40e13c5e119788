// Package discover finds candidate host businesses around qualified ZIP
// centroids and enriches them with place details.
package discover

import (
	"context"

	"go.uber.org/zap"

	"github.com/kioskworks/sitescout/internal/model"
	"github.com/kioskworks/sitescout/pkg/places"
)

// DefaultCategories is the stock nearby-search category list.
var DefaultCategories = []string{
	"gas_station", "convenience_store", "supermarket", "liquor_store",
	"pharmacy", "jewelry_store", "laundry", "shopping_mall", "restaurant",
}

// Service runs category discovery and detail enrichment through a single
// place-search client. The client owns request pacing.
type Service struct {
	client       places.Client
	radiusMeters int
	categories   []string
	brandKeyword string
}

// NewService creates a discovery service. Zero radius and nil categories
// fall back to the stock values.
func NewService(c places.Client, radiusMeters int, categories []string, brandKeyword string) *Service {
	if radiusMeters <= 0 {
		radiusMeters = 1600
	}
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	return &Service{
		client:       c,
		radiusMeters: radiusMeters,
		categories:   categories,
		brandKeyword: brandKeyword,
	}
}

// Discover issues one nearby search per configured category and flattens the
// hits into a deduplicated POI list. A place returned under several
// categories keeps the first-seen category. A failed category search is
// logged and skipped; the remaining categories still contribute.
func (s *Service) Discover(ctx context.Context, lat, lng float64) []model.POI {
	seen := make(map[string]struct{})
	var out []model.POI

	for _, category := range s.categories {
		hits, err := s.client.NearbySearch(ctx, lat, lng, s.radiusMeters, category)
		if err != nil {
			zap.L().Warn("nearby search failed",
				zap.String("category", category),
				zap.Float64("lat", lat),
				zap.Float64("lng", lng),
				zap.Error(err))
			continue
		}
		for _, hit := range hits {
			if hit.PlaceID == "" {
				continue
			}
			if _, dup := seen[hit.PlaceID]; dup {
				continue
			}
			seen[hit.PlaceID] = struct{}{}
			out = append(out, model.POI{
				PlaceID:  hit.PlaceID,
				Name:     hit.Name,
				Address:  hit.Vicinity,
				Category: category,
			})
		}
	}
	return out
}

// BrandMatches counts places matching the kiosk-brand keyword near a
// coordinate. Informational only; the hits never join the category result
// set. Returns 0 on search failure.
func (s *Service) BrandMatches(ctx context.Context, lat, lng float64) int {
	if s.brandKeyword == "" {
		return 0
	}
	hits, err := s.client.KeywordSearch(ctx, lat, lng, s.radiusMeters, s.brandKeyword)
	if err != nil {
		zap.L().Warn("brand keyword search failed",
			zap.String("keyword", s.brandKeyword),
			zap.Error(err))
		return 0
	}
	return len(hits)
}

// Detail fetches phone, website, and opening periods for one place.
func (s *Service) Detail(ctx context.Context, placeID string) (*model.PlaceDetail, error) {
	d, err := s.client.Details(ctx, placeID)
	if err != nil {
		return nil, err
	}

	detail := &model.PlaceDetail{Phone: d.Phone, Website: d.Website}
	for _, p := range d.Periods {
		detail.Periods = append(detail.Periods, model.Period{Open: p.Open, Close: p.Close})
	}
	return detail, nil
}
