package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/kioskworks/sitescout/pkg/places"
)

type placesCompetitors struct {
	client       places.Client
	radiusMeters int
	keyword      string
}

// PlacesCompetitors counts competing kiosk operators by keyword search
// around a ZIP centroid. Search failures are reported unavailable so the
// saturation rule can be skipped instead of guessed at.
func PlacesCompetitors(c places.Client, radiusMeters int, keyword string) CompetitorProvider {
	return &placesCompetitors{client: c, radiusMeters: radiusMeters, keyword: keyword}
}

func (p *placesCompetitors) Competitors(ctx context.Context, zip string, lat, lng float64) CompetitorResult {
	hits, err := p.client.KeywordSearch(ctx, lat, lng, p.radiusMeters, p.keyword)
	if err != nil {
		zap.L().Debug("competitor search failed", zap.String("zip", zip), zap.Error(err))
		return CompetitorResult{Detail: err.Error()}
	}
	return CompetitorResult{Count: len(hits), Available: true}
}
