package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/kioskworks/sitescout/pkg/zipapi"
)

type zipAPILocation struct {
	client zipapi.Client
}

// ZipAPILocation wraps a zipapi client as a location provider. Lookup
// failures, including unknown ZIPs, become an unmatched outcome.
func ZipAPILocation(c zipapi.Client) LocationProvider {
	return &zipAPILocation{client: c}
}

func (p *zipAPILocation) Locate(ctx context.Context, zip string) PlaceResult {
	place, err := p.client.Lookup(ctx, zip)
	if err != nil {
		zap.L().Debug("zip location lookup failed", zap.String("zip", zip), zap.Error(err))
		return PlaceResult{Detail: err.Error()}
	}
	return PlaceResult{
		City:      place.City,
		State:     place.State,
		Latitude:  place.Latitude,
		Longitude: place.Longitude,
		Matched:   true,
	}
}
