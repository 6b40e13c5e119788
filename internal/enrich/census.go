package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/kioskworks/sitescout/pkg/census"
)

type censusPopulation struct {
	client census.Client
}

// CensusPopulation wraps a census client as a population provider. Client
// errors become an unavailable outcome rather than propagating.
func CensusPopulation(c census.Client) PopulationProvider {
	return &censusPopulation{client: c}
}

func (p *censusPopulation) Population(ctx context.Context, zip string) PopulationResult {
	n, err := p.client.Population(ctx, zip)
	if err != nil {
		zap.L().Debug("census population lookup failed", zap.String("zip", zip), zap.Error(err))
		return PopulationResult{Detail: err.Error()}
	}
	return PopulationResult{Population: n, Available: true}
}
