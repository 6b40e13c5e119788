// Package enrich resolves per-ZIP demographic and geographic attributes from
// a set of pluggable providers. Provider failures never abort a run; each one
// is downgraded to a sentinel value and recorded as a degradation.
package enrich

import (
	"context"
	"sync"

	"github.com/kioskworks/sitescout/internal/model"
	"github.com/kioskworks/sitescout/internal/zcta"
)

// CentroidSource supplies geometry centroids for ZIPs the location provider
// cannot match. *zcta.Index satisfies it.
type CentroidSource interface {
	Lookup(zip string) (zcta.Entry, bool)
}

// Enricher composes the per-ZIP providers and memoizes their outcomes for
// the lifetime of one run.
type Enricher struct {
	population  PopulationProvider
	area        AreaProvider
	location    LocationProvider
	competitors CompetitorProvider
	centroids   CentroidSource

	popCache  *Cache[PopulationResult]
	areaCache *Cache[AreaResult]
	locCache  *Cache[PlaceResult]
	compCache *Cache[CompetitorResult]

	mu           sync.Mutex
	degradations []model.Degradation
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithCompetitors installs a nearby-competitor count source. Without one the
// saturation rule relies on input columns alone.
func WithCompetitors(p CompetitorProvider) Option {
	return func(e *Enricher) { e.competitors = p }
}

// WithCentroidFallback uses ZCTA geometry centroids for coordinates when the
// location provider cannot match a ZIP.
func WithCentroidFallback(src CentroidSource) Option {
	return func(e *Enricher) { e.centroids = src }
}

// New creates an enricher over the three mandatory providers. Caches are
// fresh, so each ZIP hits each provider at most once per Enricher.
func New(pop PopulationProvider, area AreaProvider, loc LocationProvider, opts ...Option) *Enricher {
	e := &Enricher{
		population: pop,
		area:       area,
		location:   loc,
		popCache:   NewCache[PopulationResult](),
		areaCache:  NewCache[AreaResult](),
		locCache:   NewCache[PlaceResult](),
		compCache:  NewCache[CompetitorResult](),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich resolves all attributes for one input row. It always returns a
// usable value; lookups that failed leave their sentinel defaults in place.
func (e *Enricher) Enrich(ctx context.Context, rec model.ZipRecord) model.EnrichedZip {
	zip := rec.ZipCode
	out := model.EnrichedZip{
		ZipRecord: rec,
		City:      model.UnknownSentinel,
		State:     model.UnknownSentinel,
	}

	pop := e.popCache.GetOrFill(zip, func() PopulationResult {
		return e.population.Population(ctx, zip)
	})
	if pop.Available {
		out.Population = pop.Population
	} else {
		e.degrade(zip, "population", pop.Detail)
	}

	area := e.areaCache.GetOrFill(zip, func() AreaResult {
		return e.area.Area(ctx, zip)
	})
	if area.Available {
		out.AreaSqMi = area.SqMi
	} else {
		e.degrade(zip, "area", area.Detail)
	}
	out.Density = Density(out.Population, out.AreaSqMi)

	loc := e.locCache.GetOrFill(zip, func() PlaceResult {
		return e.location.Locate(ctx, zip)
	})
	if loc.Matched {
		out.City = loc.City
		out.State = loc.State
		out.Latitude = loc.Latitude
		out.Longitude = loc.Longitude
		out.HasCoords = true
	} else {
		e.degrade(zip, "location", loc.Detail)
		if e.centroids != nil {
			if entry, ok := e.centroids.Lookup(zip); ok && entry.HasCentroid {
				out.Latitude = entry.Latitude
				out.Longitude = entry.Longitude
				out.HasCoords = true
			}
		}
	}

	if e.competitors != nil && out.HasCoords {
		comp := e.compCache.GetOrFill(zip, func() CompetitorResult {
			return e.competitors.Competitors(ctx, zip, out.Latitude, out.Longitude)
		})
		if comp.Available {
			out.Competitors = comp.Count
			out.HasCompetitors = true
		} else {
			e.degrade(zip, "competitors", comp.Detail)
		}
	}

	return out
}

// Degradations returns every degraded lookup recorded so far, in the order
// they occurred.
func (e *Enricher) Degradations() []model.Degradation {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Degradation, len(e.degradations))
	copy(out, e.degradations)
	return out
}

func (e *Enricher) degrade(zip, stage, detail string) {
	e.mu.Lock()
	e.degradations = append(e.degradations, model.Degradation{ZipCode: zip, Stage: stage, Detail: detail})
	e.mu.Unlock()
}
