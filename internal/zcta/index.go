// Package zcta builds an in-memory index of ZIP Code Tabulation Areas from a
// TIGER/Line shapefile: land area in square miles plus a geometry-derived
// centroid usable as a coordinate fallback.
package zcta

import (
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

const sqMetersPerSqMile = 2589988.110336

// Entry holds the indexed values for one ZCTA.
type Entry struct {
	LandSqMi    float64
	Latitude    float64
	Longitude   float64
	HasCentroid bool
}

// Index maps 5-digit ZCTA codes to their entries.
type Index struct {
	entries map[string]Entry
}

// geoidFields and alandFields cover the TIGER vintages in circulation.
var (
	geoidFields = []string{"geoid20", "geoid10", "geoid"}
	alandFields = []string{"aland20", "aland10", "aland"}
)

// Load reads a ZCTA shapefile and builds the index.
func Load(shpPath string) (*Index, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "zcta: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	geoidIdx, ok := firstField(fieldIdx, geoidFields)
	if !ok {
		return nil, eris.Errorf("zcta: no GEOID field in %s", shpPath)
	}
	alandIdx, hasAland := firstField(fieldIdx, alandFields)

	idx := &Index{entries: make(map[string]Entry)}
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		geoid := strings.TrimSpace(strings.TrimRight(reader.Attribute(geoidIdx), "\x00"))
		if len(geoid) != 5 {
			skipped++
			continue
		}

		var e Entry
		if hasAland {
			raw := strings.TrimSpace(strings.TrimRight(reader.Attribute(alandIdx), "\x00"))
			if sqMeters, parseErr := strconv.ParseFloat(raw, 64); parseErr == nil && sqMeters > 0 {
				e.LandSqMi = sqMeters / sqMetersPerSqMile
			}
		}

		if poly, isPoly := shape.(*shp.Polygon); isPoly {
			if lat, lng, centroidOK := polygonCentroid(poly); centroidOK {
				e.Latitude = lat
				e.Longitude = lng
				e.HasCentroid = true
			}
		}

		idx.entries[geoid] = e
	}

	if skipped > 0 {
		zap.L().Debug("zcta: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}
	zap.L().Info("zcta: index loaded",
		zap.String("path", shpPath),
		zap.Int("zctas", len(idx.entries)),
	)

	return idx, nil
}

// Lookup returns the entry for a ZCTA code.
func (x *Index) Lookup(zip string) (Entry, bool) {
	e, ok := x.entries[zip]
	return e, ok
}

// Len returns the number of indexed ZCTAs.
func (x *Index) Len() int { return len(x.entries) }

// firstField returns the index of the first present candidate field name.
func firstField(fieldIdx map[string]int, candidates []string) (int, bool) {
	for _, c := range candidates {
		if i, ok := fieldIdx[c]; ok {
			return i, true
		}
	}
	return 0, false
}

// polygonCentroid converts a shapefile polygon to go-geom and takes the
// bounding-box center. Adequate for ZCTA-scale geometries where the value
// only seeds a nearby-search radius.
func polygonCentroid(p *shp.Polygon) (lat, lng float64, ok bool) {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return 0, 0, false
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			continue
		}
		if err := mp.Push(poly); err != nil {
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return 0, 0, false
	}

	b := mp.Bounds()
	return (b.Min(1) + b.Max(1)) / 2, (b.Min(0) + b.Max(0)) / 2, true
}
