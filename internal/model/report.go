package model

import "math"

// Report is the terminal aggregate of one pipeline run, consumed by the
// display/export collaborators. Partial runs produce valid reports.
type Report struct {
	Qualified []ZipResult `json:"qualified"`
	Rejected  []ZipResult `json:"rejected"`

	// SkippedDiscovery lists qualified ZIPs without resolvable coordinates;
	// they stay in the qualification report but get no business discovery.
	SkippedDiscovery []string `json:"skipped_discovery,omitempty"`

	WithContact    []BusinessRecord `json:"with_contact"`
	WithoutContact []BusinessRecord `json:"without_contact"`

	// BrandMatches counts businesses matching the kiosk-brand keyword.
	// Informational only; never part of the business result set.
	BrandMatches int `json:"brand_matches"`

	Degradations []Degradation `json:"degradations,omitempty"`
}

// Summary holds the roll-up metrics derived from a report.
type Summary struct {
	TotalZips         int     `json:"total_zips"`
	QualifiedZips     int     `json:"qualified_zips"`
	RejectionRate     float64 `json:"rejection_rate_pct"`
	AvgPopulation     float64 `json:"avg_population"`
	AvgDensity        float64 `json:"avg_density"`
	ProjectedUpliftPc float64 `json:"projected_roi_uplift_pct"`
	Businesses        int     `json:"businesses"`
	WithContact       int     `json:"with_contact"`
	WithoutContact    int     `json:"without_contact"`
	BrandMatches      int     `json:"brand_matches"`
	Degradations      int     `json:"degradations"`
}

// Summarize computes the roll-up metrics for the report.
func (r *Report) Summarize() Summary {
	s := Summary{
		TotalZips:      len(r.Qualified) + len(r.Rejected),
		QualifiedZips:  len(r.Qualified),
		Businesses:     len(r.WithContact) + len(r.WithoutContact),
		WithContact:    len(r.WithContact),
		WithoutContact: len(r.WithoutContact),
		BrandMatches:   r.BrandMatches,
		Degradations:   len(r.Degradations),
	}
	if s.TotalZips == 0 {
		return s
	}

	var popSum, densSum float64
	for _, zr := range r.Qualified {
		popSum += float64(zr.Population)
		densSum += zr.Density
	}
	for _, zr := range r.Rejected {
		popSum += float64(zr.Population)
		densSum += zr.Density
	}

	total := float64(s.TotalZips)
	qualifiedPct := float64(s.QualifiedZips) / total * 100

	s.RejectionRate = round2(100 - qualifiedPct)
	s.AvgPopulation = round2(popSum / total)
	s.AvgDensity = round2(densSum / total)
	s.ProjectedUpliftPc = round2(qualifiedPct * 2)
	return s
}

// round2 rounds to 2 decimal places.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
