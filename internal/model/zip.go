// Package model defines the value types flowing through the qualification
// pipeline: ZIP records, enrichment results, verdicts, discovered businesses,
// and the final report.
package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// UnknownSentinel is the string used for unresolvable city/state values.
// A string sentinel, not an empty value, so downstream display stays stable.
const UnknownSentinel = "Unknown"

// ZipRecord is a single input row. Immutable once read.
type ZipRecord struct {
	ZipCode string `json:"zip_code"`

	// Optional input columns, used opportunistically by qualification rules.
	// Each Has* flag records whether the column was present in the source.
	AnalyticsFlag      string  `json:"analytics_flag,omitempty"`
	HasAnalyticsFlag   bool    `json:"-"`
	RemovalRate        float64 `json:"removal_rate,omitempty"`
	HasRemovalRate     bool    `json:"-"`
	TotalKiosks        int     `json:"total_kiosks,omitempty"`
	HasTotalKiosks     bool    `json:"-"`
	InstalledKiosks    int     `json:"installed_kiosks,omitempty"`
	HasInstalledKiosks bool    `json:"-"`
}

// NormalizeZip coerces a raw spreadsheet cell into a 5-digit ZIP code.
// Accepts plain digit strings, shorter strings needing zero padding, and
// float-like strings such as "90210.0" that spreadsheet readers produce.
func NormalizeZip(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", eris.New("model: empty zip code")
	}

	// Spreadsheet numeric cells often render as "1001.0".
	if i := strings.IndexByte(s, '.'); i >= 0 {
		frac := s[i+1:]
		if frac != "" && strings.Trim(frac, "0") != "" {
			return "", eris.Errorf("model: non-integer zip code %q", raw)
		}
		s = s[:i]
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return "", eris.Errorf("model: invalid zip code %q", raw)
		}
	}
	if len(s) > 5 {
		return "", eris.Errorf("model: zip code %q longer than 5 digits", raw)
	}

	return strings.Repeat("0", 5-len(s)) + s, nil
}

// EnrichedZip owns a ZipRecord plus the demographic and geographic fields
// resolved during enrichment. Built once by the enricher, frozen afterward.
type EnrichedZip struct {
	ZipRecord

	Population int     `json:"population"`  // 0 = unknown
	AreaSqMi   float64 `json:"area_sq_mi"`  // 0 = unknown
	Density    float64 `json:"density"`     // population/area, 2 decimals, 0 if area 0
	City       string  `json:"city"`        // UnknownSentinel on lookup failure
	State      string  `json:"state"`       // UnknownSentinel on lookup failure
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	HasCoords  bool    `json:"has_coords"`

	// Competitors is the nearby kiosk count when the competitor source
	// resolved; HasCompetitors gates the saturation rule.
	Competitors    int  `json:"competitors,omitempty"`
	HasCompetitors bool `json:"-"`
}

// Degradation records a provider lookup that fell back to its unknown
// sentinel. Operator-visible, distinct from qualification rejection reasons.
type Degradation struct {
	ZipCode string `json:"zip_code"`
	Stage   string `json:"stage"`
	Detail  string `json:"detail"`
}
