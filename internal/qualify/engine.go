// Package qualify decides per-ZIP site viability against a configurable rule
// profile, accumulating every failing rule's reason rather than stopping at
// the first.
package qualify

import (
	"strings"

	"github.com/kioskworks/sitescout/internal/model"
)

// Rejection reason strings are fixed display values; exports and operator
// tooling match on them verbatim.
const (
	ReasonLowPopulation   = "Low population"
	ReasonLowDensity      = "Low population density"
	ReasonSaturation      = "High market saturation"
	ReasonHighRemoval     = "High removal rate"
	ReasonLowInterest     = "Low interest"
	ReasonDisallowedState = "Disallowed state"
)

// Engine evaluates one rule profile. Safe for concurrent use.
type Engine struct {
	profile    Profile
	disallowed map[string]struct{}
}

// NewEngine creates an engine for the given profile.
func NewEngine(p Profile) *Engine {
	disallowed := make(map[string]struct{}, len(p.DisallowedStates))
	for _, s := range p.DisallowedStates {
		disallowed[strings.ToUpper(strings.TrimSpace(s))] = struct{}{}
	}
	return &Engine{profile: p, disallowed: disallowed}
}

// Qualify evaluates every enabled rule against the enriched ZIP. Rules whose
// optional inputs are absent are skipped, not failed. Total: every input
// yields exactly one verdict.
func (e *Engine) Qualify(z model.EnrichedZip) model.Verdict {
	var reasons []string

	if e.profile.PopulationRule && z.Population < e.profile.PopulationFloor {
		reasons = append(reasons, ReasonLowPopulation)
	}

	if e.profile.DensityRule && z.Density < e.profile.DensityFloor {
		reasons = append(reasons, ReasonLowDensity)
	}

	if e.profile.SaturationRule && e.saturated(z) {
		reasons = append(reasons, ReasonSaturation)
	}

	if e.profile.RemovalRule && z.HasRemovalRate && z.RemovalRate > e.profile.MaxRemovalRate {
		reasons = append(reasons, ReasonHighRemoval)
	}

	if e.profile.InterestRule && z.HasAnalyticsFlag && !positiveFlag(z.AnalyticsFlag) {
		reasons = append(reasons, ReasonLowInterest)
	}

	if e.profile.JurisdictionRule && z.State != model.UnknownSentinel {
		if _, bad := e.disallowed[strings.ToUpper(z.State)]; bad {
			reasons = append(reasons, ReasonDisallowedState)
		}
	}

	return model.Verdict{Qualified: len(reasons) == 0, Reasons: reasons}
}

// saturated reports whether any available kiosk count exceeds the ceiling.
// With no count available the rule is skipped.
func (e *Engine) saturated(z model.EnrichedZip) bool {
	if z.HasCompetitors && z.Competitors > e.profile.MaxCompetitors {
		return true
	}
	if z.HasTotalKiosks && z.TotalKiosks > e.profile.MaxCompetitors {
		return true
	}
	if z.HasInstalledKiosks && z.InstalledKiosks > e.profile.MaxCompetitors {
		return true
	}
	return false
}

func positiveFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}
