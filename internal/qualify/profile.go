package qualify

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/kioskworks/sitescout/internal/config"
)

// Profile is one named rule set: thresholds plus per-rule toggles.
type Profile struct {
	PopulationFloor  int      `yaml:"population_floor"`
	DensityFloor     float64  `yaml:"density_floor"`
	MaxCompetitors   int      `yaml:"max_competitors"`
	MaxRemovalRate   float64  `yaml:"max_removal_rate"`
	DisallowedStates []string `yaml:"disallowed_states"`

	PopulationRule   bool `yaml:"population_rule"`
	DensityRule      bool `yaml:"density_rule"`
	SaturationRule   bool `yaml:"saturation_rule"`
	RemovalRule      bool `yaml:"removal_rule"`
	InterestRule     bool `yaml:"interest_rule"`
	JurisdictionRule bool `yaml:"jurisdiction_rule"`
}

// DefaultProfile returns the stock rule set with every rule enabled.
func DefaultProfile() Profile {
	return Profile{
		PopulationFloor:  10000,
		DensityFloor:     400,
		MaxCompetitors:   2,
		MaxRemovalRate:   0.3,
		PopulationRule:   true,
		DensityRule:      true,
		SaturationRule:   true,
		RemovalRule:      true,
		InterestRule:     true,
		JurisdictionRule: true,
	}
}

// FromConfig builds a profile from the loaded application config.
func FromConfig(rc config.RulesConfig) Profile {
	return Profile{
		PopulationFloor:  rc.PopulationFloor,
		DensityFloor:     rc.DensityFloor,
		MaxCompetitors:   rc.MaxCompetitors,
		MaxRemovalRate:   rc.MaxRemovalRate,
		DisallowedStates: rc.DisallowedStates,
		PopulationRule:   rc.PopulationRule,
		DensityRule:      rc.DensityRule,
		SaturationRule:   rc.SaturationRule,
		RemovalRule:      rc.RemovalRule,
		InterestRule:     rc.InterestRule,
		JurisdictionRule: rc.JurisdictionRule,
	}
}

// LoadProfiles reads named profiles from a YAML file. Each profile starts
// from DefaultProfile, so an entry only needs the fields it overrides.
func LoadProfiles(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "qualify: read profiles %s", path)
	}

	// The YAML has a top-level "profiles" key.
	var wrapper struct {
		Profiles map[string]yaml.Node `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "qualify: parse profiles")
	}

	out := make(map[string]Profile, len(wrapper.Profiles))
	for name, node := range wrapper.Profiles {
		p := DefaultProfile()
		if err := node.Decode(&p); err != nil {
			return nil, eris.Wrapf(err, "qualify: parse profile %s", name)
		}
		out[name] = p
	}
	return out, nil
}

// LoadProfile reads one named profile from a YAML profiles file.
func LoadProfile(path, name string) (Profile, error) {
	profiles, err := LoadProfiles(path)
	if err != nil {
		return Profile{}, err
	}
	p, ok := profiles[name]
	if !ok {
		return Profile{}, eris.Errorf("qualify: profile %q not found in %s", name, path)
	}
	return p, nil
}
