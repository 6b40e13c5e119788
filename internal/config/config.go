// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Census     CensusConfig     `yaml:"census" mapstructure:"census"`
	ZipAPI     ZipAPIConfig     `yaml:"zipapi" mapstructure:"zipapi"`
	Area       AreaConfig       `yaml:"area" mapstructure:"area"`
	Places     PlacesConfig     `yaml:"places" mapstructure:"places"`
	Rules      RulesConfig      `yaml:"rules" mapstructure:"rules"`
	Discovery  DiscoveryConfig  `yaml:"discovery" mapstructure:"discovery"`
	Scrape     ScrapeConfig     `yaml:"scrape" mapstructure:"scrape"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// CensusConfig configures the ACS population provider.
type CensusConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ZipAPIConfig configures the ZIP-to-place lookup provider.
type ZipAPIConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// AreaConfig configures the land-area provider. Mode "zcta" reads a local
// TIGER/Line ZCTA shapefile; mode "http" queries the configured endpoint.
type AreaConfig struct {
	Mode          string `yaml:"mode" mapstructure:"mode"`
	ShapefilePath string `yaml:"shapefile_path" mapstructure:"shapefile_path"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// PlacesConfig configures the place-search and place-details provider.
type PlacesConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// RulesConfig carries the qualification thresholds and rule toggles.
// ProfilesPath optionally points at a YAML file of named profiles; Profile
// selects one by name.
type RulesConfig struct {
	ProfilesPath string `yaml:"profiles_path" mapstructure:"profiles_path"`
	Profile      string `yaml:"profile" mapstructure:"profile"`

	PopulationFloor  int      `yaml:"population_floor" mapstructure:"population_floor"`
	DensityFloor     float64  `yaml:"density_floor" mapstructure:"density_floor"`
	MaxCompetitors   int      `yaml:"max_competitors" mapstructure:"max_competitors"`
	MaxRemovalRate   float64  `yaml:"max_removal_rate" mapstructure:"max_removal_rate"`
	DisallowedStates []string `yaml:"disallowed_states" mapstructure:"disallowed_states"`

	PopulationRule   bool `yaml:"population_rule" mapstructure:"population_rule"`
	DensityRule      bool `yaml:"density_rule" mapstructure:"density_rule"`
	SaturationRule   bool `yaml:"saturation_rule" mapstructure:"saturation_rule"`
	RemovalRule      bool `yaml:"removal_rule" mapstructure:"removal_rule"`
	InterestRule     bool `yaml:"interest_rule" mapstructure:"interest_rule"`
	JurisdictionRule bool `yaml:"jurisdiction_rule" mapstructure:"jurisdiction_rule"`
}

// DiscoveryConfig configures business discovery and detail enrichment.
type DiscoveryConfig struct {
	RadiusMeters  int      `yaml:"radius_meters" mapstructure:"radius_meters"`
	Categories    []string `yaml:"categories" mapstructure:"categories"`
	BrandKeyword  string   `yaml:"brand_keyword" mapstructure:"brand_keyword"`
	MinDailyHours float64  `yaml:"min_daily_hours" mapstructure:"min_daily_hours"`
}

// ScrapeConfig configures the owner-contact website scraper.
type ScrapeConfig struct {
	TimeoutSecs  int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxBodyBytes int `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// PipelineConfig configures orchestration concurrency.
type PipelineConfig struct {
	ZipConcurrency      int `yaml:"zip_concurrency" mapstructure:"zip_concurrency"`
	BusinessConcurrency int `yaml:"business_concurrency" mapstructure:"business_concurrency"`
}

// StoreConfig configures the run ledger backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// NotionConfig holds the optional Notion lead sink settings.
type NotionConfig struct {
	Token  string `yaml:"token" mapstructure:"token"`
	LeadDB string `yaml:"lead_db" mapstructure:"lead_db"`
}

// SalesforceConfig holds the optional Salesforce lead sink settings.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// AnthropicConfig holds the optional outreach-note summarizer settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// ServerConfig configures the qualification webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SITESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "sitescout.db")

	v.SetDefault("census.base_url", "https://api.census.gov/data/2023/acs/acs5")
	v.SetDefault("census.rate_limit", 10)
	v.SetDefault("census.timeout_secs", 10)
	v.SetDefault("zipapi.base_url", "https://api.zippopotam.us")
	v.SetDefault("zipapi.rate_limit", 5)
	v.SetDefault("zipapi.timeout_secs", 10)
	v.SetDefault("area.mode", "zcta")
	v.SetDefault("area.timeout_secs", 10)
	v.SetDefault("places.base_url", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("places.rate_limit", 5)
	v.SetDefault("places.timeout_secs", 10)

	v.SetDefault("rules.population_floor", 10000)
	v.SetDefault("rules.density_floor", 400)
	v.SetDefault("rules.max_competitors", 2)
	v.SetDefault("rules.max_removal_rate", 0.3)
	v.SetDefault("rules.population_rule", true)
	v.SetDefault("rules.density_rule", true)
	v.SetDefault("rules.saturation_rule", true)
	v.SetDefault("rules.removal_rule", true)
	v.SetDefault("rules.interest_rule", true)
	v.SetDefault("rules.jurisdiction_rule", true)

	v.SetDefault("discovery.radius_meters", 1600)
	v.SetDefault("discovery.categories", []string{
		"gas_station", "convenience_store", "supermarket", "liquor_store",
		"pharmacy", "jewelry_store", "laundry", "shopping_mall", "restaurant",
	})
	v.SetDefault("discovery.brand_keyword", "bitcoin atm")
	v.SetDefault("discovery.min_daily_hours", 8)

	v.SetDefault("scrape.timeout_secs", 5)
	v.SetDefault("scrape.max_body_bytes", 512*1024)

	v.SetDefault("pipeline.zip_concurrency", 1)
	v.SetDefault("pipeline.business_concurrency", 1)

	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
