package main

import (
	"context"
	"os"
	"time"

	gosf "github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kioskworks/sitescout/internal/discover"
	"github.com/kioskworks/sitescout/internal/enrich"
	"github.com/kioskworks/sitescout/internal/export"
	"github.com/kioskworks/sitescout/internal/outreach"
	"github.com/kioskworks/sitescout/internal/pipeline"
	"github.com/kioskworks/sitescout/internal/qualify"
	"github.com/kioskworks/sitescout/internal/scrape"
	"github.com/kioskworks/sitescout/internal/store"
	"github.com/kioskworks/sitescout/internal/zcta"
	"github.com/kioskworks/sitescout/pkg/anthropic"
	"github.com/kioskworks/sitescout/pkg/census"
	"github.com/kioskworks/sitescout/pkg/notion"
	"github.com/kioskworks/sitescout/pkg/places"
	sfpkg "github.com/kioskworks/sitescout/pkg/salesforce"
	"github.com/kioskworks/sitescout/pkg/zipapi"
)

func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open run ledger")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "migrate run ledger")
	}
	return st, nil
}

func buildEngine() (*qualify.Engine, error) {
	if cfg.Rules.ProfilesPath != "" {
		p, err := qualify.LoadProfile(cfg.Rules.ProfilesPath, cfg.Rules.Profile)
		if err != nil {
			return nil, eris.Wrap(err, "load rule profile")
		}
		return qualify.NewEngine(p), nil
	}
	return qualify.NewEngine(qualify.FromConfig(cfg.Rules)), nil
}

func buildPlacesClient() places.Client {
	if cfg.Places.Key == "" {
		return nil
	}
	return places.NewClient(cfg.Places.Key,
		places.WithBaseURL(cfg.Places.BaseURL),
		places.WithRateLimit(cfg.Places.RateLimit),
	)
}

// providerSet carries the shared provider wiring. The providers themselves
// are stateless and safe across runs; each run gets its own Enricher over
// them so memo caches and degradation lists never leak between runs.
type providerSet struct {
	pop  enrich.PopulationProvider
	area enrich.AreaProvider
	loc  enrich.LocationProvider
	opts []enrich.Option
}

func buildProviders(placesClient places.Client) providerSet {
	censusClient := census.NewClient(cfg.Census.Key,
		census.WithBaseURL(cfg.Census.BaseURL),
		census.WithRateLimit(cfg.Census.RateLimit),
	)
	zipClient := zipapi.NewClient(
		zipapi.WithBaseURL(cfg.ZipAPI.BaseURL),
		zipapi.WithRateLimit(cfg.ZipAPI.RateLimit),
	)

	var opts []enrich.Option
	area := buildAreaProvider(&opts)

	if placesClient != nil {
		opts = append(opts, enrich.WithCompetitors(
			enrich.PlacesCompetitors(placesClient, cfg.Discovery.RadiusMeters, cfg.Discovery.BrandKeyword),
		))
	}

	return providerSet{
		pop:  enrich.CensusPopulation(censusClient),
		area: area,
		loc:  enrich.ZipAPILocation(zipClient),
		opts: opts,
	}
}

func (p providerSet) newEnricher() *enrich.Enricher {
	return enrich.New(p.pop, p.area, p.loc, p.opts...)
}

// buildEnricher wires a fresh enricher for the single-run commands.
func buildEnricher(placesClient places.Client) *enrich.Enricher {
	return buildProviders(placesClient).newEnricher()
}

// buildAreaProvider picks the land-area source. A missing shapefile is not
// fatal: area lookups degrade to the zero sentinel instead.
func buildAreaProvider(opts *[]enrich.Option) enrich.AreaProvider {
	if cfg.Area.Mode == "http" && cfg.Area.BaseURL != "" {
		return enrich.HTTPArea(cfg.Area.BaseURL)
	}
	if cfg.Area.ShapefilePath == "" {
		return enrich.NoArea("no area source configured")
	}

	idx, err := zcta.Load(cfg.Area.ShapefilePath)
	if err != nil {
		zap.L().Warn("zcta shapefile unavailable, land area lookups will degrade",
			zap.String("path", cfg.Area.ShapefilePath),
			zap.Error(err))
		return enrich.NoArea("zcta shapefile unavailable")
	}

	zap.L().Info("zcta index loaded",
		zap.String("path", cfg.Area.ShapefilePath),
		zap.Int("zctas", idx.Len()))
	*opts = append(*opts, enrich.WithCentroidFallback(idx))
	return enrich.ZCTAArea(idx)
}

func newScraper() *scrape.Scraper {
	return scrape.NewScraper(
		scrape.WithTimeout(time.Duration(cfg.Scrape.TimeoutSecs)*time.Second),
		scrape.WithMaxBodyBytes(int64(cfg.Scrape.MaxBodyBytes)),
	)
}

func buildNoteWriter() pipeline.NoteWriter {
	if cfg.Anthropic.Key == "" {
		return nil
	}
	return outreach.NewWriter(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model)
}

func buildSinks() ([]export.Sink, error) {
	var sinks []export.Sink

	if cfg.Notion.Token != "" && cfg.Notion.LeadDB != "" {
		sinks = append(sinks, export.NewNotionSink(
			notion.NewClient(cfg.Notion.Token), cfg.Notion.LeadDB))
	}

	if cfg.Salesforce.ClientID != "" {
		pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
		if err != nil {
			return nil, eris.Wrap(err, "read salesforce JWT private key")
		}
		sf, err := gosf.Init(gosf.Creds{
			Domain:         cfg.Salesforce.LoginURL,
			Username:       cfg.Salesforce.Username,
			ConsumerKey:    cfg.Salesforce.ClientID,
			ConsumerRSAPem: string(pemData),
		})
		if err != nil {
			return nil, eris.Wrap(err, "init salesforce")
		}
		sinks = append(sinks, export.NewSalesforceSink(sfpkg.NewClient(sf)))
	}

	return sinks, nil
}

// pipelineEnv bundles everything a full run needs.
type pipelineEnv struct {
	store store.Store
	sinks []export.Sink

	// newPipeline builds a fresh pipeline, and with it a fresh enricher,
	// for every run. Enrichment caches and degradation lists are scoped
	// to a single run and must not be shared across runs.
	newPipeline func() *pipeline.Pipeline
}

func (e *pipelineEnv) Close() {
	if e.store != nil {
		e.store.Close() //nolint:errcheck
	}
}

// initPipeline wires a complete environment from config. Discovery and
// scraping engage only when a Places API key is configured.
func initPipeline(ctx context.Context, opts pipeline.Options) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine()
	if err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}

	placesClient := buildPlacesClient()
	providers := buildProviders(placesClient)

	var disc pipeline.Discoverer
	var scraper pipeline.ContactScraper
	if placesClient != nil {
		disc = discover.NewService(placesClient,
			cfg.Discovery.RadiusMeters, cfg.Discovery.Categories, cfg.Discovery.BrandKeyword)
		scraper = newScraper()
	} else {
		zap.L().Info("no places API key, skipping discovery and scraping")
	}

	sinks, err := buildSinks()
	if err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}

	if opts.ZipConcurrency == 0 {
		opts.ZipConcurrency = cfg.Pipeline.ZipConcurrency
	}
	if opts.BusinessConcurrency == 0 {
		opts.BusinessConcurrency = cfg.Pipeline.BusinessConcurrency
	}
	if opts.MinDailyHours == 0 {
		opts.MinDailyHours = cfg.Discovery.MinDailyHours
	}

	notes := buildNoteWriter()
	return &pipelineEnv{
		store: st,
		sinks: sinks,
		newPipeline: func() *pipeline.Pipeline {
			return pipeline.New(providers.newEnricher(), engine, disc, scraper, notes, opts)
		},
	}, nil
}
