// Package pipeline orchestrates a qualification run: input mapping,
// per-ZIP enrichment and qualification, business discovery for qualified
// ZIPs, contact scraping, and report assembly.
package pipeline

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kioskworks/sitescout/internal/discover"
	"github.com/kioskworks/sitescout/internal/model"
)

// Enricher resolves demographic and geographic attributes per ZIP.
type Enricher interface {
	Enrich(ctx context.Context, rec model.ZipRecord) model.EnrichedZip
	Degradations() []model.Degradation
}

// Qualifier renders a verdict for one enriched ZIP.
type Qualifier interface {
	Qualify(z model.EnrichedZip) model.Verdict
}

// Discoverer finds businesses around a coordinate and fetches their details.
type Discoverer interface {
	Discover(ctx context.Context, lat, lng float64) []model.POI
	BrandMatches(ctx context.Context, lat, lng float64) int
	Detail(ctx context.Context, placeID string) (*model.PlaceDetail, error)
}

// ContactScraper extracts owner contact data from a website.
type ContactScraper interface {
	Scrape(ctx context.Context, websiteURL string) model.OwnerContact
}

// NoteWriter generates an optional one-sentence outreach note for a
// business with contact data.
type NoteWriter interface {
	OutreachNote(ctx context.Context, rec model.BusinessRecord) (string, error)
}

// Options tunes orchestration. Zero values mean sequential processing with
// the stock hours floor.
type Options struct {
	ZipConcurrency      int
	BusinessConcurrency int
	MinDailyHours       float64

	// OnProgress, when set, receives per-stage completion counts.
	OnProgress func(stage string, done, total int)
}

// Pipeline wires the stage collaborators together for one or more runs.
type Pipeline struct {
	enricher Enricher
	engine   Qualifier
	disc     Discoverer
	scraper  ContactScraper
	notes    NoteWriter // nil = disabled
	opts     Options
}

// New creates a pipeline. disc, scraper, and notes may be nil, disabling
// discovery, scraping, and outreach notes respectively.
func New(enricher Enricher, engine Qualifier, disc Discoverer, scraper ContactScraper, notes NoteWriter, opts Options) *Pipeline {
	if opts.ZipConcurrency <= 0 {
		opts.ZipConcurrency = 1
	}
	if opts.BusinessConcurrency <= 0 {
		opts.BusinessConcurrency = 1
	}
	if opts.MinDailyHours == 0 {
		opts.MinDailyHours = 8
	}
	return &Pipeline{
		enricher: enricher,
		engine:   engine,
		disc:     disc,
		scraper:  scraper,
		notes:    notes,
		opts:     opts,
	}
}

// Run processes every input record and assembles the report. Provider
// failures degrade individual fields; only context cancellation aborts, and
// even then the partial report is returned.
func (p *Pipeline) Run(ctx context.Context, records []model.ZipRecord) (*model.Report, error) {
	report := &model.Report{}

	results, err := p.qualifyStage(ctx, records)
	for _, r := range results {
		if r.Verdict.Qualified {
			report.Qualified = append(report.Qualified, r)
		} else {
			report.Rejected = append(report.Rejected, r)
		}
	}
	if err != nil {
		report.Degradations = p.enricher.Degradations()
		return report, err
	}

	if p.disc != nil {
		businesses, brandMatches, skipped, err := p.discoverStage(ctx, report.Qualified)
		report.WithContact, report.WithoutContact = Partition(businesses)
		report.BrandMatches = brandMatches
		report.SkippedDiscovery = skipped
		if err != nil {
			report.Degradations = p.enricher.Degradations()
			return report, err
		}
	}

	if p.notes != nil {
		p.writeNotes(ctx, report.WithContact)
	}

	report.Degradations = p.enricher.Degradations()
	return report, nil
}

// qualifyStage enriches and qualifies every record with bounded fan-out,
// preserving input order in the result.
func (p *Pipeline) qualifyStage(ctx context.Context, records []model.ZipRecord) ([]model.ZipResult, error) {
	results := make([]model.ZipResult, len(records))
	var done atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.ZipConcurrency)

	for i, rec := range records {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			enriched := p.enricher.Enrich(gCtx, rec)
			results[i] = model.ZipResult{
				EnrichedZip: enriched,
				Verdict:     p.engine.Qualify(enriched),
			}
			p.progress("qualify", int(done.Add(1)), len(records))
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	// Drop slots that never ran on early cancellation.
	complete := results[:0]
	for _, r := range results {
		if r.ZipCode != "" {
			complete = append(complete, r)
		}
	}
	return complete, err
}

// discoverStage runs discovery, detail enrichment, the hours filter, and
// contact scraping for every qualified ZIP with coordinates.
func (p *Pipeline) discoverStage(ctx context.Context, qualified []model.ZipResult) ([]model.BusinessRecord, int, []string, error) {
	var (
		mu           sync.Mutex
		perZip       = make(map[string][]model.BusinessRecord, len(qualified))
		brandMatches atomic.Int64
		skipped      []string
		done         atomic.Int64
	)

	eligible := make([]model.ZipResult, 0, len(qualified))
	for _, zr := range qualified {
		if !zr.HasCoords {
			skipped = append(skipped, zr.ZipCode)
			zap.L().Info("skipping discovery, no coordinates", zap.String("zip", zr.ZipCode))
			continue
		}
		eligible = append(eligible, zr)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.ZipConcurrency)

	for _, zr := range eligible {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			pois := p.disc.Discover(gCtx, zr.Latitude, zr.Longitude)
			brandMatches.Add(int64(p.disc.BrandMatches(gCtx, zr.Latitude, zr.Longitude)))

			records, err := p.processBusinesses(gCtx, zr.ZipCode, pois)
			mu.Lock()
			perZip[zr.ZipCode] = records
			mu.Unlock()

			p.progress("discover", int(done.Add(1)), len(eligible))
			return err
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	// Flatten in qualified-ZIP order so output is deterministic.
	var businesses []model.BusinessRecord
	for _, zr := range eligible {
		businesses = append(businesses, perZip[zr.ZipCode]...)
	}
	return businesses, int(brandMatches.Load()), skipped, err
}

// processBusinesses fetches details, applies the hours filter, and scrapes
// contacts for one ZIP's POIs. A failed detail fetch drops that business
// only.
func (p *Pipeline) processBusinesses(ctx context.Context, zip string, pois []model.POI) ([]model.BusinessRecord, error) {
	type slot struct {
		idx int
		rec model.BusinessRecord
	}
	var (
		mu    sync.Mutex
		slots []slot
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.BusinessConcurrency)

	for i, poi := range pois {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			detail, err := p.disc.Detail(gCtx, poi.PlaceID)
			if err != nil {
				zap.L().Warn("place detail fetch failed, dropping business",
					zap.String("zip", zip),
					zap.String("place_id", poi.PlaceID),
					zap.Error(err))
				return nil
			}

			hours := discover.DailyHours(detail.Periods)
			if hours < p.opts.MinDailyHours {
				return nil
			}

			rec := model.BusinessRecord{
				ZipCode:    zip,
				PlaceID:    poi.PlaceID,
				Name:       poi.Name,
				Address:    poi.Address,
				Category:   poi.Category,
				Phone:      detail.Phone,
				Website:    detail.Website,
				DailyHours: hours,
			}
			if p.scraper != nil {
				rec.Contact = p.scraper.Scrape(gCtx, detail.Website)
			}

			mu.Lock()
			slots = append(slots, slot{idx: i, rec: rec})
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()

	sort.Slice(slots, func(a, b int) bool { return slots[a].idx < slots[b].idx })
	records := make([]model.BusinessRecord, 0, len(slots))
	for _, s := range slots {
		records = append(records, s.rec)
	}
	return records, err
}

// writeNotes fills in outreach notes for businesses with contact. Failures
// leave the note empty.
func (p *Pipeline) writeNotes(ctx context.Context, records []model.BusinessRecord) {
	for i := range records {
		if ctx.Err() != nil {
			return
		}
		note, err := p.notes.OutreachNote(ctx, records[i])
		if err != nil {
			zap.L().Debug("outreach note generation failed",
				zap.String("place_id", records[i].PlaceID),
				zap.Error(err))
			continue
		}
		records[i].OutreachNote = note
	}
}

func (p *Pipeline) progress(stage string, done, total int) {
	if p.opts.OnProgress != nil {
		p.opts.OnProgress(stage, done, total)
	}
}
