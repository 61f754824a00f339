// Package pipeline runs one scrape-diff-persist cycle. The run is
// strictly sequential; nothing touches the on-disk snapshots until
// extraction has completed, so a cancelled run never leaves partial
// state behind.
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"sjsage522/offerwatch/config"
	"sjsage522/offerwatch/internal/report"
	"sjsage522/offerwatch/internal/scraper"
	"sjsage522/offerwatch/internal/snapshot"
	"sjsage522/offerwatch/logger"
	"sjsage522/offerwatch/services/cache"
	"sjsage522/offerwatch/services/publisher"
)

// Runner executes one full run against the listing page
type Runner struct {
	cfg       *config.Config
	scraper   *scraper.Scraper
	store     *snapshot.Store
	reporter  *report.Reporter
	cache     cache.CacheService
	publisher publisher.Publisher
	log       *logger.Logger
}

// NewRunner creates a runner over the required collaborators. The
// cache guard and publisher are optional and attached separately.
func NewRunner(cfg *config.Config, sc *scraper.Scraper, store *snapshot.Store, reporter *report.Reporter) *Runner {
	return &Runner{
		cfg:      cfg,
		scraper:  sc,
		store:    store,
		reporter: reporter,
		log:      logger.ForPipeline(),
	}
}

// WithCache attaches a run-frequency guard
func (r *Runner) WithCache(c cache.CacheService) *Runner {
	r.cache = c
	return r
}

// WithPublisher attaches a change-event publisher
func (r *Runner) WithPublisher(p publisher.Publisher) *Runner {
	r.publisher = p
	return r
}

// Run performs the full cycle: settle and extract the live page, load
// the prior snapshot, report, persist, diff, publish and rotate. The
// previous generation is read before anything is written; otherwise
// the diff would compare the new snapshot against itself.
func (r *Runner) Run(ctx context.Context) error {
	if r.blocked() {
		r.log.Info().Str("key", r.cfg.BlockKey).Msg("Previous run is still inside the block window, skipping")
		return nil
	}

	start := time.Now()
	offers, err := r.scraper.FetchOffers(ctx)
	if err != nil {
		return err
	}
	r.log.Info().
		Int("count", len(offers)).
		Dur("elapsed", time.Since(start)).
		Msg("Extraction complete")

	r.reporter.PrintTable(offers)

	previous := r.store.LoadPrevious()

	if err := r.store.SaveLatest(offers); err != nil {
		return err
	}
	r.reporter.PrintSaved(len(offers), r.store.LatestPath(), r.store.CSVPath())

	changes := snapshot.Diff(previous, offers)
	r.reporter.PrintChanges(changes)
	r.log.Info().
		Int("added", len(changes.Added)).
		Int("removed", len(changes.Removed)).
		Msg("Change detection complete")

	if r.publisher != nil && !changes.Empty() {
		r.publishChanges(changes)
	}

	if err := r.store.RotatePrevious(offers); err != nil {
		return err
	}

	r.block()
	return nil
}

// blocked reports whether the optional run-frequency guard is active
func (r *Runner) blocked() bool {
	if r.cache == nil || r.cfg.BlockKey == "" {
		return false
	}
	_, err := r.cache.Get(r.cfg.BlockKey)
	return err == nil
}

// block arms the guard for the configured window after a completed run
func (r *Runner) block() {
	if r.cache == nil || r.cfg.BlockKey == "" || r.cfg.BlockTime <= 0 {
		return
	}
	if err := r.cache.Set(r.cfg.BlockKey, []byte("1"), r.cfg.BlockTime); err != nil {
		r.log.Warn().Err(err).Msg("Failed to arm the run block key")
	}
}

// publishChanges emits one event per added and removed offer. Publish
// failures are logged, not fatal; the snapshot is already persisted.
func (r *Runner) publishChanges(changes snapshot.Changes) {
	emit := func(kind string, o scraper.Offer) {
		payload, err := json.Marshal(o)
		if err != nil {
			r.log.Error().Err(err).Msg("Failed to encode change event")
			return
		}
		if err := r.publisher.Publish(kind, payload); err != nil {
			r.log.Error().Err(err).Str("kind", kind).Str("brand", o.Brand).Msg("Failed to publish change event")
		}
	}

	for _, o := range changes.Added {
		emit("added", o)
	}
	for _, o := range changes.Removed {
		emit("removed", o)
	}

	if err := r.publisher.TrimStreams(); err != nil {
		r.log.Warn().Err(err).Msg("Failed to trim the change stream")
	}
}
