package usecase

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"METI/internal/domain/models"
	domrepo "METI/internal/domain/repository"
	"METI/internal/services/scoring"
	applogger "METI/pkg/logger"
)

// ErrRefreshUnsupported is returned by Refresh when the provider keeps no cache.
var ErrRefreshUnsupported = errors.New("provider has no cache to refresh")

// TensionIndexUseCase gathers a market snapshot, scores it and fans the
// result out to metrics and downstream consumers. Provider failures never
// fail a computation: they become neutralised observations.
type TensionIndexUseCase struct {
	catalog   *scoring.Catalog
	provider  domrepo.MarketDataProvider
	metrics   domrepo.Metrics
	publisher domrepo.IndexPublisher
	log       *applogger.Logger
	parallel  int
	timeout   time.Duration
	now       func() time.Time
}

type Option func(*TensionIndexUseCase)

func WithLogger(l *applogger.Logger) Option {
	return func(uc *TensionIndexUseCase) { uc.log = l }
}

// WithPublisher enables index events; nil disables them.
func WithPublisher(p domrepo.IndexPublisher) Option {
	return func(uc *TensionIndexUseCase) { uc.publisher = p }
}

// WithParallelism bounds concurrent provider fetches.
func WithParallelism(n int) Option {
	return func(uc *TensionIndexUseCase) {
		if n > 0 {
			uc.parallel = n
		}
	}
}

// WithFetchTimeout bounds the whole snapshot; instruments not back in time
// are neutralised.
func WithFetchTimeout(d time.Duration) Option {
	return func(uc *TensionIndexUseCase) { uc.timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(uc *TensionIndexUseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

func NewTensionIndexUseCase(catalog *scoring.Catalog, provider domrepo.MarketDataProvider, metrics domrepo.Metrics, opts ...Option) *TensionIndexUseCase {
	if catalog == nil {
		catalog = scoring.DefaultCatalog()
	}
	uc := &TensionIndexUseCase{
		catalog:  catalog,
		provider: provider,
		metrics:  metrics,
		log:      applogger.Nop(),
		parallel: 6,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.log == nil {
		uc.log = applogger.Nop()
	}
	return uc
}

// Compute scores the current market snapshot together with geo.
// It only fails if ctx is cancelled.
func (uc *TensionIndexUseCase) Compute(ctx context.Context, geo models.GeoInputs, tf models.Timeframe) (*models.TensionIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := uc.now()

	obs := uc.Snapshot(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx := scoring.ComputeIndex(uc.catalog, obs, geo,
		scoring.WithDisplayTimeframe(tf),
		scoring.WithTimestamp(uc.now()),
	)

	uc.record(&idx, uc.now().Sub(start))
	uc.publish(ctx, &idx)

	return &idx, nil
}

// Snapshot fetches every catalog instrument. The returned map always has
// one entry per instrument; failed fetches carry per-timeframe errors.
func (uc *TensionIndexUseCase) Snapshot(ctx context.Context) map[string]models.AssetObservation {
	fetchCtx := ctx
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	symbols := uc.catalog.Symbols()
	tfs := uc.catalog.TimeframeKeys()
	results := make([]models.AssetObservation, len(symbols))

	g, gctx := errgroup.WithContext(fetchCtx)
	g.SetLimit(uc.parallel)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			results[i] = uc.fetch(gctx, symbol, tfs)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]models.AssetObservation, len(symbols))
	for _, o := range results {
		out[o.Symbol] = o
	}
	return out
}

func (uc *TensionIndexUseCase) fetch(ctx context.Context, symbol string, tfs []models.Timeframe) models.AssetObservation {
	obs, err := uc.provider.Fetch(ctx, symbol)
	if err != nil {
		uc.log.Warn("market fetch failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		uc.recordError("fetch")
		return models.FailedObservation(symbol, tfs, err)
	}
	obs.Symbol = symbol

	for _, tf := range tfs {
		if reason, failed := obs.Errors[tf]; failed {
			uc.log.Warn("timeframe unavailable",
				applogger.String("symbol", symbol),
				applogger.String("timeframe", string(tf)),
				applogger.String("error", reason),
			)
		}
	}
	return obs
}

func (uc *TensionIndexUseCase) record(idx *models.TensionIndex, took time.Duration) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.RecordIndex(idx.Final, idx.MarketScore, idx.GeoScore, idx.Level.String())
	for _, n := range idx.Neutralized {
		uc.metrics.RecordNeutralized(n.Symbol, string(n.Timeframe))
	}
	for _, a := range idx.Assets {
		if a.Price > 0 {
			uc.metrics.RecordLastPrice(a.Symbol, a.Price)
		}
	}
	uc.metrics.RecordLatency("compute_index", took.Seconds())
}

func (uc *TensionIndexUseCase) recordError(kind string) {
	if uc.metrics != nil {
		uc.metrics.RecordError(kind)
	}
}

func (uc *TensionIndexUseCase) publish(ctx context.Context, idx *models.TensionIndex) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.PublishIndex(ctx, idx); err != nil {
		uc.log.Warn("publish index failed", applogger.Error(err))
		uc.recordError("publish")
	}
}

// Refresh drops cached observations so the next Compute refetches.
func (uc *TensionIndexUseCase) Refresh(ctx context.Context) error {
	inv, ok := uc.provider.(domrepo.Invalidator)
	if !ok {
		return ErrRefreshUnsupported
	}
	if err := inv.Invalidate(ctx); err != nil {
		uc.recordError("refresh")
		return err
	}
	uc.log.Info("market cache invalidated")
	return nil
}

// Instruments lists the catalog in display order.
func (uc *TensionIndexUseCase) Instruments() []models.Instrument {
	return uc.catalog.Instruments()
}

// Catalog exposes the scoring configuration.
func (uc *TensionIndexUseCase) Catalog() *scoring.Catalog { return uc.catalog }
