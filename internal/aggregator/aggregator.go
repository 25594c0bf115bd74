// Package aggregator retrieves the tradable-instrument universe and reduces
// each instrument's candle history into a per-timeframe snapshot, throttling
// upstream requests to respect the exchange's rate limits.
package aggregator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"cryptoVolumeAlert/internal/domain"
	"cryptoVolumeAlert/internal/indicators"
	"cryptoVolumeAlert/internal/ports"
)

const (
	// Indicator parameters applied to every timeframe's closed candles.
	rsiPeriod     = 14
	emaFastPeriod = 7
	emaSlowPeriod = 25
	atrPeriod     = 14
	srLookback    = 20 // closed candles scanned for recent support/resistance

	// klineLimitMargin covers the in-progress candle plus headroom so the
	// longest statistic window is always fully populated.
	klineLimitMargin = 7
)

// Config holds aggregator tuning parameters.
type Config struct {
	QuoteAsset     string        // Quote currency filter for the universe (e.g., "USDT")
	BatchSize      int           // Instruments fetched concurrently per batch
	BatchPause     time.Duration // Pause between batches
	RequestsPerSec int           // Upstream request budget per second
}

// Aggregator fetches and reduces market data for one check round at a time.
// It holds no per-round state and is safe for concurrent use by multiple
// timeframe schedulers.
type Aggregator struct {
	market    ports.MarketDataClient
	logger    ports.Logger
	cfg       Config
	limiter   *rate.Limiter
	retryStep time.Duration // base delay of the linear ticker retry
}

// New creates a new aggregator instance.
func New(market ports.MarketDataClient, logger ports.Logger, cfg Config) (*Aggregator, error) {
	if market == nil || logger == nil {
		return nil, fmt.Errorf("missing required dependencies for Aggregator")
	}
	if cfg.QuoteAsset == "" {
		cfg.QuoteAsset = "USDT"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.BatchPause <= 0 {
		cfg.BatchPause = time.Second
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 20
	}

	return &Aggregator{
		market:    market,
		logger:    logger,
		cfg:       cfg,
		limiter:   rate.NewLimiter(rate.Every(time.Second/time.Duration(cfg.RequestsPerSec)), cfg.RequestsPerSec),
		retryStep: time.Second,
	}, nil
}

// FetchSnapshots retrieves the instrument universe and reduces each
// instrument's candle history into a snapshot for the given timeframe.
// Per-instrument failures are logged and skipped; only a universe fetch that
// exhausts its retries aborts the round.
func (a *Aggregator) FetchSnapshots(ctx context.Context, tf domain.TimeframeConfig) ([]domain.InstrumentSnapshot, error) {
	tickers, err := a.listTickersWithRetry(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching instrument universe: %w", err)
	}

	symbols := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if strings.HasSuffix(t.Symbol, a.cfg.QuoteAsset) {
			symbols = append(symbols, t.Symbol)
		}
	}
	a.logger.Debug(ctx, "Instrument universe resolved", map[string]interface{}{
		"interval": tf.Interval, "total": len(tickers), "filtered": len(symbols), "quoteAsset": a.cfg.QuoteAsset,
	})

	limit := klineLimit(tf)
	snapshots := make([]domain.InstrumentSnapshot, 0, len(symbols))
	var mu sync.Mutex

	batches := partition(symbols, a.cfg.BatchSize)
	for i, batch := range batches {
		var wg sync.WaitGroup
		for _, symbol := range batch {
			wg.Add(1)
			go func(symbol string) {
				defer wg.Done()
				if err := a.limiter.Wait(ctx); err != nil {
					return
				}
				snap, err := a.fetchSnapshot(ctx, symbol, tf, limit)
				if err != nil {
					a.logger.Warn(ctx, "Skipping instrument after kline fetch failure", map[string]interface{}{
						"symbol": symbol, "interval": tf.Interval, "error": err.Error(),
					})
					return
				}
				mu.Lock()
				snapshots = append(snapshots, *snap)
				mu.Unlock()
			}(symbol)
		}
		wg.Wait()

		if i < len(batches)-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(a.cfg.BatchPause):
			}
		}
	}

	a.logger.Debug(ctx, "Snapshot reduction complete", map[string]interface{}{
		"interval": tf.Interval, "snapshots": len(snapshots),
	})
	return snapshots, nil
}

func (a *Aggregator) fetchSnapshot(ctx context.Context, symbol string, tf domain.TimeframeConfig, limit int) (*domain.InstrumentSnapshot, error) {
	klines, err := a.market.GetKlines(ctx, symbol, tf.Interval, limit)
	if err != nil {
		return nil, err
	}
	return reduce(symbol, tf, klines)
}

// klineLimit returns the candle count requested per instrument: enough to
// cover the longer of the averaging and median windows, the current closed
// candle, and the in-progress candle.
func klineLimit(tf domain.TimeframeConfig) int {
	n := tf.HistoryPeriods
	if tf.VolumeMedianPeriods > n {
		n = tf.VolumeMedianPeriods
	}
	return n + klineLimitMargin
}

// reduce folds an ordered kline sequence into an instrument snapshot.
//
// The last returned kline is the in-progress candle and is excluded from all
// statistics; the one before it is the "current" (most recently closed)
// candle the snapshot describes. The averaging and median windows cover the
// candles immediately preceding the current one.
func reduce(symbol string, tf domain.TimeframeConfig, klines []*domain.Kline) (*domain.InstrumentSnapshot, error) {
	minRequired := tf.HistoryPeriods
	if tf.VolumeMedianPeriods > minRequired {
		minRequired = tf.VolumeMedianPeriods
	}
	if len(klines) < minRequired+2 {
		return nil, fmt.Errorf("not enough klines for %s %s: need %d, got %d",
			symbol, tf.Interval, minRequired+2, len(klines))
	}

	closed := klines[:len(klines)-1]
	current := closed[len(closed)-1]

	histStart := len(closed) - 1 - tf.HistoryPeriods
	histVolumes := volumes(closed[histStart : len(closed)-1])

	medianStart := len(closed) - 1 - tf.VolumeMedianPeriods
	medianVolume := indicators.Median(volumes(closed[medianStart : len(closed)-1]))

	multiplier := 0.0
	if medianVolume > 0 {
		multiplier = current.Volume / medianVolume
	}

	emaFast := indicators.EMA(closed, emaFastPeriod)
	emaSlow := indicators.EMA(closed, emaSlowPeriod)

	return &domain.InstrumentSnapshot{
		Symbol:           symbol,
		Interval:         tf.Interval,
		OpenPrice:        current.Open,
		ClosePrice:       current.Close,
		Volume:           current.Volume,
		QuoteVolume:      current.QuoteVolume,
		CloseTime:        current.CloseTime,
		AvgVolume:        indicators.Mean(histVolumes),
		MedianVolume:     medianVolume,
		VolumeMultiplier: multiplier,

		HasIndicators: true,
		RSI:           indicators.RSI(closed, rsiPeriod),
		EMAFast:       emaFast,
		EMASlow:       emaSlow,
		ATR:           indicators.ATR(closed, atrPeriod),
		TrendUp:       emaFast > emaSlow,
		Resistance:    indicators.HighestHigh(closed, srLookback),
		Support:       indicators.LowestLow(closed, srLookback),
	}, nil
}

func volumes(klines []*domain.Kline) []float64 {
	out := make([]float64, 0, len(klines))
	for _, k := range klines {
		out = append(out, k.Volume)
	}
	return out
}

func partition(symbols []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(symbols); start += size {
		end := start + size
		if end > len(symbols) {
			end = len(symbols)
		}
		batches = append(batches, symbols[start:end])
	}
	return batches
}
