package aggregator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoVolumeAlert/internal/domain"
	"cryptoVolumeAlert/internal/ports"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (nopLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (nopLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (nopLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

type mockMarket struct {
	tickers        []ports.Ticker
	tickerErrs     []error // consumed per ListTickers call; nil entry means success
	tickerCalls    int
	klinesBySymbol map[string][]*domain.Kline
	klineErrs      map[string]error
}

func (m *mockMarket) ListTickers(ctx context.Context) ([]ports.Ticker, error) {
	call := m.tickerCalls
	m.tickerCalls++
	if call < len(m.tickerErrs) && m.tickerErrs[call] != nil {
		return nil, m.tickerErrs[call]
	}
	return m.tickers, nil
}

func (m *mockMarket) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Kline, error) {
	if err, ok := m.klineErrs[symbol]; ok {
		return nil, err
	}
	return m.klinesBySymbol[symbol], nil
}

// testKlines builds len(vols)+1 klines: one closed candle per volume followed
// by an in-progress candle, with monotonically rising closes.
func testKlines(vols ...float64) []*domain.Kline {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	klines := make([]*domain.Kline, 0, len(vols)+1)
	for i, v := range vols {
		open := 100.0 + float64(i)
		klines = append(klines, &domain.Kline{
			OpenTime:    base.Add(time.Duration(i) * 5 * time.Minute),
			CloseTime:   base.Add(time.Duration(i+1)*5*time.Minute - time.Millisecond),
			Open:        open,
			High:        open + 2,
			Low:         open - 1,
			Close:       open + 1,
			Volume:      v,
			QuoteVolume: v * open,
		})
	}
	// in-progress candle, excluded from every statistic
	klines = append(klines, &domain.Kline{
		OpenTime: base.Add(time.Duration(len(vols)) * 5 * time.Minute),
		Open:     200, High: 300, Low: 100, Close: 250, Volume: 99999,
	})
	return klines
}

func testTimeframe() domain.TimeframeConfig {
	return domain.TimeframeConfig{
		Interval:            "5m",
		Enabled:             true,
		PriceThreshold:      2.0,
		VolumeThreshold:     2.0,
		MinQuoteVolume:      100,
		ScheduleOffset:      3 * time.Second,
		HistoryPeriods:      6,
		VolumeMedianPeriods: 6,
		Cooldown:            5 * time.Minute,
	}
}

func TestReduce_ReferenceScenario(t *testing.T) {
	// Historical volumes [100..600], current closed volume 2100: the
	// baseline average and median are both 350 and the multiplier is 6.0.
	klines := testKlines(100, 200, 300, 400, 500, 600, 2100)

	snap, err := reduce("BTCUSDT", testTimeframe(), klines)
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", snap.Symbol)
	assert.Equal(t, "5m", snap.Interval)
	assert.InDelta(t, 350.0, snap.AvgVolume, 0.0001)
	assert.InDelta(t, 350.0, snap.MedianVolume, 0.0001)
	assert.InDelta(t, 6.0, snap.VolumeMultiplier, 0.0001)

	// The snapshot describes the second-to-last kline, never the
	// in-progress one.
	assert.InDelta(t, 106.0, snap.OpenPrice, 0.0001)
	assert.InDelta(t, 107.0, snap.ClosePrice, 0.0001)
	assert.InDelta(t, 2100.0, snap.Volume, 0.0001)
	assert.True(t, snap.HasIndicators)
}

func TestReduce_InsufficientKlines(t *testing.T) {
	klines := testKlines(100, 200, 300)

	_, err := reduce("BTCUSDT", testTimeframe(), klines)
	assert.Error(t, err)
}

func TestKlineLimit(t *testing.T) {
	tf := testTimeframe()
	tf.HistoryPeriods = 6
	tf.VolumeMedianPeriods = 20
	assert.Equal(t, 20+klineLimitMargin, klineLimit(tf))

	tf.VolumeMedianPeriods = 4
	assert.Equal(t, 6+klineLimitMargin, klineLimit(tf))
}

func TestFetchSnapshots_SkipsFailingInstrument(t *testing.T) {
	klines := testKlines(100, 200, 300, 400, 500, 600, 2100)
	market := &mockMarket{
		tickers: []ports.Ticker{
			{Symbol: "BTCUSDT", LastPrice: 107, QuoteVolume: 1e9},
			{Symbol: "ETHUSDT", LastPrice: 50, QuoteVolume: 1e8},
			{Symbol: "ETHBTC", LastPrice: 0.05, QuoteVolume: 1e7}, // wrong quote asset
		},
		klinesBySymbol: map[string][]*domain.Kline{
			"BTCUSDT": klines,
			"ETHUSDT": klines,
		},
		klineErrs: map[string]error{
			"ETHUSDT": errors.New("upstream timeout"),
		},
	}

	agg, err := New(market, nopLogger{}, Config{BatchSize: 50, BatchPause: time.Millisecond, RequestsPerSec: 1000})
	require.NoError(t, err)

	snaps, err := agg.FetchSnapshots(context.Background(), testTimeframe())
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "BTCUSDT", snaps[0].Symbol)
}

func TestFetchSnapshots_BatchesAreSequential(t *testing.T) {
	// 3 instruments with batch size 2 -> two batches, all snapshots present.
	klines := testKlines(100, 200, 300, 400, 500, 600, 2100)
	bySymbol := make(map[string][]*domain.Kline)
	var tickers []ports.Ticker
	for i := 0; i < 3; i++ {
		sym := fmt.Sprintf("COIN%dUSDT", i)
		bySymbol[sym] = klines
		tickers = append(tickers, ports.Ticker{Symbol: sym, LastPrice: 1, QuoteVolume: 1})
	}
	market := &mockMarket{tickers: tickers, klinesBySymbol: bySymbol}

	agg, err := New(market, nopLogger{}, Config{BatchSize: 2, BatchPause: time.Millisecond, RequestsPerSec: 1000})
	require.NoError(t, err)

	snaps, err := agg.FetchSnapshots(context.Background(), testTimeframe())
	require.NoError(t, err)
	assert.Len(t, snaps, 3)
}

func TestListTickersWithRetry_SucceedsOnThirdAttempt(t *testing.T) {
	market := &mockMarket{
		tickers:    []ports.Ticker{{Symbol: "BTCUSDT"}},
		tickerErrs: []error{errors.New("boom"), errors.New("boom"), nil},
	}
	agg, err := New(market, nopLogger{}, Config{})
	require.NoError(t, err)
	agg.retryStep = time.Millisecond

	tickers, err := agg.listTickersWithRetry(context.Background())
	require.NoError(t, err)
	assert.Len(t, tickers, 1)
	assert.Equal(t, 3, market.tickerCalls)
}

func TestListTickersWithRetry_ExhaustsRetries(t *testing.T) {
	finalErr := errors.New("still down")
	market := &mockMarket{
		tickerErrs: []error{errors.New("boom"), errors.New("boom"), finalErr},
	}
	agg, err := New(market, nopLogger{}, Config{})
	require.NoError(t, err)
	agg.retryStep = time.Millisecond

	_, err = agg.listTickersWithRetry(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, finalErr)
	assert.Equal(t, 3, market.tickerCalls)
}
