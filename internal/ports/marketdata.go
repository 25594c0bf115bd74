package ports

import (
	"context"

	"cryptoVolumeAlert/internal/domain"
)

// Ticker holds the subset of an instrument's 24-hour rolling statistics the
// monitor cares about when discovering the tradable universe.
type Ticker struct {
	Symbol      string  // Trading symbol (e.g., "BTCUSDT")
	LastPrice   float64 // Most recent traded price
	QuoteVolume float64 // 24-hour traded volume in the quote asset
}

// MarketDataClient defines the read-only interface for retrieving public
// market data from an exchange. This abstraction decouples the monitoring
// pipeline from the specific exchange implementation.
type MarketDataClient interface {
	// ListTickers retrieves the 24-hour rolling statistics for every
	// tradable instrument on the exchange.
	ListTickers(ctx context.Context) ([]Ticker, error)

	// GetKlines retrieves the most recent klines/candlestick data for the
	// given symbol and interval, ordered by open time ascending. The last
	// element is the in-progress (unclosed) candle.
	GetKlines(ctx context.Context, symbol string, interval string, limit int) ([]*domain.Kline, error)
}
