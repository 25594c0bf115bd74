package domain

import "time"

// Kline represents a single candlestick data point.
// Klines are immutable once fetched and are always handled in ascending
// open-time order.
type Kline struct {
	OpenTime    time.Time // Start time of the interval
	CloseTime   time.Time // End time of the interval
	Symbol      string    // Trading symbol
	Interval    string    // Kline interval (e.g., "5m", "1h")
	Open        float64   // Opening price
	High        float64   // Highest price
	Low         float64   // Lowest price
	Close       float64   // Closing price
	Volume      float64   // Traded volume in the base asset
	QuoteVolume float64   // Traded volume in the quote asset
}
