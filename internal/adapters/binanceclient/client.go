package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cryptoVolumeAlert/internal/domain"
	"cryptoVolumeAlert/internal/ports"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
)

const baseURLProduction = "https://fapi.binance.com"

// Client implements the ports.MarketDataClient interface using the
// go-binance library against the public USDT-M futures endpoints. No API
// credentials are required for read-only market data.
type Client struct {
	futuresClient *futures.Client
	logger        ports.Logger
}

// Config holds configuration specific to the Binance client adapter.
type Config struct {
	Logger ports.Logger
	// HTTPClient optionally replaces the default transport, e.g. to route
	// all requests through an outbound proxy. Nil uses the library default.
	HTTPClient *http.Client
}

// New creates a new Binance market data adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}

	client := futures.NewClient("", "")
	client.BaseURL = baseURLProduction
	if cfg.HTTPClient != nil {
		client.HTTPClient = cfg.HTTPClient
	}

	return &Client{
		futuresClient: client,
		logger:        cfg.Logger,
	}, nil
}

// handleError translates common Binance API errors into standardized ports errors.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		var mappedErr error
		switch apiErr.Code {
		case -1003: // Too many requests
			mappedErr = ports.ErrRateLimited
		case -1021: // Timestamp for this request is outside of the recvWindow
			mappedErr = ports.ErrTimeout
		case -1100, -1101, -1102, -1103, -1104, -1105, -1106, -1111, -1115, -1116, -1120, -1121: // Parameter/Request format errors
			mappedErr = ports.ErrInvalidRequest
		default:
			mappedErr = ports.ErrUnknown
		}
		finalErr := fmt.Errorf("%s failed: %w: %w", operation, mappedErr, err)
		c.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return finalErr
	}

	// Handle non-API errors (network, context cancellation, etc.)
	var finalErr error
	if errors.Is(err, context.DeadlineExceeded) {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	} else if errors.Is(err, context.Canceled) {
		finalErr = fmt.Errorf("%s operation canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	} else if strings.Contains(err.Error(), "use of closed network connection") ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "connection reset by peer") {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrConnectionFailed, err)
	} else {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrUnknown, err)
	}

	c.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return finalErr
}

// ListTickers retrieves the 24-hour rolling statistics for every tradable
// instrument. Tickers whose numeric fields fail to parse are skipped with a
// warning rather than failing the whole universe fetch.
func (c *Client) ListTickers(ctx context.Context) ([]ports.Ticker, error) {
	op := "ListTickers"
	stats, err := c.futuresClient.NewListPriceChangeStatsService().Do(ctx)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	tickers := make([]ports.Ticker, 0, len(stats))
	for _, st := range stats {
		lastPrice, err := strconv.ParseFloat(st.LastPrice, 64)
		if err != nil {
			c.logger.Warn(ctx, "Skipping ticker with unparseable last price",
				map[string]interface{}{"symbol": st.Symbol, "lastPrice": st.LastPrice})
			continue
		}
		quoteVolume, err := strconv.ParseFloat(st.QuoteVolume, 64)
		if err != nil {
			c.logger.Warn(ctx, "Skipping ticker with unparseable quote volume",
				map[string]interface{}{"symbol": st.Symbol, "quoteVolume": st.QuoteVolume})
			continue
		}
		tickers = append(tickers, ports.Ticker{
			Symbol:      st.Symbol,
			LastPrice:   lastPrice,
			QuoteVolume: quoteVolume,
		})
	}

	c.logger.Debug(ctx, "Fetched instrument tickers", map[string]interface{}{"count": len(tickers)})
	return tickers, nil
}

// GetKlines retrieves the most recent klines for the given symbol and
// interval, ordered by open time ascending. The last returned element is the
// in-progress candle.
func (c *Client) GetKlines(ctx context.Context, symbol string, interval string, limit int) ([]*domain.Kline, error) {
	op := "GetKlines"
	binanceKlines, err := c.futuresClient.NewKlinesService().Symbol(symbol).Interval(interval).Limit(limit).Do(ctx)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	domainKlines := make([]*domain.Kline, 0, len(binanceKlines))
	for _, bk := range binanceKlines {
		dk, err := translateBinanceKline(bk, symbol, interval)
		if err != nil {
			return nil, c.handleError(ctx, fmt.Errorf("failed to translate kline: %w", err), op)
		}
		domainKlines = append(domainKlines, dk)
	}

	return domainKlines, nil
}

// translateBinanceKline converts the library's kline representation (all
// numeric fields are strings) into the domain type.
func translateBinanceKline(bk *futures.Kline, symbol, interval string) (*domain.Kline, error) {
	if bk == nil {
		return nil, errors.New("received nil kline")
	}
	open, err := strconv.ParseFloat(bk.Open, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing open price '%s': %w", bk.Open, err)
	}
	high, err := strconv.ParseFloat(bk.High, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing high price '%s': %w", bk.High, err)
	}
	low, err := strconv.ParseFloat(bk.Low, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing low price '%s': %w", bk.Low, err)
	}
	cls, err := strconv.ParseFloat(bk.Close, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing close price '%s': %w", bk.Close, err)
	}
	vol, err := strconv.ParseFloat(bk.Volume, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing volume '%s': %w", bk.Volume, err)
	}
	quoteVol, err := strconv.ParseFloat(bk.QuoteAssetVolume, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing quote volume '%s': %w", bk.QuoteAssetVolume, err)
	}

	return &domain.Kline{
		OpenTime:    time.UnixMilli(bk.OpenTime),
		CloseTime:   time.UnixMilli(bk.CloseTime),
		Symbol:      symbol,
		Interval:    interval,
		Open:        open,
		High:        high,
		Low:         low,
		Close:       cls,
		Volume:      vol,
		QuoteVolume: quoteVol,
	}, nil
}
