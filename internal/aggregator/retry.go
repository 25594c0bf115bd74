package aggregator

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"cryptoVolumeAlert/internal/ports"
)

// tickerAttempts is the total number of times the universe fetch is tried
// before the round is aborted.
const tickerAttempts = 3

// linearBackOff waits attempt*step between tries (1s, 2s, ...), matching the
// upstream API's guidance for transient failures.
type linearBackOff struct {
	step    time.Duration
	attempt int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return time.Duration(b.attempt) * b.step
}

func (b *linearBackOff) Reset() {
	b.attempt = 0
}

// listTickersWithRetry fetches the instrument universe, retrying with a
// linearly increasing delay. Exhausting the attempts propagates the final
// error to the caller.
func (a *Aggregator) listTickersWithRetry(ctx context.Context) ([]ports.Ticker, error) {
	var tickers []ports.Ticker

	operation := func() error {
		var err error
		tickers, err = a.market.ListTickers(ctx)
		if err != nil {
			a.logger.Warn(ctx, "Ticker fetch failed, will retry", map[string]interface{}{"error": err.Error()})
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{step: a.retryStep}, tickerAttempts-1),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return tickers, nil
}
