// Command scan performs a single check round for one timeframe and prints
// the ranked anomalies to stdout instead of dispatching notifications.
// Useful for tuning thresholds before running the monitor.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"cryptoVolumeAlert/config"
	"cryptoVolumeAlert/internal/adapters/binanceclient"
	"cryptoVolumeAlert/internal/adapters/logger"
	"cryptoVolumeAlert/internal/aggregator"
	"cryptoVolumeAlert/internal/classifier"
	"cryptoVolumeAlert/internal/domain"
)

func main() {
	interval := flag.String("interval", "5m", "timeframe to scan (5m, 15m, 1h, 4h, 1d)")
	limit := flag.Int("top", 20, "number of ranked candidates to print")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.LogLevel)

	var tf domain.TimeframeConfig
	found := false
	for _, candidate := range cfg.Timeframes {
		if candidate.Interval == *interval {
			tf = candidate
			found = true
			break
		}
	}
	if !found {
		log.Fatalf("FATAL: unknown timeframe %q", *interval)
	}

	binanceClient, err := binanceclient.New(binanceclient.Config{Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}

	agg, err := aggregator.New(binanceClient, appLogger, aggregator.Config{
		QuoteAsset:     cfg.QuoteAsset,
		BatchSize:      cfg.BatchSize,
		BatchPause:     cfg.BatchPause,
		RequestsPerSec: cfg.RequestsPerSec,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize aggregator: %v", err)
	}

	ctx := context.Background()
	snapshots, err := agg.FetchSnapshots(ctx, tf)
	if err != nil {
		log.Fatalf("FATAL: Scan failed: %v", err)
	}

	candidates := make([]domain.AlertCandidate, 0)
	for _, snap := range snapshots {
		if cand, ok := classifier.Classify(snap, tf); ok {
			candidates = append(candidates, cand)
		}
	}
	classifier.Rank(candidates)

	fmt.Printf("Scanned %d instruments on %s, %d candidates above the %.2f%% threshold\n\n",
		len(snapshots), tf.Interval, len(candidates), tf.PriceThreshold)
	fmt.Printf("%-4s %-14s %9s %9s %9s %-10s\n", "#", "SYMBOL", "CHANGE%", "STRENGTH", "VOLxMED", "TIER")
	for i, cand := range candidates {
		if i >= *limit {
			break
		}
		fmt.Printf("%-4d %-14s %9.2f %9.2f %9.2f %-10s\n",
			i+1, cand.Snapshot.Symbol, cand.PriceChange, cand.Strength,
			cand.Snapshot.VolumeMultiplier, string(cand.Tier))
	}
}
