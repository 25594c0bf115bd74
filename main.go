package main

import (
	"context"
	"fmt"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"net/http"
	"net/url"

	"cryptoVolumeAlert/config"
	"cryptoVolumeAlert/internal/adapters/binanceclient"
	"cryptoVolumeAlert/internal/adapters/logger"
	"cryptoVolumeAlert/internal/adapters/telegram"
	"cryptoVolumeAlert/internal/aggregator"
	"cryptoVolumeAlert/internal/app"
	"cryptoVolumeAlert/internal/gate"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.New(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Build the shared HTTP client (optionally routed through a proxy)
	httpClient, err := buildHTTPClient(cfg)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to build HTTP client")
		log.Fatalf("FATAL: Failed to build HTTP client: %v", err)
	}
	if cfg.UseProxy {
		appLogger.Info(context.Background(), "Outbound proxy enabled", map[string]interface{}{
			"host": cfg.ProxyHost, "port": cfg.ProxyPort,
		})
	}

	// 4. Initialize Market Data Client (Binance Adapter)
	binanceClient, err := binanceclient.New(binanceclient.Config{
		Logger:     appLogger.Component("binance"),
		HTTPClient: httpClient,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}
	appLogger.Info(context.Background(), "Binance client initialized")

	// 5. Initialize Notifier (Telegram Adapter)
	telegramClient, err := telegram.New(telegram.Config{
		BotToken:   cfg.TelegramBotToken,
		ChatID:     cfg.TelegramChatID,
		Logger:     appLogger.Component("telegram"),
		HTTPClient: httpClient,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Telegram client")
		log.Fatalf("FATAL: Failed to initialize Telegram client: %v", err)
	}
	appLogger.Info(context.Background(), "Telegram client initialized")

	if cfg.SendTestMessage {
		if err := telegramClient.SendTestMessage(context.Background()); err != nil {
			appLogger.Error(context.Background(), err, "FATAL: Telegram test message failed")
			log.Fatalf("FATAL: Telegram test message failed: %v", err)
		}
		appLogger.Info(context.Background(), "Telegram test message sent")
	}

	// 6. Initialize Aggregator
	agg, err := aggregator.New(binanceClient, appLogger.Component("aggregator"), aggregator.Config{
		QuoteAsset:     cfg.QuoteAsset,
		BatchSize:      cfg.BatchSize,
		BatchPause:     cfg.BatchPause,
		RequestsPerSec: cfg.RequestsPerSec,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize aggregator")
		log.Fatalf("FATAL: Failed to initialize aggregator: %v", err)
	}

	// 7. Initialize Notification Gate
	alertGate, err := gate.New(telegramClient, appLogger)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize notification gate")
		log.Fatalf("FATAL: Failed to initialize notification gate: %v", err)
	}

	// 8. Initialize Application Service
	monitorService, err := app.NewMonitorService(appLogger, agg, alertGate, cfg.Timeframes)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize monitor service")
		log.Fatalf("FATAL: Failed to initialize monitor service: %v", err)
	}
	appLogger.Info(context.Background(), "Monitor service initialized")

	// 9. Start the Service
	if err := monitorService.Start(context.Background()); err != nil {
		appLogger.Error(context.Background(), err, "Monitor service exited with error")
		log.Fatalf("FATAL: Monitor service exited with error: %v", err)
	}

	appLogger.Info(context.Background(), "Application finished gracefully.")
}

// buildHTTPClient returns the HTTP client shared by the exchange and Telegram
// adapters, routed through the configured proxy when enabled.
func buildHTTPClient(cfg *config.Config) (*http.Client, error) {
	client := &http.Client{Timeout: cfg.RequestTimeout}
	if !cfg.UseProxy {
		return client, nil
	}

	proxyURL, err := url.Parse(fmt.Sprintf("http://%s:%d", cfg.ProxyHost, cfg.ProxyPort))
	if err != nil {
		return nil, fmt.Errorf("parsing proxy address: %w", err)
	}
	client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	return client, nil
}
