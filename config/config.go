package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"cryptoVolumeAlert/internal/adapters/logger"
	"cryptoVolumeAlert/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	// Telegram
	TelegramBotToken string
	TelegramChatID   int64
	SendTestMessage  bool // Send a startup message to verify the bot wiring

	// Outbound proxy (applies to both the exchange and Telegram clients)
	UseProxy  bool
	ProxyHost string
	ProxyPort int

	// Market data
	QuoteAsset     string
	BatchSize      int           // Instruments fetched concurrently per batch
	BatchPause     time.Duration // Pause between batches
	RequestTimeout time.Duration // Per-request HTTP timeout
	RequestsPerSec int           // Upstream request budget per second

	// Per-timeframe monitoring parameters
	Timeframes []domain.TimeframeConfig

	// Logging
	LogLevel logger.LogLevel
}

// timeframeDefault carries the built-in parameters for one interval; every
// field can be overridden per interval through env vars suffixed with the
// interval name (PRICE_THRESHOLD_5M, ENABLE_4H, ...).
type timeframeDefault struct {
	interval        string
	suffix          string
	priceThreshold  float64 // percent
	volumeThreshold float64
	minQuoteVolume  float64
	offsetSeconds   int
	cooldownMinutes int
}

var timeframeDefaults = []timeframeDefault{
	{interval: "5m", suffix: "5M", priceThreshold: 2.0, volumeThreshold: 2.0, minQuoteVolume: 100_000, offsetSeconds: 3, cooldownMinutes: 5},
	{interval: "15m", suffix: "15M", priceThreshold: 3.0, volumeThreshold: 2.5, minQuoteVolume: 300_000, offsetSeconds: 10, cooldownMinutes: 5},
	{interval: "1h", suffix: "1H", priceThreshold: 4.0, volumeThreshold: 3.0, minQuoteVolume: 1_000_000, offsetSeconds: 30, cooldownMinutes: 15},
	{interval: "4h", suffix: "4H", priceThreshold: 5.5, volumeThreshold: 4.0, minQuoteVolume: 5_000_000, offsetSeconds: 120, cooldownMinutes: 30},
	{interval: "1d", suffix: "1D", priceThreshold: 8.0, volumeThreshold: 5.0, minQuoteVolume: 10_000_000, offsetSeconds: 300, cooldownMinutes: 60},
}

const (
	defaultHistoryPeriods      = 6
	defaultVolumeMedianPeriods = 20
)

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string // Collect validation errors

	// Telegram
	cfg.TelegramBotToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	if cfg.TelegramBotToken == "" {
		errs = append(errs, "TELEGRAM_BOT_TOKEN must be set")
	}
	chatIDStr := getEnv("TELEGRAM_CHAT_ID", "")
	if chatIDStr == "" {
		errs = append(errs, "TELEGRAM_CHAT_ID must be set")
	} else {
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid TELEGRAM_CHAT_ID: %v", err))
		}
		cfg.TelegramChatID = chatID
	}
	cfg.SendTestMessage = getEnvAsBool("SEND_TEST_MESSAGE", false)

	// Proxy
	cfg.UseProxy = getEnvAsBool("USE_PROXY", false)
	cfg.ProxyHost = getEnv("PROXY_HOST", "")
	cfg.ProxyPort = getEnvAsInt("PROXY_PORT", 0)
	if cfg.UseProxy {
		if cfg.ProxyHost == "" {
			errs = append(errs, "PROXY_HOST must be set when USE_PROXY is enabled")
		}
		if cfg.ProxyPort <= 0 || cfg.ProxyPort > 65535 {
			errs = append(errs, "PROXY_PORT must be a valid port when USE_PROXY is enabled")
		}
	}

	// Market data
	cfg.QuoteAsset = getEnv("QUOTE_ASSET", "USDT")
	if cfg.QuoteAsset == "" {
		errs = append(errs, "QUOTE_ASSET must be set")
	}
	cfg.BatchSize = getEnvAsInt("BATCH_SIZE", 50)
	if cfg.BatchSize <= 0 {
		errs = append(errs, "BATCH_SIZE must be positive")
	}
	batchPauseMs := getEnvAsInt("BATCH_PAUSE_MS", 1000)
	if batchPauseMs < 0 {
		errs = append(errs, "BATCH_PAUSE_MS cannot be negative")
	}
	cfg.BatchPause = time.Duration(batchPauseMs) * time.Millisecond

	requestTimeoutSeconds := getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 10)
	if requestTimeoutSeconds <= 0 {
		errs = append(errs, "REQUEST_TIMEOUT_SECONDS must be positive")
	}
	cfg.RequestTimeout = time.Duration(requestTimeoutSeconds) * time.Second

	cfg.RequestsPerSec = getEnvAsInt("REQUESTS_PER_SEC", 20)
	if cfg.RequestsPerSec <= 0 {
		errs = append(errs, "REQUESTS_PER_SEC must be positive")
	}

	// Timeframes
	for _, d := range timeframeDefaults {
		tf, tfErrs := loadTimeframe(d)
		errs = append(errs, tfErrs...)
		cfg.Timeframes = append(cfg.Timeframes, tf)
	}
	anyEnabled := false
	for _, tf := range cfg.Timeframes {
		if tf.Enabled {
			anyEnabled = true
			break
		}
	}
	if !anyEnabled {
		errs = append(errs, "at least one timeframe must be enabled")
	}

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr)

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// loadTimeframe applies the interval's env overrides on top of its built-in
// defaults and validates the result.
func loadTimeframe(d timeframeDefault) (domain.TimeframeConfig, []string) {
	var errs []string

	tf := domain.TimeframeConfig{
		Interval:            d.interval,
		Enabled:             getEnvAsBool("ENABLE_"+d.suffix, true),
		PriceThreshold:      getEnvAsFloat("PRICE_THRESHOLD_"+d.suffix, d.priceThreshold),
		VolumeThreshold:     getEnvAsFloat("VOLUME_THRESHOLD_"+d.suffix, d.volumeThreshold),
		MinQuoteVolume:      getEnvAsFloat("MIN_QUOTE_VOLUME_"+d.suffix, d.minQuoteVolume),
		ScheduleOffset:      time.Duration(getEnvAsInt("SCHEDULE_SECONDS_"+d.suffix, d.offsetSeconds)) * time.Second,
		HistoryPeriods:      getEnvAsInt("HISTORY_PERIODS_"+d.suffix, defaultHistoryPeriods),
		VolumeMedianPeriods: getEnvAsInt("VOLUME_MEDIAN_PERIODS_"+d.suffix, defaultVolumeMedianPeriods),
		Cooldown:            time.Duration(getEnvAsInt("COOLDOWN_MINUTES_"+d.suffix, d.cooldownMinutes)) * time.Minute,
	}

	if tf.PriceThreshold <= 0 {
		errs = append(errs, fmt.Sprintf("PRICE_THRESHOLD_%s must be positive", d.suffix))
	}
	if tf.VolumeThreshold <= 0 {
		errs = append(errs, fmt.Sprintf("VOLUME_THRESHOLD_%s must be positive", d.suffix))
	}
	if tf.MinQuoteVolume < 0 {
		errs = append(errs, fmt.Sprintf("MIN_QUOTE_VOLUME_%s cannot be negative", d.suffix))
	}
	if tf.ScheduleOffset < 0 || tf.ScheduleOffset >= tf.Duration() {
		errs = append(errs, fmt.Sprintf("SCHEDULE_SECONDS_%s must be non-negative and shorter than the %s interval", d.suffix, d.interval))
	}
	if tf.HistoryPeriods <= 0 {
		errs = append(errs, fmt.Sprintf("HISTORY_PERIODS_%s must be positive", d.suffix))
	}
	if tf.VolumeMedianPeriods <= 0 {
		errs = append(errs, fmt.Sprintf("VOLUME_MEDIAN_PERIODS_%s must be positive", d.suffix))
	}
	if tf.Cooldown <= 0 {
		errs = append(errs, fmt.Sprintf("COOLDOWN_MINUTES_%s must be positive", d.suffix))
	}

	return tf, errs
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
