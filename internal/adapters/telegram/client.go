// Package telegram implements the ports.Notifier interface on top of the
// Telegram Bot API. The destination chat and bot credential are fixed at
// construction time.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"cryptoVolumeAlert/internal/ports"
)

// Client handles alert delivery to a single Telegram chat.
type Client struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger ports.Logger
}

// Config holds configuration specific to the Telegram adapter.
type Config struct {
	BotToken string
	ChatID   int64
	Logger   ports.Logger
	// HTTPClient optionally replaces the default transport, e.g. to route
	// all requests through an outbound proxy. Nil uses the library default.
	HTTPClient *http.Client
}

// New creates a new Telegram notifier. Constructing the underlying bot
// performs a getMe call, so an invalid token fails here rather than on the
// first alert.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Telegram client")
	}
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("bot token is required for Telegram client: %w", ports.ErrConfigurationError)
	}
	if cfg.ChatID == 0 {
		return nil, fmt.Errorf("chat ID is required for Telegram client: %w", ports.ErrConfigurationError)
	}

	var (
		bot *tgbotapi.BotAPI
		err error
	)
	if cfg.HTTPClient != nil {
		bot, err = tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, cfg.HTTPClient)
	} else {
		bot, err = tgbotapi.NewBotAPI(cfg.BotToken)
	}
	if err != nil {
		return nil, fmt.Errorf("creating Telegram bot: %w", err)
	}

	return &Client{
		bot:    bot,
		chatID: cfg.ChatID,
		logger: cfg.Logger,
	}, nil
}

// Send delivers the message body to the configured chat. When silent is set
// the message is sent without a client-side notification sound.
//
// A connection interruption after the request was written is reported as
// ports.ErrPossiblyDelivered: in practice these sends usually reach the
// chat, and resending would duplicate the alert.
func (c *Client) Send(ctx context.Context, text string, silent bool) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.DisableNotification = silent

	if _, err := c.bot.Send(msg); err != nil {
		if isInterrupted(err) {
			c.logger.Warn(ctx, "Connection interrupted during send, message likely delivered",
				map[string]interface{}{"originalError": err.Error()})
			return fmt.Errorf("telegram send: %w: %w", ports.ErrPossiblyDelivered, err)
		}
		return fmt.Errorf("telegram send: %w: %w", ports.ErrDispatchFailed, err)
	}
	return nil
}

// SendTestMessage posts a startup connectivity check to the configured chat.
func (c *Client) SendTestMessage(ctx context.Context) error {
	text := fmt.Sprintf("🤖 Test message\nTime: %s\nIf you can read this, the Telegram bot is configured correctly.",
		time.Now().Format("2006-01-02 15:04:05"))
	return c.Send(ctx, text, false)
}

// isInterrupted reports whether the error belongs to the transient class
// where the connection dropped mid-response and the message may still have
// been delivered.
func isInterrupted(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "socket hang up") ||
		strings.Contains(msg, "connection reset by peer") ||
		strings.Contains(msg, "unexpected EOF")
}
