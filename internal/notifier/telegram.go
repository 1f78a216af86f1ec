package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"CDCSentinel/internal/metrics"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// MaxMessageLength is the Telegram limit for one text message.
const MaxMessageLength = 4096

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	Bot *tgbotapi.BotAPI
}

// NewTelegramNotifier authorises the bot token, with optional proxy support.
func NewTelegramNotifier(botToken, proxyURL string) (*TelegramNotifier, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := &http.Client{Timeout: 60 * time.Second, Transport: transport}
	bot, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	log.Info().Str("username", bot.Self.UserName).Msg("authorized on telegram")
	return &TelegramNotifier{Bot: bot}, nil
}

// Send sends text to chatID, split on line boundaries when it exceeds the message limit.
func (t *TelegramNotifier) Send(chatID int64, text string) error {
	for _, chunk := range SplitMessage(text, MaxMessageLength) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.DisableWebPagePreview = true
		if _, err := t.Bot.Send(msg); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, chatID int64, text string, maxRetries int) error {
	attempt := 0
	operation := func() error {
		attempt++
		return t.Send(chatID, text)
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Int("max", maxRetries+1).Dur("retry_in", wait).Msg("telegram send failed")
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxRetries)), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("all %d attempts exhausted: %w", attempt, err)
	}
	metrics.NotificationsTotal.WithLabelValues("ok").Inc()
	return nil
}

// SplitMessage cuts text into chunks of at most limit bytes, preferring line breaks.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if b.Len() > 0 {
				chunks = append(chunks, b.String())
				b.Reset()
			}
			cut := limit
			for cut > 0 && !utf8RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if b.Len()+len(line) > limit {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }
