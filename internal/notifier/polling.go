package notifier

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// CommandHandler is called when a bot command is received. A non-empty return value
// is sent back to the chat.
type CommandHandler func(ctx context.Context, chatID int64, command, args string) string

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
// Commands are handled one at a time in arrival order.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.Bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.Bot.StopReceivingUpdates()
			log.Info().Msg("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			msg := update.Message
			if msg == nil || !msg.IsCommand() {
				continue
			}
			log.Info().Int64("chat_id", msg.Chat.ID).Str("command", msg.Command()).Str("args", msg.CommandArguments()).Msg("received command")
			reply := handler(ctx, msg.Chat.ID, msg.Command(), msg.CommandArguments())
			if reply == "" {
				continue
			}
			if err := t.SendWithRetry(ctx, msg.Chat.ID, reply, 3); err != nil {
				log.Error().Err(err).Msg("send reply")
			}
		}
	}
}
