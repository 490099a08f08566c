// File: internal/infra/notify/telegram.go
package notify

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"membership-billing/internal/domain/ports/adapter"
)

var _ adapter.ChannelSender = (*telegramSender)(nil)

// telegramSender delivers over the Bot API. Sends are rate-limited
// process-wide; Telegram rejects bursts above ~30 msg/s.
type telegramSender struct {
	bot     *tgbotapi.BotAPI
	limiter *rate.Limiter
}

func NewTelegramSender(token string, perSecond float64) (*telegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &telegramSender{
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}, nil
}

func (s *telegramSender) Name() string { return "telegram" }

func (s *telegramSender) Send(ctx context.Context, recipientID string, payload adapter.RenderedPayload) (bool, error) {
	chatID, err := strconv.ParseInt(recipientID, 10, 64)
	if err != nil {
		return false, fmt.Errorf("telegram recipient %q is not a chat id: %w", recipientID, err)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return false, err
	}

	text := payload.Body
	if payload.Link != "" {
		text += "\n" + payload.Link
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := s.bot.Send(msg); err != nil {
		return false, fmt.Errorf("telegram send: %w", err)
	}
	return true, nil
}
