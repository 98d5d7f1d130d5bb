package notify

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"repolingo/internal/domain/model"
	"repolingo/internal/domain/ports/adapter"
)

var _ adapter.WatcherNotifier = (*TelegramNotifier)(nil)

// TelegramNotifier messages a watcher's chat when a translation completes.
type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
	log *zerolog.Logger
}

func NewTelegramNotifier(token string, logger *zerolog.Logger) (*TelegramNotifier, error) {
	if token == "" {
		return nil, errors.New("telegram token empty")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{bot: bot, log: logger}, nil
}

func (n *TelegramNotifier) NotifyTranslated(ctx context.Context, chatID int64, a *model.Activity) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	body := ""
	if a.TranslatedBody != nil {
		body = *a.TranslatedBody
	}
	text := fmt.Sprintf("🌐 %s (%s)\n\n%s", a.Title, a.Kind, body)
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
