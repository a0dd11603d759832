package notificator

import (
	"context"

	"github.com/go-telegram/bot"

	"github.com/cacguide/paygate/pkg/logger"
)

// TelegramNotificator delivers operator alerts to the ops chat. It is the
// loud channel for the one failure class that risks revenue loss.
type TelegramNotificator struct {
	logger *logger.Logger
	bot    *bot.Bot

	opsChatID string
}

func NewTelegramNotificator(logger *logger.Logger, token, opsChatID string) (*TelegramNotificator, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, err
	}

	return &TelegramNotificator{
		logger:    logger,
		bot:       b,
		opsChatID: opsChatID,
	}, nil
}

func (t *TelegramNotificator) SendAlert(message string) {
	params := &bot.SendMessageParams{
		ChatID: t.opsChatID,
		Text:   message,
	}
	_, err := t.bot.SendMessage(context.Background(), params)
	if err != nil {
		t.logger.Error("Failed to send operator alert: ", err)
	}
}
