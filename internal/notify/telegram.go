package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramDispatcher delivers notifications as Telegram messages to one
// chat. "Permission" maps to whether a token and chat are configured.
type TelegramDispatcher struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramDispatcher(token string, chatID int64) (*TelegramDispatcher, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram API: %w", err)
	}
	return &TelegramDispatcher{api: api, chatID: chatID}, nil
}

func (t *TelegramDispatcher) IsSupported() bool {
	return t.api != nil && t.chatID != 0
}

func (t *TelegramDispatcher) PermissionState() PermissionState {
	if t.IsSupported() {
		return PermissionGranted
	}
	return PermissionDenied
}

func (t *TelegramDispatcher) RequestPermission(ctx context.Context) (PermissionState, error) {
	return t.PermissionState(), nil
}

func (t *TelegramDispatcher) Send(ctx context.Context, p Payload) (bool, error) {
	if !t.IsSupported() {
		return false, nil
	}

	text := p.Title
	if p.Message != "" {
		text += "\n\n" + p.Message
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.DisableNotification = p.Silent

	if _, err := t.api.Send(msg); err != nil {
		return false, fmt.Errorf("failed to send Telegram message: %w", err)
	}
	return true, nil
}
