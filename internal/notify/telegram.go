package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramChannel sends reminder messages through a Telegram bot.
type TelegramChannel struct {
	bot      *tgbotapi.BotAPI
	observer Observer
}

// NewTelegramChannel authenticates the bot against endpoint, a
// "https://host/bot%s/%s" format string; empty selects the public API.
func NewTelegramChannel(token, endpoint string, client *http.Client, observer Observer) (*TelegramChannel, error) {
	if token == "" {
		return nil, ErrChannelDisabled
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("%w: telegram: %v", ErrGatewayUnavailable, err)
	}
	return &TelegramChannel{bot: bot, observer: observerOrNoop(observer)}, nil
}

func (t *TelegramChannel) Name() string { return "telegram" }

// BotName returns the username the token authenticated as.
func (t *TelegramChannel) BotName() string { return t.bot.Self.UserName }

func (t *TelegramChannel) Send(ctx context.Context, msg Message) (Receipt, error) {
	chatID, err := strconv.ParseInt(strings.TrimSpace(msg.To), 10, 64)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: telegram chat id %q", ErrInvalidAddress, msg.To)
	}
	if err := ctx.Err(); err != nil {
		return Receipt{}, ErrTimeout
	}

	start := time.Now()
	sent, err := t.bot.Send(tgbotapi.NewMessage(chatID, msg.Body))
	event := DeliveryEvent{Channel: t.Name(), LatencyMs: time.Since(start).Milliseconds()}

	apiErr, isAPIErr := telegramAPIError(err)
	switch {
	case isAPIErr:
		event.ErrorCode = strconv.Itoa(apiErr.Code)
		t.observer.OnDelivery(event)
		return Receipt{ErrorCode: event.ErrorCode, Error: apiErr.Message}, nil
	case err != nil:
		err = fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		event.ErrorCode = errorCode(err)
		t.observer.OnDelivery(event)
		return Receipt{}, err
	}

	event.Accepted = true
	event.DeliveryID = strconv.Itoa(sent.MessageID)
	t.observer.OnDelivery(event)
	return Receipt{Accepted: true, DeliveryID: event.DeliveryID}, nil
}

func telegramAPIError(err error) (tgbotapi.Error, bool) {
	var ptr *tgbotapi.Error
	if errors.As(err, &ptr) {
		return *ptr, true
	}
	var val tgbotapi.Error
	if errors.As(err, &val) {
		return val, true
	}
	return tgbotapi.Error{}, false
}
