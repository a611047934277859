package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Telegram caps message text at 4096 characters.
const maxMessageRunes = 4096

const (
	callbackActionClaim    = "claim"
	callbackActionAssigned = "assigned"
)

// ErrChannelUnknown means no operations chat id is configured and none has
// been discovered from an inbound group message yet.
var ErrChannelUnknown = errors.New("operations channel not discovered yet")

// TelegramChannel delivers order announcements to a single operations group
// chat and handles claim button callbacks.
type TelegramChannel struct {
	api      *tgbotapi.BotAPI
	assigner *Assigner
	roster   []string
	logger   *slog.Logger

	// Configured at startup; when left at zero it is learned from the first
	// message seen in a group chat the bot has joined.
	chatID atomic.Int64
}

func NewTelegramChannel(token string, chatID int64, roster []string, assigner *Assigner, logger *slog.Logger) (*TelegramChannel, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("tgbotapi.NewBotAPI: %w", err)
	}

	t := &TelegramChannel{
		api:      api,
		assigner: assigner,
		roster:   roster,
		logger:   logger,
	}
	t.chatID.Store(chatID)

	return t, nil
}

func (t *TelegramChannel) SendOrderMessage(ctx context.Context, orderID uuid.UUID, text string) error {
	chatID := t.chatID.Load()
	if chatID == 0 {
		return ErrChannelUnknown
	}

	msg := tgbotapi.NewMessage(chatID, truncateRunes(text, maxMessageRunes))
	msg.ReplyMarkup = t.claimKeyboard(orderID)

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("api.Send: %w", err)
	}

	return nil
}

// Run consumes bot updates until ctx is cancelled.
func (t *TelegramChannel) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			switch {
			case update.CallbackQuery != nil:
				t.handleCallback(ctx, update.CallbackQuery)
			case update.Message != nil:
				t.observeChat(update.Message)
			}
		}
	}
}

// observeChat learns the operations chat id when none was configured.
func (t *TelegramChannel) observeChat(msg *tgbotapi.Message) {
	if msg.Chat == nil || !(msg.Chat.IsGroup() || msg.Chat.IsSuperGroup()) {
		return
	}
	if t.chatID.CompareAndSwap(0, msg.Chat.ID) {
		t.logger.Info("operations channel discovered", "chat_id", msg.Chat.ID, "title", msg.Chat.Title)
	}
}

func (t *TelegramChannel) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	parts := strings.Split(cb.Data, "|")

	switch parts[0] {
	case callbackActionAssigned:
		t.answer(cb.ID, "Already assigned", false)
	case callbackActionClaim:
		// Malformed or unrecognized claim payloads are ignored.
		if len(parts) != 3 {
			return
		}
		orderID, err := uuid.Parse(parts[1])
		if err != nil {
			return
		}
		handler := parts[2]
		if !lo.Contains(t.roster, handler) {
			return
		}
		t.claim(ctx, cb, orderID, handler)
	}
}

func (t *TelegramChannel) claim(ctx context.Context, cb *tgbotapi.CallbackQuery, orderID uuid.UUID, handler string) {
	text, err := t.assigner.Claim(ctx, orderID, handler)
	switch {
	case errors.Is(err, ErrAlreadyAssigned):
		t.reconcile(ctx, cb, orderID)
		return
	case err != nil:
		t.logger.Error("claim failed", "order", orderID, "handler", handler, "error", err)
		t.answer(cb.ID, "Could not load the order, try again", true)
		return
	}

	t.edit(cb, orderID, text, handler)
	t.answer(cb.ID, "Assigned to "+handler, false)
}

// reconcile handles a lost claim: the message may still show claim buttons
// when the winning claim's edit failed, so re-render from the persisted
// assignment before answering.
func (t *TelegramChannel) reconcile(ctx context.Context, cb *tgbotapi.CallbackQuery, orderID uuid.UUID) {
	text, winner, err := t.assigner.Assigned(ctx, orderID)
	if err != nil || winner == "" {
		if err != nil {
			t.logger.Error("reconcile assignment", "order", orderID, "error", err)
		}
		t.answer(cb.ID, "Already assigned", false)
		return
	}

	t.edit(cb, orderID, text, winner)
	t.answer(cb.ID, "Assigned to "+winner, false)
}

func (t *TelegramChannel) edit(cb *tgbotapi.CallbackQuery, orderID uuid.UUID, text, handler string) {
	if cb.Message == nil {
		return
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(cb.Message.Chat.ID, cb.Message.MessageID,
		truncateRunes(text, maxMessageRunes), assignedKeyboard(orderID, handler))
	if _, err := t.api.Send(edit); err != nil {
		t.logger.Error("edit message", "order", orderID, "error", err)
	}
}

func (t *TelegramChannel) claimKeyboard(orderID uuid.UUID) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(t.roster))
	for _, name := range t.roster {
		data := strings.Join([]string{callbackActionClaim, orderID.String(), name}, "|")
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Handled by "+name, data)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func assignedKeyboard(orderID uuid.UUID, handler string) tgbotapi.InlineKeyboardMarkup {
	data := callbackActionAssigned + "|" + orderID.String()
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ Assigned to "+handler, data)))
}

func (t *TelegramChannel) answer(callbackID, text string, alert bool) {
	cfg := tgbotapi.NewCallback(callbackID, text)
	if alert {
		cfg = tgbotapi.NewCallbackWithAlert(callbackID, text)
	}
	if _, err := t.api.Request(cfg); err != nil {
		t.logger.Error("answer callback", "error", err)
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
