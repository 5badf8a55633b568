package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/nutrition-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	"github.com/vladimiradmaev/nutrition-helper/internal/logger"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	*actions
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(a *actions) *CallbackHandler {
	return &CallbackHandler{actions: a}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, user *domain.User) error {
	// Answer the callback query first
	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := h.api.Request(callback); err != nil {
		logger.WithContext(ctx).Warn("Failed to answer callback query", "error", err)
	}
	if query.Message == nil {
		return nil
	}
	chatID := query.Message.Chat.ID

	switch query.Data {
	case keyboards.CallbackToday:
		return h.sendToday(ctx, chatID, user, false)
	case keyboards.CallbackDetailed:
		return h.sendToday(ctx, chatID, user, true)
	case keyboards.CallbackByDate:
		return h.askDate(chatID, user)
	case keyboards.CallbackTargets:
		return h.sendTargets(ctx, chatID, user)
	case keyboards.CallbackUndo:
		return h.undo(ctx, chatID, user)
	default:
		return h.mainMenu(chatID, user)
	}
}
