package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/nutrition-helper/internal/bot/state"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	"github.com/vladimiradmaev/nutrition-helper/internal/logger"
)

// TextHandler handles text messages
type TextHandler struct {
	*actions
}

// NewTextHandler creates a new text handler
func NewTextHandler(a *actions) *TextHandler {
	return &TextHandler{actions: a}
}

// Handle processes a text message
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	text := strings.TrimSpace(message.Text)

	switch h.stateManager.GetUserState(user.TelegramID) {
	case state.WaitingForDate:
		return h.sendDate(ctx, message.Chat.ID, user, text)
	default:
		return h.handleAssistant(ctx, message.Chat.ID, user, text)
	}
}

// handleAssistant passes free text to the conversational assistant
func (h *TextHandler) handleAssistant(ctx context.Context, chatID int64, user *domain.User, text string) error {
	typing := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := h.api.Request(typing); err != nil {
		logger.WithContext(ctx).Debug("Failed to send typing action", "error", err)
	}

	reply, err := h.deps.Assistant.Handle(ctx, user.ID, text)
	if err != nil {
		logger.WithContext(ctx).Error("Assistant action failed", "error", err)
		if reply == "" {
			reply = genericErrorText
		}
	}
	msg := tgbotapi.NewMessage(chatID, reply)
	_, err = h.api.Send(msg)
	return err
}
