package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/nutrition-helper/internal/bot/menus"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	"github.com/vladimiradmaev/nutrition-helper/internal/logger"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	*actions
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(a *actions) *CommandHandler {
	return &CommandHandler{actions: a}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	logger.WithContext(ctx).Info("Handling command", "command", message.Command())
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		return h.mainMenu(chatID, user)
	case "help":
		return h.help(chatID)
	case "today":
		return h.sendToday(ctx, chatID, user, false)
	case "micros":
		return h.sendToday(ctx, chatID, user, true)
	case "date":
		if date := message.CommandArguments(); date != "" {
			return h.sendDate(ctx, chatID, user, date)
		}
		return h.askDate(chatID, user)
	case "targets":
		return h.sendTargets(ctx, chatID, user)
	case "undo":
		return h.undo(ctx, chatID, user)
	default:
		return menus.SendText(h.api, chatID, "Unknown command. Use /help to see what I can do.")
	}
}
