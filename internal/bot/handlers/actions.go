package handlers

import (
	"context"
	"errors"

	"github.com/vladimiradmaev/nutrition-helper/internal/bot/menus"
	"github.com/vladimiradmaev/nutrition-helper/internal/bot/state"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
	"github.com/vladimiradmaev/nutrition-helper/internal/logger"
)

const (
	helpText = `Available commands:
/start - Show the main menu
/today - Today's food log and totals
/micros - Today's totals with micronutrients
/date - Totals for a past day
/targets - Your daily calorie and macro targets
/undo - Remove the most recent entry
/help - Show this message

Anything else you write goes to the assistant, e.g. "150g chicken breast and a banana".`

	askDateText      = "Send me a date like 2024-05-31 📅"
	badDateText      = "That doesn't look like a date. Please use YYYY-MM-DD, e.g. 2024-05-31."
	genericErrorText = "Sorry, something went wrong 😅 Try again in a moment."
)

// actions holds the operations shared by commands, buttons and text
type actions struct {
	api          menus.Sender
	deps         Dependencies
	stateManager state.StateManager
}

func (a *actions) sendToday(ctx context.Context, chatID int64, user *domain.User, detailed bool) error {
	summary, err := a.deps.Logs.Today(ctx, user.ID, detailed)
	if err != nil {
		return a.fail(ctx, chatID, err)
	}
	title := "📊 Today"
	if detailed {
		title = "🔬 Today in detail"
	}
	return menus.SendText(a.api, chatID, menus.FormatDaySummary(title, summary))
}

func (a *actions) askDate(chatID int64, user *domain.User) error {
	a.stateManager.SetUserState(user.TelegramID, state.WaitingForDate)
	return menus.SendText(a.api, chatID, askDateText)
}

func (a *actions) sendDate(ctx context.Context, chatID int64, user *domain.User, date string) error {
	summary, err := a.deps.Logs.ByDate(ctx, user.ID, date, true)
	if errors.Is(err, apperrors.ErrValidation) {
		return menus.SendText(a.api, chatID, badDateText)
	}
	if err != nil {
		a.stateManager.ClearUserState(user.TelegramID)
		return a.fail(ctx, chatID, err)
	}
	a.stateManager.ClearUserState(user.TelegramID)
	return menus.SendText(a.api, chatID, menus.FormatDaySummary("📅 "+summary.Date, summary))
}

func (a *actions) sendTargets(ctx context.Context, chatID int64, user *domain.User) error {
	targets, profile, err := a.deps.Profiles.Targets(ctx, user.ID)
	if errors.Is(err, apperrors.ErrProfileMissing) {
		return menus.SendText(a.api, chatID, menus.SetupRequiredText)
	}
	if err != nil {
		return a.fail(ctx, chatID, err)
	}
	return menus.SendText(a.api, chatID, menus.FormatTargets(targets, profile))
}

func (a *actions) undo(ctx context.Context, chatID int64, user *domain.User) error {
	deleted, err := a.deps.Logs.DeleteMostRecent(ctx, user.ID)
	if err != nil {
		return a.fail(ctx, chatID, err)
	}
	if !deleted {
		return menus.SendText(a.api, chatID, "Nothing to undo, your log is empty 👌")
	}
	return menus.SendText(a.api, chatID, "Last food entry removed 🗑️")
}

func (a *actions) mainMenu(chatID int64, user *domain.User) error {
	a.stateManager.SetUserState(user.TelegramID, state.None)
	return menus.SendMainMenu(a.api, chatID)
}

func (a *actions) help(chatID int64) error {
	return menus.SendText(a.api, chatID, helpText)
}

// fail logs err and tells the user something went wrong
func (a *actions) fail(ctx context.Context, chatID int64, err error) error {
	logger.WithContext(ctx).Error("Bot action failed", "error", err)
	return menus.SendText(a.api, chatID, genericErrorText)
}
