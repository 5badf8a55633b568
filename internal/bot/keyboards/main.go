package keyboards

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data sent by the inline buttons
const (
	CallbackToday    = "today"
	CallbackDetailed = "today_detailed"
	CallbackByDate   = "by_date"
	CallbackTargets  = "targets"
	CallbackUndo     = "undo"
	CallbackMainMenu = "main_menu"
)

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Today", CallbackToday),
			tgbotapi.NewInlineKeyboardButtonData("🔬 Micros", CallbackDetailed),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Past day", CallbackByDate),
			tgbotapi.NewInlineKeyboardButtonData("🎯 Targets", CallbackTargets),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("↩️ Undo last", CallbackUndo),
		),
	)
}

// BackToMenu creates a single-button keyboard returning to the main menu
func BackToMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", CallbackMainMenu),
		),
	)
}
