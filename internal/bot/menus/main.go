package menus

import (
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/nutrition-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
)

// Sender is the part of the telegram client the bot uses
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

const mainMenuText = `🥗 *Nutrition Helper* keeps track of what you eat

Just tell me in plain words:
• "200g rice and 2 eggs" to log a meal
• "undo" to remove the last entry
• "I'm 30, 72kg, moderately active" to update your profile

Choose an action:`

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api Sender, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, mainMenuText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// SendText sends a plain message with the back-to-menu keyboard
func SendText(api Sender, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.BackToMenu()
	_, err := api.Send(msg)
	return err
}

// FormatDaySummary renders a day of logs with totals, and micros when present
func FormatDaySummary(title string, s *domain.DaySummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", title)

	if len(s.Logs) == 0 {
		sb.WriteString("Nothing logged yet.\n")
	}
	for _, line := range s.Logs {
		fmt.Fprintf(&sb, "• %s: %sg, %d kcal\n", line.Food.Name, trimFloat(line.Quantity), line.Computed.Calories)
	}

	t := s.Totals
	fmt.Fprintf(&sb, "\nTotal: %d kcal\nProtein %dg · Carbs %dg · Fat %dg · Fiber %dg",
		t.Calories, t.ProteinG, t.CarbsG, t.FatG, t.FiberG)

	if len(s.Micros) > 0 {
		keys := make([]string, 0, len(s.Micros))
		for k := range s.Micros {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\n\nMicronutrients:\n")
		for _, k := range keys {
			name, unit := splitMicroKey(k)
			fmt.Fprintf(&sb, "• %s: %s %s\n", name, trimFloat(s.Micros[k]), unit)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatTargets renders daily targets for a profile
func FormatTargets(t *domain.Targets, p *domain.Profile) string {
	return fmt.Sprintf(`🎯 Daily targets (%s, goal: %s)

BMR: %d kcal
TDEE: %d kcal
Target: %d kcal

Protein %dg · Fat %dg · Carbs %dg`,
		strings.ReplaceAll(string(p.ActivityLevel), "_", " "), p.Goal,
		t.BMR, t.TDEE, t.TargetCalories,
		t.Macros.ProteinG, t.Macros.FatG, t.Macros.CarbsG)
}

// SetupRequiredText asks the user to describe their profile
const SetupRequiredText = `I need your profile first 📝

Tell me your age, gender, height, weight, activity level (sedentary, light, moderate, active, very active) and goal (lose, maintain, gain).
Example: "I'm a 30 year old male, 180cm, 75kg, moderately active, want to maintain"`

func splitMicroKey(key string) (string, string) {
	i := strings.LastIndex(key, "_")
	if i < 0 {
		return key, ""
	}
	name := strings.ReplaceAll(key[:i], "_", " ")
	return strings.ToUpper(name[:1]) + name[1:], key[i+1:]
}

func trimFloat(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}
