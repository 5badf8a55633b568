package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
	"github.com/vladimiradmaev/nutrition-helper/internal/logger"
)

var fallbackReplies = []string{
	"Hey! 👋 What did you eat today?",
	"Got it 👍 Tell me your meal (example: 100g rice).",
	"Alright! What food should I log?",
	"I'm here 😄 Just tell me what you ate.",
	"Cool! What's on your plate today?",
}

var deleteReplies = []string{
	"Last food entry removed 🗑️",
	"Done! I removed the last log.",
	"Gone 👍 Last entry deleted.",
}

const nothingToDeleteReply = "Nothing to delete, your log is already empty 👌"

// AssistantService executes the action behind one conversational message
type AssistantService struct {
	classifier domain.IntentClassifier
	chat       domain.ChatResponder
	catalog    *CatalogService
	logs       *LogService
	profiles   *ProfileService
	exchanges  domain.ExchangeRepository
	pick       func(n int) int
}

func NewAssistantService(
	classifier domain.IntentClassifier,
	chat domain.ChatResponder,
	catalog *CatalogService,
	logs *LogService,
	profiles *ProfileService,
	exchanges domain.ExchangeRepository,
) *AssistantService {
	return &AssistantService{
		classifier: classifier,
		chat:       chat,
		catalog:    catalog,
		logs:       logs,
		profiles:   profiles,
		exchanges:  exchanges,
		pick:       rand.Intn,
	}
}

// Handle classifies message once and performs the matching action. The
// reply is always non-empty. An error is returned only when an action
// failed; log_food may have logged some items before failing, in which case
// the reply describes what was done.
func (s *AssistantService) Handle(ctx context.Context, userID uint, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperrors.NewMissingParameterError("message")
	}

	intent, err := s.classifier.ClassifyIntent(ctx, message)
	if err != nil || intent == nil {
		if err != nil {
			logger.WithContext(ctx).Warn("Intent classification failed, falling back to chat", "error", err)
		}
		intent = &domain.Intent{Action: domain.ActionChat}
	}

	reply, err := s.execute(ctx, userID, message, intent)
	s.record(ctx, domain.Exchange{
		UserID:  userID,
		Message: message,
		Action:  intent.Action,
		Intent:  intent,
		Reply:   reply,
		Failed:  err != nil,
	})
	return reply, err
}

func (s *AssistantService) execute(ctx context.Context, userID uint, message string, intent *domain.Intent) (string, error) {
	switch intent.Action {
	case domain.ActionChat:
		return s.handleChat(ctx, message), nil
	case domain.ActionLogFood:
		if len(intent.Items) == 0 {
			return s.fallback(), nil
		}
		return s.handleLogFood(ctx, userID, intent.Items)
	case domain.ActionDeleteLog:
		return s.handleDeleteLog(ctx, userID)
	case domain.ActionUpdateProfile:
		if intent.Profile == nil || intent.Profile.Empty() {
			return s.fallback(), nil
		}
		return s.handleUpdateProfile(ctx, userID, *intent.Profile)
	default:
		return s.fallback(), nil
	}
}

func (s *AssistantService) handleChat(ctx context.Context, message string) string {
	reply, err := s.chat.Chat(ctx, message)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			logger.WithContext(ctx).Warn("Chat reply failed, using fallback", "error", err)
		}
		return s.fallback()
	}
	return reply
}

func (s *AssistantService) handleLogFood(ctx context.Context, userID uint, items []domain.IntentItem) (string, error) {
	var logged []domain.IntentItem
	for _, item := range items {
		food, err := s.catalog.ResolveOrCreate(ctx, userID, item.Name)
		if err == nil {
			_, err = s.logs.Create(ctx, userID, CreateLogInput{Food: food.Ref, Quantity: item.Quantity()})
		}
		if err != nil {
			logger.WithContext(ctx).Error("Conversational logging stopped", "item", item.Name, "logged", len(logged), "error", err)
			return partialLogReply(logged, item.Name), err
		}
		logged = append(logged, domain.IntentItem{Name: food.Name, QuantityG: item.Quantity()})
	}
	return foodLoggedReply(logged), nil
}

func (s *AssistantService) handleDeleteLog(ctx context.Context, userID uint) (string, error) {
	deleted, err := s.logs.DeleteMostRecent(ctx, userID)
	if err != nil {
		return "Sorry, I couldn't remove your last entry right now. Try again.", err
	}
	if !deleted {
		return nothingToDeleteReply, nil
	}
	return deleteReplies[s.pick(len(deleteReplies))], nil
}

func (s *AssistantService) handleUpdateProfile(ctx context.Context, userID uint, patch domain.ProfilePatch) (string, error) {
	if _, err := s.profiles.Merge(ctx, userID, patch); err != nil {
		if errors.Is(err, apperrors.ErrMissingParameter) {
			return fmt.Sprintf("Almost there! To set up your profile I still need your %s.",
				strings.Join(humanFields(missingFields(patch)), ", ")), nil
		}
		if errors.Is(err, apperrors.ErrValidation) {
			return "Hmm, that doesn't look right. " + apperrors.PublicMessage(err) + ".", nil
		}
		return "Sorry, I couldn't update your profile right now. Try again.", err
	}
	return profileUpdatedReply(patchFields(patch)), nil
}

func (s *AssistantService) fallback() string {
	return fallbackReplies[s.pick(len(fallbackReplies))]
}

// record stores the exchange. Failures are logged and otherwise ignored.
func (s *AssistantService) record(ctx context.Context, ex domain.Exchange) {
	if s.exchanges == nil {
		return
	}
	if err := s.exchanges.Record(ctx, ex); err != nil {
		logger.WithContext(ctx).Warn("Failed to record assistant exchange", "error", err)
	}
}

func formatGrams(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64) + "g"
}

func foodLoggedReply(items []domain.IntentItem) string {
	switch len(items) {
	case 0:
		return "Food logged ✅"
	case 1:
		return fmt.Sprintf("Logged %s of %s ✅", formatGrams(items[0].Quantity()), items[0].Name)
	default:
		return fmt.Sprintf("Logged %d items successfully 💪", len(items))
	}
}

func partialLogReply(logged []domain.IntentItem, failed string) string {
	if len(logged) == 0 {
		return fmt.Sprintf("Sorry, I couldn't log %s right now 😅 Try again.", failed)
	}
	return fmt.Sprintf("%s, but I couldn't log %s 😅", strings.TrimSuffix(foodLoggedReply(logged), " ✅"), failed)
}

func profileUpdatedReply(fields []string) string {
	if len(fields) == 0 {
		return "Your profile has been updated 👍"
	}
	return fmt.Sprintf("Updated your %s ✨", strings.Join(humanFields(fields), ", "))
}

func humanFields(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		switch f {
		case "height_cm":
			out[i] = "height"
		case "weight_kg":
			out[i] = "weight"
		default:
			out[i] = strings.ReplaceAll(f, "_", " ")
		}
	}
	return out
}
