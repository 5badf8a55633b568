package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"github.com/vladimiradmaev/nutrition-helper/internal/config"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
	"github.com/vladimiradmaev/nutrition-helper/internal/logger"
	"google.golang.org/api/option"
)

// completer is one language model backend answering a text prompt
type completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

type geminiCompleter struct {
	client *genai.Client
	model  string
}

func (g *geminiCompleter) Name() string { return "gemini" }

func (g *geminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("empty response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

type openAICompleter struct {
	client *openai.Client
	model  string
}

func (o *openAICompleter) Name() string { return "openai" }

func (o *openAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: o.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

// AIService talks to the configured language models. Gemini is tried first
// and OpenAI is the fallback when both keys are set.
type AIService struct {
	completers []completer
	timeout    time.Duration
	closers    []func() error
}

func NewAIService(ctx context.Context, cfg config.AIConfig) (*AIService, error) {
	s := &AIService{timeout: cfg.Timeout}

	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.completers = append(s.completers, &geminiCompleter{client: client, model: cfg.GeminiModel})
		s.closers = append(s.closers, client.Close)
	}
	if cfg.OpenAIAPIKey != "" {
		s.completers = append(s.completers, &openAICompleter{client: openai.NewClient(cfg.OpenAIAPIKey), model: cfg.OpenAIModel})
	}
	if len(s.completers) == 0 {
		return nil, errors.New("no AI provider configured")
	}
	return s, nil
}

func newAIService(timeout time.Duration, completers ...completer) *AIService {
	return &AIService{completers: completers, timeout: timeout}
}

// Close releases provider clients
func (s *AIService) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// complete asks each provider in turn and returns the first answer
func (s *AIService) complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for _, c := range s.completers {
		callCtx := ctx
		cancel := func() {}
		if s.timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		}
		text, err := c.Complete(callCtx, prompt)
		cancel()
		if err == nil {
			return text, nil
		}
		logger.WithContext(ctx).Warn("AI provider failed", "provider", c.Name(), "error", err)
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("no AI provider configured")
	}
	return "", apperrors.NewExternalAPIError(lastErr, "ai")
}

// ClassifyIntent parses a free-text message into an action and its payload
func (s *AIService) ClassifyIntent(ctx context.Context, message string) (*domain.Intent, error) {
	text, err := s.complete(ctx, fmt.Sprintf(intentPrompt, message))
	if err != nil {
		return nil, err
	}

	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return nil, apperrors.NewExternalAPIError(errors.New("no valid JSON found in response"), "ai").
			WithContext("operation", "classify_intent")
	}
	var raw rawIntent
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, apperrors.NewExternalAPIError(fmt.Errorf("failed to parse response: %w", err), "ai").
			WithContext("operation", "classify_intent")
	}
	return raw.normalize(), nil
}

// EstimateMacros asks for approximate per-100 g nutrition of a food
func (s *AIService) EstimateMacros(ctx context.Context, foodName string) (domain.Macros, error) {
	text, err := s.complete(ctx, fmt.Sprintf(macroPrompt, foodName))
	if err != nil {
		return domain.Macros{}, err
	}

	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return domain.Macros{}, apperrors.NewExternalAPIError(errors.New("no valid JSON found in response"), "ai").
			WithContext("operation", "estimate_macros")
	}
	var raw rawMacros
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return domain.Macros{}, apperrors.NewExternalAPIError(fmt.Errorf("failed to parse response: %w", err), "ai").
			WithContext("operation", "estimate_macros")
	}
	if raw.Calories.value == nil {
		return domain.Macros{}, apperrors.NewExternalAPIError(errors.New("calories_per_100g missing"), "ai").
			WithContext("operation", "estimate_macros")
	}

	return domain.Macros{
		Calories: nonNegative(raw.Calories),
		ProteinG: nonNegative(raw.Protein),
		CarbsG:   nonNegative(raw.Carbs),
		FatG:     nonNegative(raw.Fat),
		FiberG:   nonNegative(raw.Fiber),
	}, nil
}

// Chat produces a short free-form reply
func (s *AIService) Chat(ctx context.Context, message string) (string, error) {
	text, err := s.complete(ctx, fmt.Sprintf(chatPrompt, message))
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.NewExternalAPIError(errors.New("empty chat reply"), "ai")
	}
	return text, nil
}

// extractJSON attempts to extract a valid JSON object from the given string.
// It handles cases where the JSON is wrapped in code blocks (```json ... ```) or other text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// number accepts a JSON number, a numeric string with an optional g or kcal
// unit, or null
type number struct {
	value *float64
}

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		return nil
	}
	s = strings.ToLower(strings.Trim(s, `"`))
	s = strings.TrimSuffix(strings.TrimSpace(s), "kcal")
	s = strings.TrimSuffix(strings.TrimSpace(s), "g")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	n.value = &v
	return nil
}

type rawItem struct {
	Name      string `json:"name"`
	QuantityG number `json:"quantity_g"`
}

type rawProfile struct {
	Age           number  `json:"age"`
	Gender        *string `json:"gender"`
	HeightCm      number  `json:"height_cm"`
	WeightKg      number  `json:"weight_kg"`
	ActivityLevel *string `json:"activity_level"`
	Goal          *string `json:"goal"`
}

type rawIntent struct {
	Action  string      `json:"action"`
	Items   []rawItem   `json:"items"`
	Profile *rawProfile `json:"profile"`
}

type rawMacros struct {
	Calories number `json:"calories_per_100g"`
	Protein  number `json:"protein_per_100g"`
	Carbs    number `json:"carbs_per_100g"`
	Fat      number `json:"fat_per_100g"`
	Fiber    number `json:"fiber_per_100g"`
}

func nonNegative(n number) float64 {
	if n.value == nil || *n.value < 0 {
		return 0
	}
	return *n.value
}

var activityAliases = map[string]domain.ActivityLevel{
	"sedentary":   domain.ActivitySedentary,
	"low":         domain.ActivityLight,
	"light":       domain.ActivityLight,
	"moderate":    domain.ActivityModerate,
	"active":      domain.ActivityActive,
	"high":        domain.ActivityActive,
	"very_active": domain.ActivityVeryActive,
	"very active": domain.ActivityVeryActive,
}

var goalAliases = map[string]domain.Goal{
	"lose":     domain.GoalLose,
	"cut":      domain.GoalLose,
	"maintain": domain.GoalMaintain,
	"gain":     domain.GoalGain,
	"bulk":     domain.GoalGain,
}

// normalize maps model vocabulary onto domain values and drops anything
// that cannot be used
func (r rawIntent) normalize() *domain.Intent {
	intent := &domain.Intent{Action: domain.IntentAction(strings.ToLower(strings.TrimSpace(r.Action)))}
	if intent.Action == "" {
		intent.Action = domain.ActionChat
	}

	for _, item := range r.Items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		it := domain.IntentItem{Name: name}
		if item.QuantityG.value != nil {
			it.QuantityG = *item.QuantityG.value
		}
		intent.Items = append(intent.Items, it)
	}

	if r.Profile != nil {
		patch := &domain.ProfilePatch{}
		if v := r.Profile.Age.value; v != nil && *v > 0 {
			age := int(*v + 0.5)
			patch.Age = &age
		}
		if r.Profile.Gender != nil {
			switch g := domain.Gender(strings.ToLower(strings.TrimSpace(*r.Profile.Gender))); g {
			case domain.GenderMale, domain.GenderFemale:
				patch.Gender = &g
			}
		}
		if v := r.Profile.HeightCm.value; v != nil && *v > 0 {
			patch.HeightCm = v
		}
		if v := r.Profile.WeightKg.value; v != nil && *v > 0 {
			patch.WeightKg = v
		}
		if r.Profile.ActivityLevel != nil {
			if a, ok := activityAliases[strings.ToLower(strings.TrimSpace(*r.Profile.ActivityLevel))]; ok {
				patch.ActivityLevel = &a
			}
		}
		if r.Profile.Goal != nil {
			if g, ok := goalAliases[strings.ToLower(strings.TrimSpace(*r.Profile.Goal))]; ok {
				patch.Goal = &g
			}
		}
		if !patch.Empty() {
			intent.Profile = patch
		}
	}
	return intent
}

const intentPrompt = `You are a calorie tracking assistant.

STRICT RULES:
- Respond ONLY with valid JSON
- No markdown
- No backticks
- No explanations

INTENTS:
- chat
- log_food
- delete_log
- update_profile

FOOD RULES:
- If food is mentioned, use log_food
- Multiple foods allowed
- Quantity defaults to 100g if missing

DELETE RULES:
- If the user wants to undo or remove the last entry, use delete_log

PROFILE RULES:
- If the user mentions age, gender, height, weight, activity level, or goal, use update_profile
- Extract ONLY mentioned fields
- Do NOT invent missing fields

JSON FORMAT (EXACT):
{
  "action": "chat | log_food | delete_log | update_profile",
  "items": [
    {
      "name": "string",
      "quantity_g": number
    }
  ],
  "profile": {
    "age": number | null,
    "gender": "male | female" | null,
    "height_cm": number | null,
    "weight_kg": number | null,
    "activity_level": "sedentary | light | moderate | active | very_active" | null,
    "goal": "lose | maintain | gain" | null
  }
}

User message:
%q
`

const macroPrompt = `Give approximate nutrition for %q per 100 grams.

STRICT RULES:
- Return ONLY valid JSON
- No markdown
- No text

{
  "calories_per_100g": number,
  "protein_per_100g": number,
  "carbs_per_100g": number,
  "fat_per_100g": number,
  "fiber_per_100g": number
}
`

const chatPrompt = `You are a friendly gym and nutrition companion.

Guidelines:
- Keep replies to 2-4 short lines
- Encouraging and practical tone
- Focus only on fitness, food, and habits
- No medical advice
- No extreme or absolute claims

User message:
%q
`
