package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
)

type scriptedCompleter struct {
	name    string
	replies []string
	err     error
	prompts []string
}

func (c *scriptedCompleter) Name() string { return c.name }

func (c *scriptedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	reply := c.replies[0]
	if len(c.replies) > 1 {
		c.replies = c.replies[1:]
	}
	return reply, nil
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":{"b":2}}`, extractJSON(`Sure! {"a":{"b":2}} hope that helps`))
	assert.Equal(t, "", extractJSON("no json here"))
	assert.Equal(t, "", extractJSON("} backwards {"))
}

func TestClassifyIntentNormalizes(t *testing.T) {
	ctx := context.Background()
	c := &scriptedCompleter{name: "gemini", replies: []string{"```json\n" + `{
		"action": "Update_Profile",
		"items": [{"name": " rice ", "quantity_g": "200g"}, {"name": "", "quantity_g": 5}, {"name": "egg", "quantity_g": null}],
		"profile": {"age": 31, "gender": "other", "height_cm": null, "weight_kg": "68", "activity_level": "high", "goal": "cut"}
	}` + "\n```"}}
	s := newAIService(time.Second, c)

	intent, err := s.ClassifyIntent(ctx, "I'm 31, 68kg, training hard to cut")
	require.NoError(t, err)

	assert.Equal(t, domain.ActionUpdateProfile, intent.Action)
	require.Len(t, intent.Items, 2)
	assert.Equal(t, domain.IntentItem{Name: "rice", QuantityG: 200}, intent.Items[0])
	assert.Equal(t, domain.DefaultQuantityG, intent.Items[1].Quantity())

	require.NotNil(t, intent.Profile)
	assert.Equal(t, 31, *intent.Profile.Age)
	assert.Nil(t, intent.Profile.Gender, "unsupported gender is dropped")
	assert.Nil(t, intent.Profile.HeightCm)
	assert.Equal(t, 68.0, *intent.Profile.WeightKg)
	assert.Equal(t, domain.ActivityActive, *intent.Profile.ActivityLevel)
	assert.Equal(t, domain.GoalLose, *intent.Profile.Goal)
	assert.Contains(t, c.prompts[0], "training hard to cut")
}

func TestClassifyIntentMalformed(t *testing.T) {
	s := newAIService(time.Second, &scriptedCompleter{name: "gemini", replies: []string{"I think you want to log food"}})

	_, err := s.ClassifyIntent(context.Background(), "hello")
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestCompleteFallsBackToNextProvider(t *testing.T) {
	gemini := &scriptedCompleter{name: "gemini", err: errors.New("503")}
	openai := &scriptedCompleter{name: "openai", replies: []string{`{"calories_per_100g": 52, "protein_per_100g": 0.3, "fiber_per_100g": -1}`}}
	s := newAIService(time.Second, gemini, openai)

	macros, err := s.EstimateMacros(context.Background(), "apple")
	require.NoError(t, err)
	assert.Equal(t, domain.Macros{Calories: 52, ProteinG: 0.3}, macros)
	assert.Len(t, gemini.prompts, 1)
	assert.Len(t, openai.prompts, 1)
}

func TestEstimateMacrosAcceptsLooseNumbers(t *testing.T) {
	s := newAIService(time.Second, &scriptedCompleter{name: "gemini", replies: []string{
		`{"calories_per_100g": "52", "protein_per_100g": "0.3g", "carbs_per_100g": "14 g", "fat_per_100g": null, "fiber_per_100g": "2.4"}`,
	}})

	macros, err := s.EstimateMacros(context.Background(), "apple")
	require.NoError(t, err)
	assert.Equal(t, domain.Macros{Calories: 52, ProteinG: 0.3, CarbsG: 14, FiberG: 2.4}, macros)

	s = newAIService(time.Second, &scriptedCompleter{name: "gemini", replies: []string{`{"calories_per_100g": "89 kcal"}`}})
	macros, err = s.EstimateMacros(context.Background(), "banana")
	require.NoError(t, err)
	assert.Equal(t, 89.0, macros.Calories)
}

func TestEstimateMacrosRequiresCalories(t *testing.T) {
	s := newAIService(time.Second, &scriptedCompleter{name: "gemini", replies: []string{`{"protein_per_100g": 3}`}})

	_, err := s.EstimateMacros(context.Background(), "mystery")
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestAllProvidersFailing(t *testing.T) {
	s := newAIService(time.Second,
		&scriptedCompleter{name: "gemini", err: errors.New("timeout")},
		&scriptedCompleter{name: "openai", err: errors.New("401")},
	)

	_, err := s.Chat(context.Background(), "hi")
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Contains(t, err.Error(), "401")
}

func TestChatTrimsReply(t *testing.T) {
	s := newAIService(0, &scriptedCompleter{name: "gemini", replies: []string{"  Drink water 💧\n"}})

	reply, err := s.Chat(context.Background(), "tips?")
	require.NoError(t, err)
	assert.Equal(t, "Drink water 💧", reply)
}
