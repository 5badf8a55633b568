package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
)

func newAssistant(env *testEnv, classifier domain.IntentClassifier, chat domain.ChatResponder) *AssistantService {
	a := NewAssistantService(classifier, chat, env.catalog, env.logs, env.profiles, env.repos.Exchanges)
	a.pick = func(n int) int { return 0 }
	return a
}

func TestChatBranch(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	a := newAssistant(env, &fakeClassifier{intent: &domain.Intent{Action: domain.ActionChat}}, &fakeChat{reply: "Stay hydrated!"})
	reply, err := a.Handle(ctx, 1, "any tips?")
	require.NoError(t, err)
	assert.Equal(t, "Stay hydrated!", reply)

	a = newAssistant(env, &fakeClassifier{intent: &domain.Intent{Action: domain.ActionChat}}, &fakeChat{err: errors.New("quota")})
	reply, err = a.Handle(ctx, 1, "any tips?")
	require.NoError(t, err)
	assert.Equal(t, fallbackReplies[0], reply)
}

func TestClassifierFailureDegradesToChat(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	a := newAssistant(env, &fakeClassifier{err: apperrors.NewExternalAPIError(errors.New("bad json"), "ai")}, &fakeChat{reply: "Hi there"})
	reply, err := a.Handle(ctx, 1, "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", reply)

	a = newAssistant(env, &fakeClassifier{}, &fakeChat{reply: "Hi again"})
	reply, err = a.Handle(ctx, 1, "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi again", reply)
}

func TestUnknownActionUsesFallback(t *testing.T) {
	env := newTestEnv(t)
	a := newAssistant(env, &fakeClassifier{intent: &domain.Intent{Action: "order_pizza"}}, &fakeChat{reply: "unused"})

	reply, err := a.Handle(context.Background(), 1, "order me a pizza")
	require.NoError(t, err)
	assert.Contains(t, fallbackReplies, reply)
}

func TestLogFoodBranch(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createCustom(t, 1, "Basmati rice", domain.Macros{Calories: 130})

	a := newAssistant(env, &fakeClassifier{intent: &domain.Intent{
		Action: domain.ActionLogFood,
		Items:  []domain.IntentItem{{Name: "rice", QuantityG: 200}},
	}}, &fakeChat{})
	reply, err := a.Handle(ctx, 1, "I had 200g rice")
	require.NoError(t, err)
	assert.Equal(t, "Logged 200g of Basmati rice ✅", reply)

	a = newAssistant(env, &fakeClassifier{intent: &domain.Intent{
		Action: domain.ActionLogFood,
		Items:  []domain.IntentItem{{Name: "rice"}, {Name: "lentil curry"}},
	}}, &fakeChat{})
	reply, err = a.Handle(ctx, 1, "rice and lentil curry")
	require.NoError(t, err)
	assert.Equal(t, "Logged 2 items successfully 💪", reply)

	summary, err := env.logs.Today(ctx, 1, false)
	require.NoError(t, err)
	require.Len(t, summary.Logs, 3)
	for _, line := range summary.Logs {
		if line.Food.Name == "lentil curry" {
			assert.Equal(t, 100.0, line.Quantity, "missing quantity defaults to 100 g")
			assert.Equal(t, int64(200), line.Computed.Calories)
		}
	}
	assert.Equal(t, []string{"lentil curry"}, env.estimator.calls)
}

func TestLogFoodPartialEffect(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createCustom(t, 1, "Toast", domain.Macros{Calories: 260})
	env.estimator.err = errors.New("estimator down")

	a := newAssistant(env, &fakeClassifier{intent: &domain.Intent{
		Action: domain.ActionLogFood,
		Items:  []domain.IntentItem{{Name: "toast", QuantityG: 50}, {Name: "unknown jam", QuantityG: 20}},
	}}, &fakeChat{})
	reply, err := a.Handle(ctx, 1, "toast with jam")
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Contains(t, reply, "unknown jam")

	summary, err := env.logs.Today(ctx, 1, false)
	require.NoError(t, err)
	require.Len(t, summary.Logs, 1, "items before the failure stay logged")
	assert.Equal(t, "Toast", summary.Logs[0].Food.Name)
}

func TestDeleteLogIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	food := env.createCustom(t, 1, "Apple", domain.Macros{Calories: 52})
	_, err := env.logs.Create(ctx, 1, CreateLogInput{Food: food.Ref, Quantity: 150})
	require.NoError(t, err)

	a := newAssistant(env, &fakeClassifier{intent: &domain.Intent{Action: domain.ActionDeleteLog}}, &fakeChat{})

	reply, err := a.Handle(ctx, 1, "delete last entry")
	require.NoError(t, err)
	assert.Equal(t, deleteReplies[0], reply)

	reply, err = a.Handle(ctx, 1, "delete last entry")
	require.NoError(t, err)
	assert.Equal(t, nothingToDeleteReply, reply)

	summary, err := env.logs.Today(ctx, 1, false)
	require.NoError(t, err)
	assert.Empty(t, summary.Logs)
}

func TestUpdateProfileMergesOnlySuppliedFields(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, err := env.profiles.Upsert(ctx, 1, fullPatch())
	require.NoError(t, err)

	a := newAssistant(env, &fakeClassifier{intent: &domain.Intent{
		Action:  domain.ActionUpdateProfile,
		Profile: &domain.ProfilePatch{WeightKg: ptr(68.0)},
	}}, &fakeChat{})
	reply, err := a.Handle(ctx, 1, "I weigh 68kg now")
	require.NoError(t, err)
	assert.Equal(t, "Updated your weight ✨", reply)

	stored, err := env.profiles.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 68.0, stored.WeightKg)
	assert.Equal(t, 25, stored.Age)
	assert.Equal(t, domain.GenderMale, stored.Gender)
	assert.Equal(t, 175.0, stored.HeightCm)
	assert.Equal(t, domain.ActivityModerate, stored.ActivityLevel)
	assert.Equal(t, domain.GoalMaintain, stored.Goal)
}

func TestUpdateProfileWithoutProfileAsksForRest(t *testing.T) {
	env := newTestEnv(t)
	a := newAssistant(env, &fakeClassifier{intent: &domain.Intent{
		Action:  domain.ActionUpdateProfile,
		Profile: &domain.ProfilePatch{WeightKg: ptr(68.0)},
	}}, &fakeChat{})

	reply, err := a.Handle(context.Background(), 1, "I weigh 68kg")
	require.NoError(t, err)
	assert.Contains(t, reply, "age")
	assert.Contains(t, reply, "activity level")
	assert.NotContains(t, reply, "weight")
}

func TestExchangeRecordingIsBestEffort(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	a := NewAssistantService(&fakeClassifier{intent: &domain.Intent{Action: domain.ActionChat}}, &fakeChat{reply: "ok"},
		env.catalog, env.logs, env.profiles, failingExchanges{})
	reply, err := a.Handle(ctx, 1, "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)

	recorded := newAssistant(env, &fakeClassifier{intent: &domain.Intent{Action: domain.ActionChat}}, &fakeChat{reply: "hey"})
	_, err = recorded.Handle(ctx, 7, "hi")
	require.NoError(t, err)

	recent, err := env.repos.Exchanges.Recent(ctx, 7, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, domain.ActionChat, recent[0].Action)
	assert.Equal(t, "hey", recent[0].Reply)
}

func TestEmptyMessageRejected(t *testing.T) {
	env := newTestEnv(t)
	a := newAssistant(env, &fakeClassifier{}, &fakeChat{})

	_, err := a.Handle(context.Background(), 1, "   ")
	assert.ErrorIs(t, err, apperrors.ErrMissingParameter)
}
