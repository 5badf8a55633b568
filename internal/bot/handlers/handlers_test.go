package handlers

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/nutrition-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/nutrition-helper/internal/bot/menus"
	"github.com/vladimiradmaev/nutrition-helper/internal/bot/state"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
	"github.com/vladimiradmaev/nutrition-helper/internal/services"
)

type fakeSender struct {
	sent     []string
	requests int
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.sent = append(s.sent, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func (s *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (s *fakeSender) last() string {
	if len(s.sent) == 0 {
		return ""
	}
	return s.sent[len(s.sent)-1]
}

type fakeUsers struct{}

func (fakeUsers) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error) {
	return &domain.User{ID: 7, TelegramID: telegramID, Username: username}, nil
}

type fakeLogs struct {
	dates   []string
	deleted bool
}

func (f *fakeLogs) Create(ctx context.Context, userID uint, in services.CreateLogInput) (*domain.LogEntry, error) {
	return nil, errors.New("not used")
}

func (f *fakeLogs) Get(ctx context.Context, userID, id uint) (*domain.LogLine, error) {
	return nil, errors.New("not used")
}

func (f *fakeLogs) Delete(ctx context.Context, userID, id uint) error { return nil }

func (f *fakeLogs) DeleteMostRecent(ctx context.Context, userID uint) (bool, error) {
	was := f.deleted
	f.deleted = false
	return was, nil
}

func (f *fakeLogs) Today(ctx context.Context, userID uint, detailed bool) (*domain.DaySummary, error) {
	return &domain.DaySummary{
		Date:   "2024-06-01",
		Logs:   []domain.LogLine{{ID: 1, Quantity: 150, Food: domain.LoggedFood{Name: "Rice"}, Computed: domain.RoundedMacros{Calories: 195}}},
		Totals: domain.RoundedMacros{Calories: 195},
	}, nil
}

func (f *fakeLogs) ByDate(ctx context.Context, userID uint, date string, detailed bool) (*domain.DaySummary, error) {
	f.dates = append(f.dates, date)
	if date != "2024-05-31" {
		return nil, apperrors.NewValidationError("date must be YYYY-MM-DD")
	}
	return &domain.DaySummary{Date: date}, nil
}

type fakeProfiles struct{ missing bool }

func (f fakeProfiles) Get(ctx context.Context, userID uint) (*domain.Profile, error) {
	return nil, apperrors.NewProfileMissingError()
}

func (f fakeProfiles) Upsert(ctx context.Context, userID uint, patch domain.ProfilePatch) (*domain.Profile, error) {
	return nil, errors.New("not used")
}

func (f fakeProfiles) Targets(ctx context.Context, userID uint) (*domain.Targets, *domain.Profile, error) {
	if f.missing {
		return nil, nil, apperrors.NewProfileMissingError()
	}
	return &domain.Targets{BMR: 1674, TDEE: 2595, TargetCalories: 2595},
		&domain.Profile{Age: 25, Gender: domain.GenderMale, HeightCm: 175, WeightKg: 70,
			ActivityLevel: domain.ActivityModerate, Goal: domain.GoalMaintain}, nil
}

type fakeAssistant struct {
	reply    string
	err      error
	messages []string
}

func (f *fakeAssistant) Handle(ctx context.Context, userID uint, message string) (string, error) {
	f.messages = append(f.messages, message)
	return f.reply, f.err
}

type harness struct {
	sender    *fakeSender
	logs      *fakeLogs
	assistant *fakeAssistant
	states    *state.Manager
	handler   *UpdateHandler
}

func newHarness(profileMissing bool) *harness {
	h := &harness{
		sender:    &fakeSender{},
		logs:      &fakeLogs{},
		assistant: &fakeAssistant{reply: "Logged 200g of Rice ✅"},
		states:    state.NewManager(),
	}
	h.handler = NewUpdateHandler(h.sender, Dependencies{
		UserService: fakeUsers{},
		Assistant:   h.assistant,
		Logs:        h.logs,
		Profiles:    fakeProfiles{missing: profileMissing},
	}, h.states)
	return h
}

func textUpdate(text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: 42, UserName: "alice"},
		Chat: &tgbotapi.Chat{ID: 42},
		Text: text,
	}
	if len(text) > 0 && text[0] == '/' {
		end := len(text)
		for i, r := range text {
			if r == ' ' {
				end = i
				break
			}
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: end}}
	}
	return tgbotapi.Update{Message: msg}
}

func callbackUpdate(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 42},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 42}},
		Data:    data,
	}}
}

func TestFreeTextGoesToAssistant(t *testing.T) {
	h := newHarness(false)

	require.NoError(t, h.handler.Handle(context.Background(), textUpdate("  200g rice ")))
	assert.Equal(t, []string{"200g rice"}, h.assistant.messages)
	assert.Equal(t, "Logged 200g of Rice ✅", h.sender.last())
}

func TestAssistantFailureStillReplies(t *testing.T) {
	h := newHarness(false)
	h.assistant.reply = ""
	h.assistant.err = apperrors.NewExternalAPIError(errors.New("down"), "ai")

	require.NoError(t, h.handler.Handle(context.Background(), textUpdate("rice")))
	assert.Equal(t, genericErrorText, h.sender.last())

	h.assistant.reply = "Logged 1 of 2 items"
	require.NoError(t, h.handler.Handle(context.Background(), textUpdate("rice and jam")))
	assert.Equal(t, "Logged 1 of 2 items", h.sender.last())
}

func TestTodayCommand(t *testing.T) {
	h := newHarness(false)

	require.NoError(t, h.handler.Handle(context.Background(), textUpdate("/today")))
	assert.Contains(t, h.sender.last(), "• Rice: 150g, 195 kcal")
	assert.Empty(t, h.assistant.messages)
}

func TestDateDialog(t *testing.T) {
	ctx := context.Background()
	h := newHarness(false)

	require.NoError(t, h.handler.Handle(ctx, callbackUpdate(keyboards.CallbackByDate)))
	assert.Equal(t, 1, h.sender.requests, "callback is answered")
	assert.Equal(t, askDateText, h.sender.last())
	assert.Equal(t, state.WaitingForDate, h.states.GetUserState(42))

	require.NoError(t, h.handler.Handle(ctx, textUpdate("yesterday")))
	assert.Equal(t, badDateText, h.sender.last())
	assert.Equal(t, state.WaitingForDate, h.states.GetUserState(42))

	require.NoError(t, h.handler.Handle(ctx, textUpdate("2024-05-31")))
	assert.Contains(t, h.sender.last(), "2024-05-31")
	assert.Equal(t, state.None, h.states.GetUserState(42))
	assert.Empty(t, h.assistant.messages)
}

func TestDateCommandWithArgument(t *testing.T) {
	h := newHarness(false)

	require.NoError(t, h.handler.Handle(context.Background(), textUpdate("/date 2024-05-31")))
	assert.Equal(t, []string{"2024-05-31"}, h.logs.dates)
}

func TestTargetsNeedProfile(t *testing.T) {
	h := newHarness(true)
	require.NoError(t, h.handler.Handle(context.Background(), callbackUpdate(keyboards.CallbackTargets)))
	assert.Equal(t, menus.SetupRequiredText, h.sender.last())

	h = newHarness(false)
	require.NoError(t, h.handler.Handle(context.Background(), textUpdate("/targets")))
	assert.Contains(t, h.sender.last(), "2595")
}

func TestUndo(t *testing.T) {
	ctx := context.Background()
	h := newHarness(false)
	h.logs.deleted = true

	require.NoError(t, h.handler.Handle(ctx, callbackUpdate(keyboards.CallbackUndo)))
	assert.Contains(t, h.sender.last(), "removed")

	require.NoError(t, h.handler.Handle(ctx, textUpdate("/undo")))
	assert.Contains(t, h.sender.last(), "Nothing to undo")
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(false)
	require.NoError(t, h.handler.Handle(context.Background(), textUpdate("/pizza")))
	assert.Contains(t, h.sender.last(), "Unknown command")
}

func TestUpdateWithoutSenderIgnored(t *testing.T) {
	h := newHarness(false)
	require.NoError(t, h.handler.Handle(context.Background(), tgbotapi.Update{}))
	assert.Empty(t, h.sender.sent)
}
