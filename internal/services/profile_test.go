package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
)

func fullPatch() domain.ProfilePatch {
	return domain.ProfilePatch{
		Age:           ptr(25),
		Gender:        ptr(domain.GenderMale),
		HeightCm:      ptr(175.0),
		WeightKg:      ptr(70.0),
		ActivityLevel: ptr(domain.ActivityModerate),
		Goal:          ptr(domain.GoalMaintain),
	}
}

func TestCalculateTargetsWorkedExample(t *testing.T) {
	got := CalculateTargets(domain.Profile{
		Age: 25, Gender: domain.GenderMale, HeightCm: 175, WeightKg: 70,
		ActivityLevel: domain.ActivityModerate, Goal: domain.GoalMaintain,
	})

	assert.Equal(t, domain.Targets{
		BMR:            1674,
		TDEE:           2595,
		TargetCalories: 2595,
		Macros:         domain.MacroTargets{ProteinG: 162, FatG: 72, CarbsG: 324},
	}, got)
}

func TestCalculateTargetsGoalsAndGender(t *testing.T) {
	base := domain.Profile{Age: 30, Gender: domain.GenderFemale, HeightCm: 165, WeightKg: 60, ActivityLevel: domain.ActivitySedentary}

	// 600 + 1031.25 - 150 - 161 = 1320.25
	base.Goal = domain.GoalMaintain
	maintain := CalculateTargets(base)
	assert.Equal(t, int64(1320), maintain.BMR)
	assert.Equal(t, int64(1584), maintain.TDEE)

	base.Goal = domain.GoalLose
	assert.Equal(t, int64(1084), CalculateTargets(base).TargetCalories)

	base.Goal = domain.GoalGain
	assert.Equal(t, int64(1884), CalculateTargets(base).TargetCalories)
}

func TestTargetsRequireProfile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, _, err := env.profiles.Targets(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrProfileMissing)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)

	_, err = env.profiles.Upsert(ctx, 1, fullPatch())
	require.NoError(t, err)

	targets, profile, err := env.profiles.Targets(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2595), targets.TargetCalories)
	assert.Equal(t, 70.0, profile.WeightKg)
}

func TestUpsertRequiresEveryField(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, err := env.profiles.Upsert(ctx, 1, fullPatch())
	require.NoError(t, err)

	_, err = env.profiles.Upsert(ctx, 1, domain.ProfilePatch{WeightKg: ptr(68.0)})
	assert.ErrorIs(t, err, apperrors.ErrMissingParameter)

	stored, err := env.profiles.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 70.0, stored.WeightKg, "rejected upsert leaves the row untouched")

	bad := fullPatch()
	bad.Gender = ptr(domain.Gender("other"))
	_, err = env.profiles.Upsert(ctx, 1, bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	bad = fullPatch()
	bad.Age = ptr(0)
	_, err = env.profiles.Upsert(ctx, 1, bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestMergeKeepsOmittedFields(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, err := env.profiles.Upsert(ctx, 1, fullPatch())
	require.NoError(t, err)

	merged, err := env.profiles.Merge(ctx, 1, domain.ProfilePatch{WeightKg: ptr(68.0)})
	require.NoError(t, err)
	assert.Equal(t, 68.0, merged.WeightKg)

	stored, err := env.profiles.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 68.0, stored.WeightKg)
	assert.Equal(t, 25, stored.Age)
	assert.Equal(t, domain.GenderMale, stored.Gender)
	assert.Equal(t, 175.0, stored.HeightCm)
	assert.Equal(t, domain.ActivityModerate, stored.ActivityLevel)
	assert.Equal(t, domain.GoalMaintain, stored.Goal)
}

func TestMergeWithoutProfileNeedsCompletePatch(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.profiles.Merge(ctx, 1, domain.ProfilePatch{WeightKg: ptr(68.0)})
	assert.ErrorIs(t, err, apperrors.ErrMissingParameter)

	_, err = env.profiles.Get(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrProfileMissing)

	_, err = env.profiles.Merge(ctx, 1, fullPatch())
	require.NoError(t, err)
}
