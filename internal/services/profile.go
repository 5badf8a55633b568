package services

import (
	"context"
	"fmt"
	"math"

	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
	"github.com/vladimiradmaev/nutrition-helper/internal/logger"
)

var activityMultipliers = map[domain.ActivityLevel]float64{
	domain.ActivitySedentary:  1.2,
	domain.ActivityLight:      1.375,
	domain.ActivityModerate:   1.55,
	domain.ActivityActive:     1.725,
	domain.ActivityVeryActive: 1.9,
}

var goalAdjustments = map[domain.Goal]float64{
	domain.GoalLose:     -500,
	domain.GoalMaintain: 0,
	domain.GoalGain:     300,
}

// CalculateTargets derives daily energy and macro targets from a profile.
// BMR uses Mifflin-St Jeor and is rounded before the activity multiplier is
// applied. The macro split is 25% protein, 25% fat, 50% carbs; the rounded
// gram values may not re-sum to the calorie target exactly.
func CalculateTargets(p domain.Profile) domain.Targets {
	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	if p.Gender == domain.GenderMale {
		bmr += 5
	} else {
		bmr -= 161
	}
	roundedBMR := roundHalfUp(bmr)

	multiplier, ok := activityMultipliers[p.ActivityLevel]
	if !ok {
		multiplier = activityMultipliers[domain.ActivitySedentary]
	}
	tdee := roundHalfUp(float64(roundedBMR) * multiplier)
	target := roundHalfUp(float64(tdee) + goalAdjustments[p.Goal])

	calories := float64(target)
	return domain.Targets{
		BMR:            roundedBMR,
		TDEE:           tdee,
		TargetCalories: target,
		Macros: domain.MacroTargets{
			ProteinG: roundHalfUp(calories * 0.25 / 4),
			FatG:     roundHalfUp(calories * 0.25 / 9),
			CarbsG:   roundHalfUp(calories * 0.50 / 4),
		},
	}
}

// ProfileService owns the one-per-user body profile and the targets derived
// from it.
type ProfileService struct {
	profiles domain.ProfileRepository
}

func NewProfileService(profiles domain.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Get returns the stored profile or a ProfileMissing error
func (s *ProfileService) Get(ctx context.Context, userID uint) (*domain.Profile, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NewProfileMissingError().WithContext("user_id", userID)
	}
	return p, nil
}

// Upsert stores a complete profile, overwriting every field
func (s *ProfileService) Upsert(ctx context.Context, userID uint, patch domain.ProfilePatch) (*domain.Profile, error) {
	p, err := completeProfile(patch)
	if err != nil {
		return nil, err
	}
	p.UserID = userID
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info("Profile saved", "activity_level", p.ActivityLevel, "goal", p.Goal)
	return p, nil
}

// Merge applies only the supplied fields over the stored profile. Without a
// stored profile the patch must be complete.
func (s *ProfileService) Merge(ctx context.Context, userID uint, patch domain.ProfilePatch) (*domain.Profile, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	current, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	var merged *domain.Profile
	if current == nil {
		merged, err = completeProfile(patch)
		if err != nil {
			return nil, err
		}
	} else {
		merged = current
		applyPatch(merged, patch)
	}

	merged.UserID = userID
	if err := s.profiles.Upsert(ctx, merged); err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info("Profile merged", "fields", patchFields(patch))
	return merged, nil
}

// Targets computes the user's daily targets and echoes the profile used
func (s *ProfileService) Targets(ctx context.Context, userID uint) (*domain.Targets, *domain.Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	t := CalculateTargets(*p)
	return &t, p, nil
}

// completeProfile requires every field of the patch to be present and valid
func completeProfile(patch domain.ProfilePatch) (*domain.Profile, error) {
	if missing := missingFields(patch); len(missing) > 0 {
		return nil, apperrors.NewMissingParameterError(missing[0]).WithContext("missing", missing)
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	p := &domain.Profile{}
	applyPatch(p, patch)
	return p, nil
}

func missingFields(patch domain.ProfilePatch) []string {
	var missing []string
	if patch.Age == nil {
		missing = append(missing, "age")
	}
	if patch.Gender == nil {
		missing = append(missing, "gender")
	}
	if patch.HeightCm == nil {
		missing = append(missing, "height_cm")
	}
	if patch.WeightKg == nil {
		missing = append(missing, "weight_kg")
	}
	if patch.ActivityLevel == nil {
		missing = append(missing, "activity_level")
	}
	if patch.Goal == nil {
		missing = append(missing, "goal")
	}
	return missing
}

func validatePatch(patch domain.ProfilePatch) error {
	if patch.Age != nil && *patch.Age <= 0 {
		return apperrors.NewValidationError("age must be greater than 0")
	}
	if patch.Gender != nil && *patch.Gender != domain.GenderMale && *patch.Gender != domain.GenderFemale {
		return apperrors.NewValidationError(fmt.Sprintf("gender must be male or female, got %q", *patch.Gender))
	}
	if patch.HeightCm != nil && !positive(*patch.HeightCm) {
		return apperrors.NewValidationError("height_cm must be greater than 0")
	}
	if patch.WeightKg != nil && !positive(*patch.WeightKg) {
		return apperrors.NewValidationError("weight_kg must be greater than 0")
	}
	if patch.ActivityLevel != nil {
		if _, ok := activityMultipliers[*patch.ActivityLevel]; !ok {
			return apperrors.NewValidationError(fmt.Sprintf("unknown activity_level %q", *patch.ActivityLevel))
		}
	}
	if patch.Goal != nil {
		if _, ok := goalAdjustments[*patch.Goal]; !ok {
			return apperrors.NewValidationError(fmt.Sprintf("unknown goal %q", *patch.Goal))
		}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func applyPatch(p *domain.Profile, patch domain.ProfilePatch) {
	if patch.Age != nil {
		p.Age = *patch.Age
	}
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	if patch.HeightCm != nil {
		p.HeightCm = *patch.HeightCm
	}
	if patch.WeightKg != nil {
		p.WeightKg = *patch.WeightKg
	}
	if patch.ActivityLevel != nil {
		p.ActivityLevel = *patch.ActivityLevel
	}
	if patch.Goal != nil {
		p.Goal = *patch.Goal
	}
}

// patchFields names the supplied fields in a fixed order
func patchFields(patch domain.ProfilePatch) []string {
	var fields []string
	if patch.Age != nil {
		fields = append(fields, "age")
	}
	if patch.Gender != nil {
		fields = append(fields, "gender")
	}
	if patch.HeightCm != nil {
		fields = append(fields, "height_cm")
	}
	if patch.WeightKg != nil {
		fields = append(fields, "weight_kg")
	}
	if patch.ActivityLevel != nil {
		fields = append(fields, "activity_level")
	}
	if patch.Goal != nil {
		fields = append(fields, "goal")
	}
	return fields
}
