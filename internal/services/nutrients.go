package services

import (
	"context"
	"errors"
	"math"

	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
)

// Reference dataset nutrient codes for the macro profile
const (
	nutrientEnergy  int64 = 1008
	nutrientProtein int64 = 1003
	nutrientCarbs   int64 = 1005
	nutrientFat     int64 = 1004
	nutrientFiber   int64 = 1079
)

var macroCodes = []int64{nutrientEnergy, nutrientProtein, nutrientCarbs, nutrientFat, nutrientFiber}

type microNutrient struct {
	Key      string
	Code     int64
	Decimals int
}

// microNutrients is the fixed micronutrient table. Decimals is the number of
// fractional digits kept when reporting.
var microNutrients = []microNutrient{
	{"sodium_mg", 1093, 0},
	{"potassium_mg", 1092, 0},
	{"calcium_mg", 1087, 0},
	{"iron_mg", 1089, 1},
	{"magnesium_mg", 1090, 0},
	{"zinc_mg", 1095, 1},
	{"vitamin_a_mcg", 1104, 0},
	{"vitamin_c_mg", 1162, 0},
	{"vitamin_d_iu", 1110, 0},
	{"vitamin_b12_mcg", 1178, 1},
	{"folate_mcg", 1190, 0},
}

// NutrientResolver answers nutrition questions about foods of either source
// through their tagged identity.
type NutrientResolver struct {
	custom    domain.CustomFoodRepository
	reference domain.ReferenceRepository
}

func NewNutrientResolver(custom domain.CustomFoodRepository, reference domain.ReferenceRepository) *NutrientResolver {
	return &NutrientResolver{custom: custom, reference: reference}
}

// MacrosFor returns the per-100 g macro profile of one food
func (r *NutrientResolver) MacrosFor(ctx context.Context, ref domain.FoodRef) (domain.Macros, error) {
	foods, err := r.Resolve(ctx, []domain.FoodRef{ref})
	if err != nil {
		return domain.Macros{}, err
	}
	food, ok := foods[ref]
	if !ok {
		return domain.Macros{}, foodNotFound(ref)
	}
	return food.Per100g, nil
}

// Loggable checks that userID may log ref and returns it with its source
// filled in. Custom foods must belong to the user. A ref without a source is
// looked up as one of the user's custom foods first, then in the reference
// dataset; custom ids are millisecond timestamps so the two never overlap.
func (r *NutrientResolver) Loggable(ctx context.Context, userID uint, ref domain.FoodRef) (domain.FoodRef, error) {
	if ref.Source == "" || ref.Source == domain.SourceCustom {
		_, err := r.custom.Get(ctx, userID, ref.ID)
		if err == nil {
			return domain.FoodRef{Source: domain.SourceCustom, ID: ref.ID}, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return domain.FoodRef{}, err
		}
		if ref.Source == domain.SourceCustom {
			return domain.FoodRef{}, foodNotFound(ref)
		}
	}

	_, err := r.reference.Get(ctx, ref.ID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.FoodRef{}, foodNotFound(ref)
	}
	if err != nil {
		return domain.FoodRef{}, err
	}
	return domain.FoodRef{Source: domain.SourceReference, ID: ref.ID}, nil
}

func foodNotFound(ref domain.FoodRef) error {
	return apperrors.NewNotFoundError("FOOD_NOT_FOUND", "Food not found").
		WithContext("source", ref.Source).
		WithContext("food_id", ref.ID)
}

// Resolve loads every referenced food with its per-100 g macros filled in.
// Foods that no longer exist are absent from the result.
func (r *NutrientResolver) Resolve(ctx context.Context, refs []domain.FoodRef) (map[domain.FoodRef]domain.Food, error) {
	var customIDs, referenceIDs []int64
	for _, ref := range refs {
		switch ref.Source {
		case domain.SourceCustom:
			customIDs = append(customIDs, ref.ID)
		case domain.SourceReference:
			referenceIDs = append(referenceIDs, ref.ID)
		}
	}

	out := make(map[domain.FoodRef]domain.Food, len(refs))

	if len(customIDs) > 0 {
		customs, err := r.custom.GetMany(ctx, customIDs)
		if err != nil {
			return nil, err
		}
		for id, food := range customs {
			out[domain.FoodRef{Source: domain.SourceCustom, ID: id}] = food
		}
	}

	if len(referenceIDs) > 0 {
		foods, err := r.reference.GetMany(ctx, referenceIDs)
		if err != nil {
			return nil, err
		}
		amounts, err := r.reference.Amounts(ctx, referenceIDs, macroCodes)
		if err != nil {
			return nil, err
		}
		macros := referenceMacros(amounts)
		for id, food := range foods {
			food.Per100g = macros[id]
			out[domain.FoodRef{Source: domain.SourceReference, ID: id}] = food
		}
	}

	return out, nil
}

// referenceMacros folds amount rows into macro profiles. When a code appears
// more than once for a food the largest amount wins; absent codes stay 0.
func referenceMacros(amounts []domain.NutrientAmount) map[int64]domain.Macros {
	out := make(map[int64]domain.Macros)
	for _, a := range amounts {
		m := out[a.FoodID]
		switch a.NutrientID {
		case nutrientEnergy:
			m.Calories = math.Max(m.Calories, a.Amount)
		case nutrientProtein:
			m.ProteinG = math.Max(m.ProteinG, a.Amount)
		case nutrientCarbs:
			m.CarbsG = math.Max(m.CarbsG, a.Amount)
		case nutrientFat:
			m.FatG = math.Max(m.FatG, a.Amount)
		case nutrientFiber:
			m.FiberG = math.Max(m.FiberG, a.Amount)
		}
		out[a.FoodID] = m
	}
	return out
}

// MicrosFor sums the micronutrients of the given portions. Only reference
// foods carry micronutrient data; custom portions contribute nothing.
func (r *NutrientResolver) MicrosFor(ctx context.Context, portions []domain.Portion) (domain.Micros, error) {
	sums := make(map[int64]float64, len(microNutrients))

	quantities := make(map[int64][]float64)
	var ids []int64
	for _, p := range portions {
		if p.Food.Source != domain.SourceReference {
			continue
		}
		if _, seen := quantities[p.Food.ID]; !seen {
			ids = append(ids, p.Food.ID)
		}
		quantities[p.Food.ID] = append(quantities[p.Food.ID], p.Quantity)
	}

	if len(ids) > 0 {
		codes := make([]int64, 0, len(microNutrients))
		for _, n := range microNutrients {
			codes = append(codes, n.Code)
		}
		amounts, err := r.reference.Amounts(ctx, ids, codes)
		if err != nil {
			return nil, err
		}
		for _, a := range amounts {
			for _, q := range quantities[a.FoodID] {
				sums[a.NutrientID] += a.Amount * q / 100
			}
		}
	}

	micros := make(domain.Micros, len(microNutrients))
	for _, n := range microNutrients {
		micros[n.Key] = roundTo(sums[n.Code], n.Decimals)
	}
	return micros, nil
}

// roundHalfUp rounds to the nearest integer, halves away from zero
func roundHalfUp(v float64) int64 {
	return int64(math.Round(v))
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
