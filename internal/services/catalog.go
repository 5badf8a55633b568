package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
	"github.com/vladimiradmaev/nutrition-helper/internal/logger"
)

const (
	defaultCombinedLimit  = 10
	maxCombinedLimit      = 30
	defaultManageLimit    = 100
	maxManageLimit        = 200
	defaultReferenceLimit = 20
	maxReferenceLimit     = 100
)

// clampLimit applies a default to non-positive limits and caps the rest
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// idGenerator hands out millisecond timestamps, never repeating one
type idGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func (g *idGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// CatalogService is the single search and lookup surface over custom and
// reference foods.
type CatalogService struct {
	custom    domain.CustomFoodRepository
	reference domain.ReferenceRepository
	resolver  *NutrientResolver
	estimator domain.MacroEstimator
	ids       *idGenerator
}

func NewCatalogService(custom domain.CustomFoodRepository, reference domain.ReferenceRepository, resolver *NutrientResolver, estimator domain.MacroEstimator) *CatalogService {
	return &CatalogService{
		custom:    custom,
		reference: reference,
		resolver:  resolver,
		estimator: estimator,
		ids:       &idGenerator{now: time.Now},
	}
}

// Search runs the combined search used by meal logging: the user's custom
// matches first, then reference matches, cut to limit after concatenation.
func (s *CatalogService) Search(ctx context.Context, userID uint, query string, limit int) ([]domain.FoodSummary, error) {
	limit = clampLimit(limit, defaultCombinedLimit, maxCombinedLimit)
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.FoodSummary{}, nil
	}

	customs, err := s.custom.Search(ctx, userID, query, limit, 0)
	if err != nil {
		return nil, err
	}
	refs, err := s.reference.Search(ctx, query, limit, 0)
	if err != nil {
		return nil, err
	}

	out := make([]domain.FoodSummary, 0, len(customs)+len(refs))
	for _, f := range customs {
		out = append(out, summarize(f))
	}
	for _, f := range refs {
		out = append(out, summarize(f))
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListCustom is the management search over the user's own foods
func (s *CatalogService) ListCustom(ctx context.Context, userID uint, query string, limit, offset int) ([]domain.Food, error) {
	limit = clampLimit(limit, defaultManageLimit, maxManageLimit)
	if offset < 0 {
		offset = 0
	}
	foods, err := s.custom.Search(ctx, userID, query, limit, offset)
	if err != nil {
		return nil, err
	}
	if foods == nil {
		foods = []domain.Food{}
	}
	return foods, nil
}

func validateCustomFood(in domain.CustomFoodInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.NewMissingParameterError("name")
	}
	if in.CaloriesPer100g == nil {
		return apperrors.NewMissingParameterError("calories_per_100g")
	}
	for field, v := range map[string]float64{
		"calories_per_100g": *in.CaloriesPer100g,
		"protein_per_100g":  in.ProteinPer100g,
		"carbs_per_100g":    in.CarbsPer100g,
		"fat_per_100g":      in.FatPer100g,
		"fiber_per_100g":    in.FiberPer100g,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.NewValidationError(field + " must be a non-negative number")
		}
	}
	return nil
}

// Create adds a custom food owned by userID
func (s *CatalogService) Create(ctx context.Context, userID uint, in domain.CustomFoodInput) (*domain.Food, error) {
	if err := validateCustomFood(in); err != nil {
		return nil, err
	}

	food := &domain.Food{
		Ref:  domain.FoodRef{Source: domain.SourceCustom, ID: s.ids.Next()},
		Name: strings.TrimSpace(in.Name),
		Per100g: domain.Macros{
			Calories: *in.CaloriesPer100g,
			ProteinG: in.ProteinPer100g,
			CarbsG:   in.CarbsPer100g,
			FatG:     in.FatPer100g,
			FiberG:   in.FiberPer100g,
		},
		CreatedBy: userID,
	}
	if err := s.custom.Create(ctx, food); err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("Custom food created", "food_id", food.Ref.ID, "name", food.Name)
	return food, nil
}

// Update overwrites a custom food. Reference foods are never found here.
func (s *CatalogService) Update(ctx context.Context, userID uint, id int64, in domain.CustomFoodInput) (*domain.Food, error) {
	if err := validateCustomFood(in); err != nil {
		return nil, err
	}
	return s.custom.Update(ctx, userID, id, in)
}

// Delete removes a custom food together with every log entry pointing at it
func (s *CatalogService) Delete(ctx context.Context, userID uint, id int64) error {
	if err := s.custom.DeleteWithLogs(ctx, userID, id); err != nil {
		return err
	}
	logger.WithContext(ctx).Info("Custom food deleted", "food_id", id)
	return nil
}

// ResolveOrCreate reuses the newest custom food whose name contains name,
// or asks the estimator for macros and stores a new custom food.
func (s *CatalogService) ResolveOrCreate(ctx context.Context, userID uint, name string) (*domain.Food, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewMissingParameterError("name")
	}

	existing, err := s.custom.FindByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	macros, err := s.estimator.EstimateMacros(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrUpstream) {
			return nil, err
		}
		return nil, apperrors.NewExternalAPIError(err, "macro_estimator").WithContext("food", name)
	}

	food := &domain.Food{
		Ref:       domain.FoodRef{Source: domain.SourceCustom, ID: s.ids.Next()},
		Name:      name,
		Per100g:   macros,
		CreatedBy: userID,
	}
	if err := s.custom.Create(ctx, food); err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("Custom food estimated", "food_id", food.Ref.ID, "name", name, "calories", macros.Calories)
	return food, nil
}

// SearchReference browses the reference dataset alone
func (s *CatalogService) SearchReference(ctx context.Context, query string, limit, offset int) ([]domain.FoodSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewMissingParameterError("q")
	}
	limit = clampLimit(limit, defaultReferenceLimit, maxReferenceLimit)
	if offset < 0 {
		offset = 0
	}

	foods, err := s.reference.Search(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]domain.FoodSummary, 0, len(foods))
	for _, f := range foods {
		out = append(out, summarize(f))
	}
	return out, nil
}

// ReferenceNutrients lists every nutrient stored for a reference food
func (s *CatalogService) ReferenceNutrients(ctx context.Context, id int64) (*domain.Food, []domain.Nutrient, error) {
	food, err := s.reference.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	nutrients, err := s.reference.Nutrients(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return food, nutrients, nil
}

// ReferenceMacros returns the per-100 g macro profile of a reference food
func (s *CatalogService) ReferenceMacros(ctx context.Context, id int64) (domain.Macros, error) {
	return s.resolver.MacrosFor(ctx, domain.FoodRef{Source: domain.SourceReference, ID: id})
}

func summarize(f domain.Food) domain.FoodSummary {
	summary := domain.FoodSummary{
		ID:       f.Ref.ID,
		Source:   f.Ref.Source,
		Name:     f.Name,
		DataType: f.DataType,
	}
	if f.Ref.Source == domain.SourceCustom {
		per100g := f.Per100g
		summary.Per100g = &per100g
	}
	return summary
}
