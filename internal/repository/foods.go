package repository

import (
	"context"
	"strings"

	"github.com/vladimiradmaev/nutrition-helper/internal/database"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
	"gorm.io/gorm"
)

// CustomFoodRepository handles user-authored foods
type CustomFoodRepository struct {
	db *gorm.DB
}

// NewCustomFoodRepository creates a new custom food repository
func NewCustomFoodRepository(db *gorm.DB) *CustomFoodRepository {
	return &CustomFoodRepository{db: db}
}

func errFoodNotFound(id int64) error {
	return apperrors.NewNotFoundError("FOOD_NOT_FOUND", "Custom food not found").WithContext("food_id", id)
}

func (r *CustomFoodRepository) owned(ctx context.Context, userID uint) *gorm.DB {
	return r.db.WithContext(ctx).Where("is_custom = ? AND created_by = ?", true, userID)
}

// Create persists a new custom food using food.Ref.ID as identifier
func (r *CustomFoodRepository) Create(ctx context.Context, food *domain.Food) error {
	row := database.CustomFood{
		FdcID:           food.Ref.ID,
		Name:            food.Name,
		CaloriesPer100g: food.Per100g.Calories,
		ProteinPer100g:  food.Per100g.ProteinG,
		CarbsPer100g:    food.Per100g.CarbsG,
		FatPer100g:      food.Per100g.FatG,
		FiberPer100g:    food.Per100g.FiberG,
		IsCustom:        true,
		CreatedBy:       food.CreatedBy,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return dbError(err, "create custom food")
	}
	*food = customToDomain(row)
	return nil
}

// Get returns a custom food owned by userID
func (r *CustomFoodRepository) Get(ctx context.Context, userID uint, id int64) (*domain.Food, error) {
	var row database.CustomFood
	if err := r.owned(ctx, userID).Where("fdc_id = ?", id).First(&row).Error; err != nil {
		if isNotFound(err) {
			return nil, errFoodNotFound(id)
		}
		return nil, dbError(err, "get custom food")
	}
	food := customToDomain(row)
	return &food, nil
}

// GetMany returns custom foods by id regardless of owner; missing ids are
// simply absent from the result
func (r *CustomFoodRepository) GetMany(ctx context.Context, ids []int64) (map[int64]domain.Food, error) {
	out := make(map[int64]domain.Food, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []database.CustomFood
	if err := r.db.WithContext(ctx).Where("is_custom = ? AND fdc_id IN ?", true, ids).Find(&rows).Error; err != nil {
		return nil, dbError(err, "get custom foods")
	}
	for _, row := range rows {
		out[row.FdcID] = customToDomain(row)
	}
	return out, nil
}

// Update overwrites the attributes of a custom food owned by userID
func (r *CustomFoodRepository) Update(ctx context.Context, userID uint, id int64, in domain.CustomFoodInput) (*domain.Food, error) {
	var calories float64
	if in.CaloriesPer100g != nil {
		calories = *in.CaloriesPer100g
	}
	result := r.owned(ctx, userID).
		Model(&database.CustomFood{}).
		Where("fdc_id = ?", id).
		Updates(map[string]interface{}{
			"name":              strings.TrimSpace(in.Name),
			"calories_per_100g": calories,
			"protein_per_100g":  in.ProteinPer100g,
			"carbs_per_100g":    in.CarbsPer100g,
			"fat_per_100g":      in.FatPer100g,
			"fiber_per_100g":    in.FiberPer100g,
		})
	if result.Error != nil {
		return nil, dbError(result.Error, "update custom food")
	}
	if result.RowsAffected == 0 {
		return nil, errFoodNotFound(id)
	}
	return r.Get(ctx, userID, id)
}

// DeleteWithLogs removes every log entry referencing the food, then the food
func (r *CustomFoodRepository) DeleteWithLogs(ctx context.Context, userID uint, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row database.CustomFood
		err := tx.Where("is_custom = ? AND created_by = ? AND fdc_id = ?", true, userID, id).First(&row).Error
		if isNotFound(err) {
			return errFoodNotFound(id)
		}
		if err != nil {
			return dbError(err, "find custom food")
		}

		if err := tx.Where("food_id = ? AND food_source = ?", id, string(domain.SourceCustom)).
			Delete(&database.FoodLog{}).Error; err != nil {
			return dbError(err, "delete food logs")
		}
		if err := tx.Delete(&row).Error; err != nil {
			return dbError(err, "delete custom food")
		}
		return nil
	})
}

// Search lists the user's custom foods, newest first, optionally filtered
// by a case-insensitive substring
func (r *CustomFoodRepository) Search(ctx context.Context, userID uint, query string, limit, offset int) ([]domain.Food, error) {
	q := r.owned(ctx, userID)
	if query = strings.TrimSpace(query); query != "" {
		q = q.Where("LOWER(name) LIKE ? "+likeEscape, containsPattern(query))
	}

	var rows []database.CustomFood
	if err := q.Order("created_at DESC, fdc_id DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, dbError(err, "search custom foods")
	}

	foods := make([]domain.Food, 0, len(rows))
	for _, row := range rows {
		foods = append(foods, customToDomain(row))
	}
	return foods, nil
}

// FindByName returns the newest custom food whose name contains name, or
// nil when none does
func (r *CustomFoodRepository) FindByName(ctx context.Context, userID uint, name string) (*domain.Food, error) {
	var row database.CustomFood
	err := r.owned(ctx, userID).
		Where("LOWER(name) LIKE ? "+likeEscape, containsPattern(strings.TrimSpace(name))).
		Order("created_at DESC, fdc_id DESC").
		First(&row).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError(err, "find custom food by name")
	}
	food := customToDomain(row)
	return &food, nil
}

func customToDomain(row database.CustomFood) domain.Food {
	return domain.Food{
		Ref:  domain.FoodRef{Source: domain.SourceCustom, ID: row.FdcID},
		Name: row.Name,
		Per100g: domain.Macros{
			Calories: row.CaloriesPer100g,
			ProteinG: row.ProteinPer100g,
			CarbsG:   row.CarbsPer100g,
			FatG:     row.FatPer100g,
			FiberG:   row.FiberPer100g,
		},
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
	}
}
