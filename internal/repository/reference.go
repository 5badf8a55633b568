package repository

import (
	"context"
	"strings"

	"github.com/vladimiradmaev/nutrition-helper/internal/database"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
	"gorm.io/gorm"
)

// ReferenceRepository reads the imported nutrition dataset. It never writes.
type ReferenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository creates a new reference dataset repository
func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// Search matches food descriptions case-insensitively, highest id first
func (r *ReferenceRepository) Search(ctx context.Context, query string, limit, offset int) ([]domain.Food, error) {
	var rows []database.ReferenceFood
	err := r.db.WithContext(ctx).
		Where("LOWER(description) LIKE ? "+likeEscape, containsPattern(strings.TrimSpace(query))).
		Order("fdc_id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, dbError(err, "search reference foods")
	}

	foods := make([]domain.Food, 0, len(rows))
	for _, row := range rows {
		foods = append(foods, referenceToDomain(row))
	}
	return foods, nil
}

// Get returns one dataset food
func (r *ReferenceRepository) Get(ctx context.Context, id int64) (*domain.Food, error) {
	var row database.ReferenceFood
	if err := r.db.WithContext(ctx).Where("fdc_id = ?", id).First(&row).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundError("REFERENCE_FOOD_NOT_FOUND", "Food not found").WithContext("fdc_id", id)
		}
		return nil, dbError(err, "get reference food")
	}
	food := referenceToDomain(row)
	return &food, nil
}

// GetMany returns dataset foods by id; unknown ids are absent
func (r *ReferenceRepository) GetMany(ctx context.Context, ids []int64) (map[int64]domain.Food, error) {
	out := make(map[int64]domain.Food, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []database.ReferenceFood
	if err := r.db.WithContext(ctx).Where("fdc_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, dbError(err, "get reference foods")
	}
	for _, row := range rows {
		out[row.FdcID] = referenceToDomain(row)
	}
	return out, nil
}

// Amounts returns the nutrient-amount rows for the given foods and codes
func (r *ReferenceRepository) Amounts(ctx context.Context, foodIDs []int64, nutrientIDs []int64) ([]domain.NutrientAmount, error) {
	if len(foodIDs) == 0 || len(nutrientIDs) == 0 {
		return nil, nil
	}
	var rows []database.ReferenceFoodNutrient
	err := r.db.WithContext(ctx).
		Where("fdc_id IN ? AND nutrient_id IN ?", foodIDs, nutrientIDs).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, dbError(err, "get nutrient amounts")
	}

	amounts := make([]domain.NutrientAmount, 0, len(rows))
	for _, row := range rows {
		amounts = append(amounts, domain.NutrientAmount{
			FoodID:     row.FdcID,
			NutrientID: row.NutrientID,
			Amount:     row.Amount,
		})
	}
	return amounts, nil
}

type nutrientRow struct {
	ID     int64
	Name   string
	Unit   string
	Amount float64
}

// Nutrients lists every nutrient recorded for a food, by rank then name
func (r *ReferenceRepository) Nutrients(ctx context.Context, id int64) ([]domain.Nutrient, error) {
	var rows []nutrientRow
	err := r.db.WithContext(ctx).
		Table("fdc_food_nutrient AS fn").
		Select("fn.nutrient_id AS id, n.name AS name, n.unit_name AS unit, fn.amount AS amount").
		Joins("JOIN fdc_nutrient n ON n.id = fn.nutrient_id").
		Where("fn.fdc_id = ?", id).
		Order("CASE WHEN n.rank IS NULL THEN 1 ELSE 0 END, n.rank, n.name").
		Scan(&rows).Error
	if err != nil {
		return nil, dbError(err, "list reference nutrients")
	}

	nutrients := make([]domain.Nutrient, 0, len(rows))
	for _, row := range rows {
		nutrients = append(nutrients, domain.Nutrient{ID: row.ID, Name: row.Name, Unit: row.Unit, Amount: row.Amount})
	}
	return nutrients, nil
}

func referenceToDomain(row database.ReferenceFood) domain.Food {
	return domain.Food{
		Ref:      domain.FoodRef{Source: domain.SourceReference, ID: row.FdcID},
		Name:     row.Description,
		DataType: row.DataType,
	}
}
