package repository

import (
	"context"

	"github.com/vladimiradmaev/nutrition-helper/internal/database"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository handles user profiles
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get returns the user's profile, or nil when none exists
func (r *ProfileRepository) Get(ctx context.Context, userID uint) (*domain.Profile, error) {
	var row database.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError(err, "get profile")
	}
	p := profileToDomain(row)
	return &p, nil
}

// Upsert inserts the profile or fully overwrites the existing one
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	row := database.UserProfile{
		UserID:        p.UserID,
		Age:           p.Age,
		Gender:        string(p.Gender),
		HeightCm:      p.HeightCm,
		WeightKg:      p.WeightKg,
		ActivityLevel: string(p.ActivityLevel),
		Goal:          string(p.Goal),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"age", "gender", "height_cm", "weight_kg", "activity_level", "goal", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return dbError(err, "upsert profile")
	}
	p.UpdatedAt = row.UpdatedAt
	return nil
}

func profileToDomain(row database.UserProfile) domain.Profile {
	return domain.Profile{
		UserID:        row.UserID,
		Age:           row.Age,
		Gender:        domain.Gender(row.Gender),
		HeightCm:      row.HeightCm,
		WeightKg:      row.WeightKg,
		ActivityLevel: domain.ActivityLevel(row.ActivityLevel),
		Goal:          domain.Goal(row.Goal),
		UpdatedAt:     row.UpdatedAt,
	}
}
