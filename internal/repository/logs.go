package repository

import (
	"context"
	"time"

	"github.com/vladimiradmaev/nutrition-helper/internal/database"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
	"gorm.io/gorm"
)

// LogRepository handles food log entries
type LogRepository struct {
	db *gorm.DB
}

// NewLogRepository creates a new log repository
func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

func errLogNotFound(id uint) error {
	return apperrors.NewNotFoundError("LOG_NOT_FOUND", "Log not found").WithContext("log_id", id)
}

// Create stores a new entry. A zero EatenAt means now.
func (r *LogRepository) Create(ctx context.Context, entry *domain.LogEntry) error {
	eatenAt := entry.EatenAt
	if eatenAt.IsZero() {
		eatenAt = time.Now()
	}
	row := database.FoodLog{
		UserID:     entry.UserID,
		FoodID:     entry.Food.ID,
		FoodSource: string(entry.Food.Source),
		QuantityG:  entry.Quantity,
		EatenAt:    eatenAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return dbError(err, "create food log")
	}
	*entry = logToDomain(row)
	return nil
}

// Get returns an entry owned by userID
func (r *LogRepository) Get(ctx context.Context, userID, id uint) (*domain.LogEntry, error) {
	var row database.FoodLog
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
		if isNotFound(err) {
			return nil, errLogNotFound(id)
		}
		return nil, dbError(err, "get food log")
	}
	entry := logToDomain(row)
	return &entry, nil
}

// Delete removes an entry owned by userID
func (r *LogRepository) Delete(ctx context.Context, userID, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&database.FoodLog{})
	if result.Error != nil {
		return dbError(result.Error, "delete food log")
	}
	if result.RowsAffected == 0 {
		return errLogNotFound(id)
	}
	return nil
}

// DeleteMostRecent removes the latest-eaten entry of the user and returns
// it, or returns nil when the user has no entries
func (r *LogRepository) DeleteMostRecent(ctx context.Context, userID uint) (*domain.LogEntry, error) {
	var deleted *domain.LogEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row database.FoodLog
		err := tx.Where("user_id = ?", userID).Order("eaten_at DESC, id DESC").First(&row).Error
		if isNotFound(err) {
			return nil
		}
		if err != nil {
			return dbError(err, "find latest food log")
		}

		result := tx.Where("id = ?", row.ID).Delete(&database.FoodLog{})
		if result.Error != nil {
			return dbError(result.Error, "delete latest food log")
		}
		if result.RowsAffected == 0 {
			return nil
		}
		entry := logToDomain(row)
		deleted = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// ListBetween returns the user's entries eaten in [start, end), latest first
func (r *LogRepository) ListBetween(ctx context.Context, userID uint, start, end time.Time) ([]domain.LogEntry, error) {
	var rows []database.FoodLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND eaten_at >= ? AND eaten_at < ?", userID, start.UTC(), end.UTC()).
		Order("eaten_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, dbError(err, "list food logs")
	}

	entries := make([]domain.LogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, logToDomain(row))
	}
	return entries, nil
}

func logToDomain(row database.FoodLog) domain.LogEntry {
	return domain.LogEntry{
		ID:        row.ID,
		UserID:    row.UserID,
		Food:      domain.FoodRef{Source: domain.FoodSource(row.FoodSource), ID: row.FoodID},
		Quantity:  row.QuantityG,
		EatenAt:   row.EatenAt,
		CreatedAt: row.CreatedAt,
	}
}
