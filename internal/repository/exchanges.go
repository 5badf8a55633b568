package repository

import (
	"context"
	"encoding/json"

	"github.com/vladimiradmaev/nutrition-helper/internal/database"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ExchangeRepository keeps an audit trail of assistant round trips
type ExchangeRepository struct {
	db *gorm.DB
}

// NewExchangeRepository creates a new exchange repository
func NewExchangeRepository(db *gorm.DB) *ExchangeRepository {
	return &ExchangeRepository{db: db}
}

// Record stores one exchange
func (r *ExchangeRepository) Record(ctx context.Context, ex domain.Exchange) error {
	row := database.AssistantExchange{
		UserID:  ex.UserID,
		Message: ex.Message,
		Action:  string(ex.Action),
		Reply:   ex.Reply,
		Failed:  ex.Failed,
	}
	if ex.Intent != nil {
		raw, err := json.Marshal(ex.Intent)
		if err != nil {
			return dbError(err, "encode intent")
		}
		row.Intent = datatypes.JSON(raw)
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return dbError(err, "record exchange")
	}
	return nil
}

// Recent returns the user's latest exchanges, newest first
func (r *ExchangeRepository) Recent(ctx context.Context, userID uint, limit int) ([]domain.Exchange, error) {
	var rows []database.AssistantExchange
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, dbError(err, "list exchanges")
	}

	out := make([]domain.Exchange, 0, len(rows))
	for _, row := range rows {
		ex := domain.Exchange{
			UserID:  row.UserID,
			Message: row.Message,
			Action:  domain.IntentAction(row.Action),
			Reply:   row.Reply,
			Failed:  row.Failed,
		}
		if len(row.Intent) > 0 {
			var intent domain.Intent
			if err := json.Unmarshal(row.Intent, &intent); err == nil {
				ex.Intent = &intent
			}
		}
		out = append(out, ex)
	}
	return out, nil
}
