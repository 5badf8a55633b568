package repository

import (
	"context"

	"github.com/vladimiradmaev/nutrition-helper/internal/database"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	"gorm.io/gorm"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreateByTelegramID gets an existing user or creates a new one
func (r *UserRepository) GetOrCreateByTelegramID(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error) {
	var user database.User
	err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error
	if err == nil {
		return userToDomain(user), nil
	}
	if !isNotFound(err) {
		return nil, dbError(err, "get user")
	}

	user = database.User{
		TelegramID: &telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, dbError(err, "create user")
	}
	return userToDomain(user), nil
}

func userToDomain(row database.User) *domain.User {
	u := &domain.User{
		ID:        row.ID,
		Username:  row.Username,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		CreatedAt: row.CreatedAt,
	}
	if row.TelegramID != nil {
		u.TelegramID = *row.TelegramID
	}
	return u
}
