package services

import (
	"context"

	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
)

type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// RegisterUser maps a telegram account to an application user, creating it
// on first contact
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error) {
	return s.users.GetOrCreateByTelegramID(ctx, telegramID, username, firstName, lastName)
}
