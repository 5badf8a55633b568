package interfaces

import (
	"context"

	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	"github.com/vladimiradmaev/nutrition-helper/internal/services"
)

// UserServiceInterface defines the contract for user operations
type UserServiceInterface interface {
	RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error)
}

// CatalogServiceInterface defines the contract for food search and custom food management
type CatalogServiceInterface interface {
	Search(ctx context.Context, userID uint, query string, limit int) ([]domain.FoodSummary, error)
	ListCustom(ctx context.Context, userID uint, query string, limit, offset int) ([]domain.Food, error)
	Create(ctx context.Context, userID uint, in domain.CustomFoodInput) (*domain.Food, error)
	Update(ctx context.Context, userID uint, id int64, in domain.CustomFoodInput) (*domain.Food, error)
	Delete(ctx context.Context, userID uint, id int64) error
	SearchReference(ctx context.Context, query string, limit, offset int) ([]domain.FoodSummary, error)
	ReferenceNutrients(ctx context.Context, id int64) (*domain.Food, []domain.Nutrient, error)
	ReferenceMacros(ctx context.Context, id int64) (domain.Macros, error)
}

// LogServiceInterface defines the contract for food logging and daily totals
type LogServiceInterface interface {
	Create(ctx context.Context, userID uint, in services.CreateLogInput) (*domain.LogEntry, error)
	Get(ctx context.Context, userID, id uint) (*domain.LogLine, error)
	Delete(ctx context.Context, userID, id uint) error
	DeleteMostRecent(ctx context.Context, userID uint) (bool, error)
	Today(ctx context.Context, userID uint, detailed bool) (*domain.DaySummary, error)
	ByDate(ctx context.Context, userID uint, date string, detailed bool) (*domain.DaySummary, error)
}

// ProfileServiceInterface defines the contract for profile and target operations
type ProfileServiceInterface interface {
	Get(ctx context.Context, userID uint) (*domain.Profile, error)
	Upsert(ctx context.Context, userID uint, patch domain.ProfilePatch) (*domain.Profile, error)
	Targets(ctx context.Context, userID uint) (*domain.Targets, *domain.Profile, error)
}

// AssistantServiceInterface defines the contract for the conversational assistant
type AssistantServiceInterface interface {
	Handle(ctx context.Context, userID uint, message string) (string, error)
}
