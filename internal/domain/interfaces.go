package domain

import (
	"context"
	"time"
)

// CustomFoodRepository stores user-authored foods
type CustomFoodRepository interface {
	Create(ctx context.Context, food *Food) error
	Get(ctx context.Context, userID uint, id int64) (*Food, error)
	GetMany(ctx context.Context, ids []int64) (map[int64]Food, error)
	Update(ctx context.Context, userID uint, id int64, in CustomFoodInput) (*Food, error)
	DeleteWithLogs(ctx context.Context, userID uint, id int64) error
	Search(ctx context.Context, userID uint, query string, limit, offset int) ([]Food, error)
	FindByName(ctx context.Context, userID uint, name string) (*Food, error)
}

// NutrientAmount is one row of the reference nutrient-amount table
type NutrientAmount struct {
	FoodID     int64
	NutrientID int64
	Amount     float64
}

// ReferenceRepository reads the imported public nutrition dataset
type ReferenceRepository interface {
	Search(ctx context.Context, query string, limit, offset int) ([]Food, error)
	Get(ctx context.Context, id int64) (*Food, error)
	GetMany(ctx context.Context, ids []int64) (map[int64]Food, error)
	Amounts(ctx context.Context, foodIDs []int64, nutrientIDs []int64) ([]NutrientAmount, error)
	Nutrients(ctx context.Context, id int64) ([]Nutrient, error)
}

// LogRepository stores consumption events
type LogRepository interface {
	Create(ctx context.Context, entry *LogEntry) error
	Get(ctx context.Context, userID, id uint) (*LogEntry, error)
	Delete(ctx context.Context, userID, id uint) error
	DeleteMostRecent(ctx context.Context, userID uint) (*LogEntry, error)
	ListBetween(ctx context.Context, userID uint, start, end time.Time) ([]LogEntry, error)
}

// ProfileRepository stores one profile per user
type ProfileRepository interface {
	Get(ctx context.Context, userID uint) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error
}

// UserRepository maps telegram accounts to application users
type UserRepository interface {
	GetOrCreateByTelegramID(ctx context.Context, telegramID int64, username, firstName, lastName string) (*User, error)
}

// ExchangeRepository records assistant exchanges
type ExchangeRepository interface {
	Record(ctx context.Context, exchange Exchange) error
}

// IntentClassifier turns free text into a structured intent
type IntentClassifier interface {
	ClassifyIntent(ctx context.Context, message string) (*Intent, error)
}

// MacroEstimator estimates per-100 g macros for a food name
type MacroEstimator interface {
	EstimateMacros(ctx context.Context, foodName string) (Macros, error)
}

// ChatResponder produces a short conversational reply
type ChatResponder interface {
	Chat(ctx context.Context, message string) (string, error)
}
