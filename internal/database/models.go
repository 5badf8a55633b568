package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	TelegramID *int64 `gorm:"uniqueIndex"`
	Username   string
	FirstName  string
	LastName   string
}

// CustomFood shares the "foods" table layout of the dataset importer; only
// rows flagged IsCustom are ever touched by the application.
type CustomFood struct {
	FdcID           int64   `gorm:"primaryKey;autoIncrement:false"`
	Name            string  `gorm:"not null"`
	CaloriesPer100g float64 `gorm:"column:calories_per_100g"`
	ProteinPer100g  float64 `gorm:"column:protein_per_100g"`
	CarbsPer100g    float64 `gorm:"column:carbs_per_100g"`
	FatPer100g      float64 `gorm:"column:fat_per_100g"`
	FiberPer100g    float64 `gorm:"column:fiber_per_100g"`
	IsCustom        bool    `gorm:"not null;index"`
	CreatedBy       uint    `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (CustomFood) TableName() string { return "foods" }

type ReferenceFood struct {
	FdcID           int64  `gorm:"primaryKey;autoIncrement:false"`
	Description     string `gorm:"not null"`
	DataType        string
	PublicationDate string
}

func (ReferenceFood) TableName() string { return "fdc_food" }

type ReferenceNutrient struct {
	ID       int64 `gorm:"primaryKey;autoIncrement:false"`
	Name     string
	UnitName string
	Rank     *float64
}

func (ReferenceNutrient) TableName() string { return "fdc_nutrient" }

type ReferenceFoodNutrient struct {
	ID         int64 `gorm:"primaryKey"`
	FdcID      int64 `gorm:"index:idx_fdc_food_nutrient_food"`
	NutrientID int64 `gorm:"index"`
	Amount     float64
}

func (ReferenceFoodNutrient) TableName() string { return "fdc_food_nutrient" }

type FoodLog struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"not null;index:idx_food_logs_user_eaten,priority:1"`
	FoodID     int64     `gorm:"not null;index"`
	FoodSource string    `gorm:"not null;size:16"`
	QuantityG  float64   `gorm:"not null"`
	EatenAt    time.Time `gorm:"not null;index:idx_food_logs_user_eaten,priority:2"`
	CreatedAt  time.Time
}

type UserProfile struct {
	UserID        uint `gorm:"primaryKey;autoIncrement:false"`
	Age           int
	Gender        string
	HeightCm      float64
	WeightKg      float64
	ActivityLevel string
	Goal          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type AssistantExchange struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"index"`
	Message   string
	Action    string
	Intent    datatypes.JSON
	Reply     string
	Failed    bool
	CreatedAt time.Time
}

// Models lists every table managed by AutoMigrate
func Models() []interface{} {
	return []interface{}{
		&User{},
		&CustomFood{},
		&ReferenceFood{},
		&ReferenceNutrient{},
		&ReferenceFoodNutrient{},
		&FoodLog{},
		&UserProfile{},
		&AssistantExchange{},
	}
}
