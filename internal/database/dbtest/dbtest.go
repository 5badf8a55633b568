// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/vladimiradmaev/nutrition-helper/internal/database"
	"gorm.io/gorm"
)

// New returns a migrated SQLite database living in the test's temp dir
func New(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(sqlite.Open(path))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// SeedReferenceFood inserts a dataset food with the given nutrient amounts
func SeedReferenceFood(t testing.TB, db *gorm.DB, fdcID int64, description string, amounts map[int64]float64) {
	t.Helper()

	if err := db.Create(&database.ReferenceFood{FdcID: fdcID, Description: description, DataType: "foundation_food"}).Error; err != nil {
		t.Fatalf("failed to seed reference food: %v", err)
	}
	for nutrientID, amount := range amounts {
		row := database.ReferenceFoodNutrient{FdcID: fdcID, NutrientID: nutrientID, Amount: amount}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("failed to seed reference nutrient: %v", err)
		}
	}
}

// SeedNutrient inserts nutrient metadata
func SeedNutrient(t testing.TB, db *gorm.DB, id int64, name, unit string, rank float64) {
	t.Helper()

	if err := db.Create(&database.ReferenceNutrient{ID: id, Name: name, UnitName: unit, Rank: &rank}).Error; err != nil {
		t.Fatalf("failed to seed nutrient: %v", err)
	}
}
