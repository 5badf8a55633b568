package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vladimiradmaev/nutrition-helper/internal/database/dbtest"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	"github.com/vladimiradmaev/nutrition-helper/internal/repository"
	"gorm.io/gorm"
)

type fakeEstimator struct {
	macros domain.Macros
	err    error
	calls  []string
}

func (f *fakeEstimator) EstimateMacros(ctx context.Context, name string) (domain.Macros, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return domain.Macros{}, f.err
	}
	return f.macros, nil
}

type fakeClassifier struct {
	intent *domain.Intent
	err    error
}

func (f *fakeClassifier) ClassifyIntent(ctx context.Context, message string) (*domain.Intent, error) {
	return f.intent, f.err
}

type fakeChat struct {
	reply string
	err   error
}

func (f *fakeChat) Chat(ctx context.Context, message string) (string, error) {
	return f.reply, f.err
}

type failingExchanges struct{}

func (failingExchanges) Record(ctx context.Context, ex domain.Exchange) error {
	return errors.New("disk full")
}

type testEnv struct {
	db        *gorm.DB
	repos     *repository.Repositories
	estimator *fakeEstimator
	resolver  *NutrientResolver
	catalog   *CatalogService
	logs      *LogService
	profiles  *ProfileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.New(t)
	repos := repository.New(db)
	estimator := &fakeEstimator{macros: domain.Macros{Calories: 200, ProteinG: 10, CarbsG: 20, FatG: 5, FiberG: 1}}
	resolver := NewNutrientResolver(repos.Foods, repos.Reference)
	return &testEnv{
		db:        db,
		repos:     repos,
		estimator: estimator,
		resolver:  resolver,
		catalog:   NewCatalogService(repos.Foods, repos.Reference, resolver, estimator),
		logs:      NewLogService(repos.Logs, resolver, time.UTC),
		profiles:  NewProfileService(repos.Profiles),
	}
}

func ptr[T any](v T) *T { return &v }

// createCustom adds a custom food with the given per-100 g macros
func (e *testEnv) createCustom(t *testing.T, userID uint, name string, m domain.Macros) domain.Food {
	t.Helper()
	food, err := e.catalog.Create(context.Background(), userID, domain.CustomFoodInput{
		Name:            name,
		CaloriesPer100g: ptr(m.Calories),
		ProteinPer100g:  m.ProteinG,
		CarbsPer100g:    m.CarbsG,
		FatPer100g:      m.FatG,
		FiberPer100g:    m.FiberG,
	})
	if err != nil {
		t.Fatalf("create custom food: %v", err)
	}
	return *food
}
