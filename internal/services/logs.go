package services

import (
	"context"
	"strings"
	"time"

	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
	"github.com/vladimiradmaev/nutrition-helper/internal/logger"
	"github.com/vladimiradmaev/nutrition-helper/internal/utils"
)

// CreateLogInput is a request to record a consumed quantity of a food
type CreateLogInput struct {
	Food     domain.FoodRef
	Quantity float64
	EatenAt  *time.Time
}

// LogService records consumption and aggregates it over day windows
type LogService struct {
	logs     domain.LogRepository
	resolver *NutrientResolver
	loc      *time.Location
	now      func() time.Time
}

func NewLogService(logs domain.LogRepository, resolver *NutrientResolver, loc *time.Location) *LogService {
	if loc == nil {
		loc = time.Local
	}
	return &LogService{logs: logs, resolver: resolver, loc: loc, now: time.Now}
}

// Create validates the food and quantity and appends a log entry
func (s *LogService) Create(ctx context.Context, userID uint, in CreateLogInput) (*domain.LogEntry, error) {
	if in.Food.ID == 0 {
		return nil, apperrors.NewMissingParameterError("food_id")
	}
	if in.Food.Source != "" && !in.Food.Source.Valid() {
		return nil, apperrors.NewValidationError("source must be custom or reference")
	}
	if in.Quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity_g must be greater than 0")
	}

	ref, err := s.resolver.Loggable(ctx, userID, in.Food)
	if err != nil {
		return nil, err
	}
	in.Food = ref

	entry := &domain.LogEntry{UserID: userID, Food: in.Food, Quantity: in.Quantity}
	if in.EatenAt != nil {
		entry.EatenAt = *in.EatenAt
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("Food logged", "log_id", entry.ID, "source", entry.Food.Source, "food_id", entry.Food.ID, "quantity_g", entry.Quantity)
	return entry, nil
}

// Get returns one entry with its computed nutrition
func (s *LogService) Get(ctx context.Context, userID, id uint) (*domain.LogLine, error) {
	entry, err := s.logs.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	lines, _, err := s.compute(ctx, []domain.LogEntry{*entry})
	if err != nil {
		return nil, err
	}
	return &lines[0], nil
}

// Delete removes one entry owned by the user
func (s *LogService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.logs.Delete(ctx, userID, id); err != nil {
		return err
	}
	logger.WithContext(ctx).Info("Food log deleted", "log_id", id)
	return nil
}

// DeleteMostRecent removes the latest-eaten entry and reports whether one existed
func (s *LogService) DeleteMostRecent(ctx context.Context, userID uint) (bool, error) {
	deleted, err := s.logs.DeleteMostRecent(ctx, userID)
	if err != nil {
		return false, err
	}
	if deleted == nil {
		return false, nil
	}
	logger.WithContext(ctx).Info("Most recent food log deleted", "log_id", deleted.ID)
	return true, nil
}

// Today aggregates the current calendar day
func (s *LogService) Today(ctx context.Context, userID uint, detailed bool) (*domain.DaySummary, error) {
	start, end := utils.DayWindow(s.now(), s.loc)
	return s.window(ctx, userID, start, end, detailed)
}

// ByDate aggregates an explicit YYYY-MM-DD calendar day
func (s *LogService) ByDate(ctx context.Context, userID uint, date string, detailed bool) (*domain.DaySummary, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, apperrors.NewMissingParameterError("date")
	}
	start, end, err := utils.ParseDay(date, s.loc)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error()).WithContext("date", date)
	}
	summary, err := s.window(ctx, userID, start, end, detailed)
	if err != nil {
		return nil, err
	}
	summary.Date = date
	return summary, nil
}

func (s *LogService) window(ctx context.Context, userID uint, start, end time.Time, detailed bool) (*domain.DaySummary, error) {
	entries, err := s.logs.ListBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	lines, total, err := s.compute(ctx, entries)
	if err != nil {
		return nil, err
	}

	summary := &domain.DaySummary{
		Date:   start.Format(utils.DateLayout),
		Logs:   lines,
		Totals: roundMacros(total),
	}

	if detailed {
		portions := make([]domain.Portion, 0, len(entries))
		for _, e := range entries {
			portions = append(portions, domain.Portion{Food: e.Food, Quantity: e.Quantity})
		}
		micros, err := s.resolver.MicrosFor(ctx, portions)
		if err != nil {
			return nil, err
		}
		summary.Micros = micros
	}
	return summary, nil
}

// compute scales each entry's macro profile by quantity/100. Each line is
// rounded on its own; the returned total is the unrounded sum.
func (s *LogService) compute(ctx context.Context, entries []domain.LogEntry) ([]domain.LogLine, domain.Macros, error) {
	refs := make([]domain.FoodRef, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, e.Food)
	}
	foods, err := s.resolver.Resolve(ctx, refs)
	if err != nil {
		return nil, domain.Macros{}, err
	}

	lines := make([]domain.LogLine, 0, len(entries))
	var total domain.Macros
	for _, e := range entries {
		food := foods[e.Food]
		computed := food.Per100g.Scale(e.Quantity / 100)
		total = total.Add(computed)

		lines = append(lines, domain.LogLine{
			ID:       e.ID,
			EatenAt:  e.EatenAt,
			Quantity: e.Quantity,
			Food: domain.LoggedFood{
				ID:     e.Food.ID,
				Name:   food.Name,
				Source: e.Food.Source,
			},
			Computed: roundMacros(computed),
		})
	}
	return lines, total, nil
}

func roundMacros(m domain.Macros) domain.RoundedMacros {
	return domain.RoundedMacros{
		Calories: roundHalfUp(m.Calories),
		ProteinG: roundHalfUp(m.ProteinG),
		CarbsG:   roundHalfUp(m.CarbsG),
		FatG:     roundHalfUp(m.FatG),
		FiberG:   roundHalfUp(m.FiberG),
	}
}
