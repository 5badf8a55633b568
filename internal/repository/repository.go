package repository

import (
	"errors"
	"strings"

	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
	"gorm.io/gorm"
)

// Repositories bundles every gorm-backed repository over one connection
type Repositories struct {
	Foods     *CustomFoodRepository
	Reference *ReferenceRepository
	Logs      *LogRepository
	Profiles  *ProfileRepository
	Users     *UserRepository
	Exchanges *ExchangeRepository
}

// New creates all repositories
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Foods:     NewCustomFoodRepository(db),
		Reference: NewReferenceRepository(db),
		Logs:      NewLogRepository(db),
		Profiles:  NewProfileRepository(db),
		Users:     NewUserRepository(db),
		Exchanges: NewExchangeRepository(db),
	}
}

const likeEscape = "ESCAPE '\\'"

// containsPattern builds a lower-cased LIKE pattern matching s anywhere,
// with LIKE metacharacters in s taken literally
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func dbError(err error, op string) error {
	return apperrors.NewDatabaseError(err).WithContext("operation", op)
}
