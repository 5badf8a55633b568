package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
)

// MacrosPer100g uses the same keys that create and update accept
type MacrosPer100g struct {
	Calories float64 `json:"calories_per_100g"`
	Protein  float64 `json:"protein_per_100g"`
	Carbs    float64 `json:"carbs_per_100g"`
	Fat      float64 `json:"fat_per_100g"`
	Fiber    float64 `json:"fiber_per_100g"`
}

func newMacrosPer100g(m domain.Macros) MacrosPer100g {
	return MacrosPer100g{Calories: m.Calories, Protein: m.ProteinG, Carbs: m.CarbsG, Fat: m.FatG, Fiber: m.FiberG}
}

type foodResponse struct {
	ID        int64             `json:"id"`
	Source    domain.FoodSource `json:"source"`
	Name      string            `json:"name"`
	DataType  string            `json:"data_type,omitempty"`
	CreatedAt *time.Time        `json:"created_at,omitempty"`
	MacrosPer100g
}

func newFoodResponse(f *domain.Food) foodResponse {
	resp := foodResponse{
		ID:            f.Ref.ID,
		Source:        f.Ref.Source,
		Name:          f.Name,
		DataType:      f.DataType,
		MacrosPer100g: newMacrosPer100g(f.Per100g),
	}
	if !f.CreatedAt.IsZero() {
		created := f.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

// summaryResponse is a search hit; reference hits carry no macros
type summaryResponse struct {
	ID       int64             `json:"id"`
	Source   domain.FoodSource `json:"source"`
	Name     string            `json:"name"`
	DataType string            `json:"data_type,omitempty"`
	*MacrosPer100g
}

func newSummaries(hits []domain.FoodSummary) []summaryResponse {
	out := make([]summaryResponse, 0, len(hits))
	for _, h := range hits {
		resp := summaryResponse{ID: h.ID, Source: h.Source, Name: h.Name, DataType: h.DataType}
		if h.Per100g != nil {
			p := newMacrosPer100g(*h.Per100g)
			resp.MacrosPer100g = &p
		}
		out = append(out, resp)
	}
	return out
}

// GET /api/search?q=rice&limit=10
func (h *Handler) search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	foods, err := h.deps.Catalog.Search(c.Request.Context(), currentUserID(c), q, queryInt(c, "limit"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"q": q, "foods": newSummaries(foods)})
}

// GET /api/foods?q=&limit=&offset=
func (h *Handler) listFoods(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	foods, err := h.deps.Catalog.ListCustom(c.Request.Context(), currentUserID(c), q, queryInt(c, "limit"), queryInt(c, "offset"))
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]foodResponse, 0, len(foods))
	for i := range foods {
		out = append(out, newFoodResponse(&foods[i]))
	}
	c.JSON(http.StatusOK, gin.H{"q": q, "offset": queryInt(c, "offset"), "foods": out})
}

func (h *Handler) createFood(c *gin.Context) {
	var in domain.CustomFoodInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, apperrors.NewValidationError("invalid body"))
		return
	}
	food, err := h.deps.Catalog.Create(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Food created", "food": newFoodResponse(food)})
}

func (h *Handler) updateFood(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var in domain.CustomFoodInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, apperrors.NewValidationError("invalid body"))
		return
	}
	food, err := h.deps.Catalog.Update(c.Request.Context(), currentUserID(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Food updated", "food": newFoodResponse(food)})
}

func (h *Handler) deleteFood(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.deps.Catalog.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Food deleted"})
}

// GET /api/reference?q=banana&limit=&offset=
func (h *Handler) searchReference(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	foods, err := h.deps.Catalog.SearchReference(c.Request.Context(), q, queryInt(c, "limit"), queryInt(c, "offset"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"q": q, "offset": queryInt(c, "offset"), "foods": newSummaries(foods)})
}

func (h *Handler) referenceNutrients(c *gin.Context) {
	id, err := paramID(c, "fdcId")
	if err != nil {
		h.fail(c, err)
		return
	}
	food, nutrients, err := h.deps.Catalog.ReferenceNutrients(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"food": newFoodResponse(food), "nutrients": nutrients})
}

func (h *Handler) referenceMacros(c *gin.Context) {
	id, err := paramID(c, "fdcId")
	if err != nil {
		h.fail(c, err)
		return
	}
	macros, err := h.deps.Catalog.ReferenceMacros(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fdc_id": id, "per_100g": newMacrosPer100g(macros)})
}
