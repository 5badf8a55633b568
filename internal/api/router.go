package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
	"github.com/vladimiradmaev/nutrition-helper/internal/interfaces"
	"github.com/vladimiradmaev/nutrition-helper/internal/logger"
)

// Dependencies holds the services exposed over HTTP
type Dependencies struct {
	Catalog   interfaces.CatalogServiceInterface
	Logs      interfaces.LogServiceInterface
	Profiles  interfaces.ProfileServiceInterface
	Assistant interfaces.AssistantServiceInterface
}

// Handler serves the JSON API
type Handler struct {
	deps Dependencies
	errs *apperrors.Handler
}

// NewRouter builds the gin engine with every route registered
func NewRouter(deps Dependencies, jwtSecret string) *gin.Engine {
	h := &Handler{
		deps: deps,
		errs: apperrors.NewHandler(logger.GetLogger()),
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(Auth(jwtSecret))
	{
		api.GET("/search", h.search)

		foods := api.Group("/foods")
		{
			foods.GET("", h.listFoods)
			foods.POST("", h.createFood)
			foods.PUT("/:id", h.updateFood)
			foods.DELETE("/:id", h.deleteFood)
		}

		reference := api.Group("/reference")
		{
			reference.GET("", h.searchReference)
			reference.GET("/:fdcId/nutrients", h.referenceNutrients)
			reference.GET("/:fdcId/macros", h.referenceMacros)
		}

		logs := api.Group("/logs")
		{
			logs.POST("", h.createLog)
			logs.GET("/today", h.today(false))
			logs.GET("/today/detailed", h.today(true))
			logs.GET("/by-date", h.byDate(false))
			logs.GET("/by-date/detailed", h.byDate(true))
			logs.GET("/entries/:id", h.getLog)
			logs.DELETE("/:id", h.deleteLog)
		}

		api.GET("/nutrition/targets", h.targets)

		api.GET("/profile", h.getProfile)
		api.PUT("/profile", h.upsertProfile)
		api.POST("/profile", h.upsertProfile)

		api.POST("/ai/chat", h.chat)
	}

	return r
}
