package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Star Buster API
// @version 1.0
// @description API for estimating whether a GitHub repository's star count is artificially inflated
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// SetupRouter configures the API routes
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", h.Health)
		v1.GET("/analyze/:owner/:repo", h.AnalyzeRepository)

		analyses := v1.Group("/analyses")
		{
			analyses.GET("", h.ListAnalyses)
			analyses.GET("/:id", h.GetAnalysis)
		}
	}

	return r
}
