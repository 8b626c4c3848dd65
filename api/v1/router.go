package v1

import (
	"time"

	"go_crm/api/v1/auth"
	"go_crm/api/v1/deals"
	"go_crm/api/v1/middleware"
	apipipeline "go_crm/api/v1/pipeline"
	"go_crm/api/v1/rules"
	"go_crm/internal/analytics"
	"go_crm/internal/config"
	"go_crm/internal/httpx"
	"go_crm/internal/pipeline"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries the wired services the routes need.
type Deps struct {
	DB         *gorm.DB
	Config     *config.Config
	Transition *pipeline.Service
	Analytics  *analytics.Service
}

// SetupRouter sets up the API v1 routes
func SetupRouter(r *gin.Engine, deps *Deps) {
	v1 := r.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.GET("/ping", pingHandler)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", auth.LoginHandler(deps.DB, deps.Config))
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/me", meHandler)

			dealsHandler := deals.NewHandler(deps.Transition,
				time.Duration(deps.Config.Transition.TimeoutSec)*time.Second)
			dealsGroup := protected.Group("/deals")
			{
				dealsGroup.PUT("/:id/stage", dealsHandler.TransitionStage)
				dealsGroup.GET("/:id/history", dealsHandler.History)
				dealsGroup.GET("/:id/automation-log", dealsHandler.AutomationLog)
			}

			pipelineHandler := apipipeline.NewHandler(deps.DB, deps.Analytics)
			rulesHandler := rules.NewHandler(deps.DB)
			pipelineGroup := protected.Group("/pipeline")
			{
				pipelineGroup.GET("/stages", pipelineHandler.Stages)
				pipelineGroup.GET("/analytics/overview", pipelineHandler.Overview)

				pipelineGroup.GET("/automation/rules", rulesHandler.List)
				pipelineGroup.POST("/automation/rules", rulesHandler.Create)
				pipelineGroup.PUT("/automation/rules/:id", rulesHandler.Update)
				pipelineGroup.DELETE("/automation/rules/:id", rulesHandler.Delete)
			}
		}
	}
}

// pingHandler handles the ping request using unified response
func pingHandler(c *gin.Context) {
	httpx.OK(c, gin.H{
		"pong": true,
	})
}

// meHandler returns current user information
func meHandler(c *gin.Context) {
	uid, _ := c.Get("uid")
	username, _ := c.Get("username")
	role, _ := c.Get("role")

	httpx.OK(c, gin.H{
		"uid":      uid,
		"username": username,
		"role":     role,
	})
}
