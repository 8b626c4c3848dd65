package pipeline

import (
	"go_crm/internal/analytics"
	"go_crm/internal/httpx"
	"go_crm/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler serves pipeline analytics and stage listing
type Handler struct {
	db        *gorm.DB
	analytics *analytics.Service
}

// NewHandler creates a pipeline handler
func NewHandler(db *gorm.DB, analyticsSvc *analytics.Service) *Handler {
	return &Handler{db: db, analytics: analyticsSvc}
}

// Overview handles GET /pipeline/analytics/overview
func (h *Handler) Overview(c *gin.Context) {
	snapshot, err := h.analytics.GetOverview(c.Request.Context())
	if err != nil {
		httpx.FailErr(c, httpx.ErrTransaction("failed to compute pipeline overview", err))
		return
	}

	httpx.OK(c, snapshot)
}

// Stages handles GET /pipeline/stages: active stages in funnel order
func (h *Handler) Stages(c *gin.Context) {
	var stages []model.PipelineStage
	err := h.db.
		Where("is_active = ?", true).
		Order("display_order ASC").
		Find(&stages).Error
	if err != nil {
		httpx.FailErr(c, httpx.ErrTransaction("failed to load pipeline stages", err))
		return
	}

	httpx.OK(c, gin.H{"items": stages})
}
