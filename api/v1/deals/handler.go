package deals

import (
	"context"
	"strconv"
	"time"

	"go_crm/internal/httpx"
	"go_crm/internal/pipeline"

	"github.com/gin-gonic/gin"
)

// Handler serves the deal pipeline endpoints
type Handler struct {
	svc     *pipeline.Service
	timeout time.Duration
}

// NewHandler creates a deals handler. timeout bounds one transition request;
// exceeding it rolls the transaction back.
func NewHandler(svc *pipeline.Service, timeout time.Duration) *Handler {
	return &Handler{svc: svc, timeout: timeout}
}

// TransitionStage handles PUT /deals/:id/stage
func (h *Handler) TransitionStage(c *gin.Context) {
	dealID, err := strconv.Atoi(c.Param("id"))
	if err != nil || dealID <= 0 {
		httpx.FailErr(c, httpx.ErrValidation("invalid deal id"))
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrValidation("invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result, err := h.svc.TransitionStage(ctx, dealID, req.StageID, req.Notes, req.Trigger(), actorFrom(c))
	if err != nil {
		httpx.FailAny(c, err)
		return
	}

	httpx.OK(c, result)
}

// History handles GET /deals/:id/history
func (h *Handler) History(c *gin.Context) {
	dealID, err := strconv.Atoi(c.Param("id"))
	if err != nil || dealID <= 0 {
		httpx.FailErr(c, httpx.ErrValidation("invalid deal id"))
		return
	}

	rows, err := h.svc.History(c.Request.Context(), dealID)
	if err != nil {
		httpx.FailAny(c, err)
		return
	}

	httpx.OK(c, gin.H{"items": rows})
}

// AutomationLog handles GET /deals/:id/automation-log
func (h *Handler) AutomationLog(c *gin.Context) {
	dealID, err := strconv.Atoi(c.Param("id"))
	if err != nil || dealID <= 0 {
		httpx.FailErr(c, httpx.ErrValidation("invalid deal id"))
		return
	}

	rows, err := h.svc.AutomationLog(c.Request.Context(), dealID)
	if err != nil {
		httpx.FailAny(c, err)
		return
	}

	httpx.OK(c, gin.H{"items": rows})
}

// actorFrom builds the acting user from the auth middleware context
func actorFrom(c *gin.Context) pipeline.Actor {
	uid, _ := c.Get("uid")
	username, _ := c.Get("username")
	role, _ := c.Get("role")

	actor := pipeline.Actor{}
	if v, ok := uid.(int); ok {
		actor.ID = v
	}
	if v, ok := username.(string); ok {
		actor.Username = v
	}
	if v, ok := role.(string); ok {
		actor.Role = v
	}
	return actor
}
