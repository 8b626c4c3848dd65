package rules

import (
	"database/sql"
	"errors"
	"strconv"

	"go_crm/internal/automation"
	"go_crm/internal/httpx"
	"go_crm/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Handler manages automation rules
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a rules handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// RuleItem is a rule with resolved stage names for listing
type RuleItem struct {
	ID            int                        `json:"id"`
	Name          string                     `json:"name"`
	FromStageID   *int                       `json:"from_stage_id"`
	FromStageName string                     `json:"from_stage_name"`
	ToStageID     *int                       `json:"to_stage_id"`
	ToStageName   string                     `json:"to_stage_name"`
	ActionType    model.AutomationActionType `json:"action_type"`
	ActionData    datatypes.JSON             `json:"action_data"`
	Priority      int                        `json:"priority"`
	GlobalRule    bool                       `json:"global_rule"`
}

// List handles GET /pipeline/automation/rules: active rules ordered by
// priority descending, with stage names resolved.
func (h *Handler) List(c *gin.Context) {
	var rules []model.AutomationRule
	err := h.db.
		Where("is_active = ?", true).
		Preload("FromStage").
		Preload("ToStage").
		Order("priority DESC, id ASC").
		Find(&rules).Error
	if err != nil {
		httpx.FailErr(c, httpx.ErrTransaction("failed to load automation rules", err))
		return
	}

	items := make([]RuleItem, 0, len(rules))
	for i := range rules {
		items = append(items, toItem(&rules[i]))
	}

	httpx.OK(c, gin.H{"items": items})
}

// SaveRequest is the body for rule create/update
type SaveRequest struct {
	Name       string         `json:"name" binding:"required,max=128"`
	FromStage  *int           `json:"from_stage_id"`
	ToStage    *int           `json:"to_stage_id"`
	ActionType string         `json:"action_type" binding:"required,max=32"`
	ActionData datatypes.JSON `json:"action_data"`
	Priority   int            `json:"priority"`
	IsActive   *bool          `json:"is_active"`
}

// Create handles POST /pipeline/automation/rules (admin only)
func (h *Handler) Create(c *gin.Context) {
	if !isAdmin(c) {
		httpx.FailErr(c, httpx.ErrPermission("admin role required"))
		return
	}

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrValidation("invalid request body"))
		return
	}

	rule := model.AutomationRule{
		Name:        req.Name,
		FromStageID: nullableStage(req.FromStage),
		ToStageID:   nullableStage(req.ToStage),
		ActionType:  model.AutomationActionType(req.ActionType),
		ActionData:  req.ActionData,
		Priority:    req.Priority,
		IsActive:    true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if appErr := h.validateRule(&rule, req.FromStage, req.ToStage); appErr != nil {
		httpx.FailErr(c, appErr)
		return
	}

	if err := h.db.Create(&rule).Error; err != nil {
		httpx.FailErr(c, httpx.ErrTransaction("failed to create automation rule", err))
		return
	}

	item := toItem(&rule)
	httpx.OK(c, item)
}

// Update handles PUT /pipeline/automation/rules/:id (admin only)
func (h *Handler) Update(c *gin.Context) {
	if !isAdmin(c) {
		httpx.FailErr(c, httpx.ErrPermission("admin role required"))
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		httpx.FailErr(c, httpx.ErrValidation("invalid rule id"))
		return
	}

	var rule model.AutomationRule
	if err := h.db.First(&rule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound("automation rule not found"))
			return
		}
		httpx.FailErr(c, httpx.ErrTransaction("failed to load automation rule", err))
		return
	}

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrValidation("invalid request body"))
		return
	}

	rule.Name = req.Name
	rule.FromStageID = nullableStage(req.FromStage)
	rule.ToStageID = nullableStage(req.ToStage)
	rule.ActionType = model.AutomationActionType(req.ActionType)
	rule.ActionData = req.ActionData
	rule.Priority = req.Priority
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if appErr := h.validateRule(&rule, req.FromStage, req.ToStage); appErr != nil {
		httpx.FailErr(c, appErr)
		return
	}

	if err := h.db.Save(&rule).Error; err != nil {
		httpx.FailErr(c, httpx.ErrTransaction("failed to update automation rule", err))
		return
	}

	httpx.OK(c, toItem(&rule))
}

// Delete handles DELETE /pipeline/automation/rules/:id (admin only).
// Rules are deactivated, never removed, so their log rows keep a referent.
func (h *Handler) Delete(c *gin.Context) {
	if !isAdmin(c) {
		httpx.FailErr(c, httpx.ErrPermission("admin role required"))
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		httpx.FailErr(c, httpx.ErrValidation("invalid rule id"))
		return
	}

	result := h.db.Model(&model.AutomationRule{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		httpx.FailErr(c, httpx.ErrTransaction("failed to deactivate automation rule", result.Error))
		return
	}
	if result.RowsAffected == 0 {
		httpx.FailErr(c, httpx.ErrNotFound("automation rule not found"))
		return
	}

	httpx.OK(c, gin.H{"deactivated": true})
}

// validateRule checks stage references and, for known action types, that the
// payload decodes. Unknown action types are accepted; they execute as no-ops.
func (h *Handler) validateRule(rule *model.AutomationRule, fromStage, toStage *int) *httpx.AppError {
	for _, stageID := range []*int{fromStage, toStage} {
		if stageID == nil {
			continue
		}
		var count int64
		if err := h.db.Model(&model.PipelineStage{}).Where("id = ?", *stageID).Count(&count).Error; err != nil {
			return httpx.ErrTransaction("failed to validate stage reference", err)
		}
		if count == 0 {
			return httpx.ErrValidation("referenced stage does not exist")
		}
	}

	if _, err := automation.DecodeAction(rule); err != nil {
		return httpx.ErrValidation("invalid action_data: " + err.Error())
	}

	return nil
}

func toItem(rule *model.AutomationRule) RuleItem {
	item := RuleItem{
		ID:         rule.ID,
		Name:       rule.Name,
		ActionType: rule.ActionType,
		ActionData: rule.ActionData,
		Priority:   rule.Priority,
		GlobalRule: rule.IsGlobal(),
	}

	item.FromStageName = "Any"
	if rule.FromStageID.Valid {
		id := int(rule.FromStageID.Int32)
		item.FromStageID = &id
		if rule.FromStage != nil {
			item.FromStageName = rule.FromStage.Name
		}
	}

	item.ToStageName = "Any"
	if rule.ToStageID.Valid {
		id := int(rule.ToStageID.Int32)
		item.ToStageID = &id
		if rule.ToStage != nil {
			item.ToStageName = rule.ToStage.Name
		}
	}

	return item
}

func nullableStage(id *int) sql.NullInt32 {
	if id == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*id), Valid: true}
}

func isAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	v, ok := role.(string)
	return ok && v == model.RoleAdmin
}
