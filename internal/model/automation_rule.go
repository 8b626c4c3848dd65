package model

import (
	"database/sql"

	"gorm.io/datatypes"
)

// AutomationActionType enumerates the known automation action kinds
type AutomationActionType string

const (
	ActionTypeCreateTask        AutomationActionType = "create_task"
	ActionTypeSendEmail         AutomationActionType = "send_email"
	ActionTypeUpdateProbability AutomationActionType = "update_probability"
)

// AutomationRule maps an (origin, destination) stage pair to an action.
// A NULL from/to stage matches any origin/destination; a rule with both NULL
// fires on every transition.
type AutomationRule struct {
	BaseModel
	Name        string               `gorm:"type:varchar(128);not null" json:"name"`
	FromStageID sql.NullInt32        `gorm:"index;default:null" json:"from_stage_id"`
	ToStageID   sql.NullInt32        `gorm:"index;default:null" json:"to_stage_id"`
	ActionType  AutomationActionType `gorm:"type:varchar(32);not null" json:"action_type"`
	ActionData  datatypes.JSON       `gorm:"type:json" json:"action_data"`
	Priority    int                  `gorm:"not null;default:0;index" json:"priority"`
	IsActive    bool                 `gorm:"not null;default:true" json:"is_active"`

	FromStage *PipelineStage `gorm:"foreignKey:FromStageID" json:"from_stage,omitempty"`
	ToStage   *PipelineStage `gorm:"foreignKey:ToStageID" json:"to_stage,omitempty"`
}

// TableName specifies the table name for AutomationRule
func (AutomationRule) TableName() string {
	return "automation_rules"
}

// IsGlobal reports whether the rule matches every transition (both stage
// filters NULL). Valid but worth flagging to operators.
func (r *AutomationRule) IsGlobal() bool {
	return !r.FromStageID.Valid && !r.ToStageID.Valid
}
