package model

import "time"

// ExecutionResult represents the outcome of one rule execution
type ExecutionResult string

const (
	ExecutionResultSuccess ExecutionResult = "success"
	ExecutionResultFailed  ExecutionResult = "failed"
)

// AutomationLog records one row per (rule, transition) pair selected for
// execution, regardless of outcome. Append-only.
type AutomationLog struct {
	ID               int             `gorm:"primaryKey;autoIncrement" json:"id"`
	RuleID           int             `gorm:"not null;index" json:"rule_id"`
	DealID           int             `gorm:"not null;index" json:"deal_id"`
	ExecutedByUserID int             `gorm:"not null" json:"executed_by_user_id"`
	ExecutionResult  ExecutionResult `gorm:"type:enum('success','failed');not null" json:"execution_result"`
	ErrorMessage     string          `gorm:"type:text" json:"error_message"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`

	Rule *AutomationRule `gorm:"foreignKey:RuleID" json:"rule,omitempty"`
}

// TableName specifies the table name for AutomationLog
func (AutomationLog) TableName() string {
	return "automation_log"
}
