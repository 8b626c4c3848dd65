package model

import "time"

// DealStageHistory is the append-only ledger of committed stage transitions.
// Rows are written once by the coordinator and never updated or deleted.
type DealStageHistory struct {
	ID              int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DealID          int       `gorm:"not null;index" json:"deal_id"`
	FromStageID     int       `gorm:"not null" json:"from_stage_id"`
	ToStageID       int       `gorm:"not null" json:"to_stage_id"`
	ChangedByUserID int       `gorm:"not null" json:"changed_by_user_id"`
	Note            string    `gorm:"type:varchar(500)" json:"note"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`

	FromStage *PipelineStage `gorm:"foreignKey:FromStageID" json:"from_stage,omitempty"`
	ToStage   *PipelineStage `gorm:"foreignKey:ToStageID" json:"to_stage,omitempty"`
}

// TableName specifies the table name for DealStageHistory
func (DealStageHistory) TableName() string {
	return "deal_stage_history"
}
