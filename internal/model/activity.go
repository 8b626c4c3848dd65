package model

import "time"

// ActivityStatus represents activity completion state
type ActivityStatus string

const (
	ActivityStatusPending ActivityStatus = "pending"
	ActivityStatusDone    ActivityStatus = "done"
)

// Activity is a follow-up task attached to a deal. The create_task automation
// action writes these; completion is handled by plain CRUD.
type Activity struct {
	BaseModel
	DealID          int            `gorm:"not null;index" json:"deal_id"`
	Subject         string         `gorm:"type:varchar(255);not null" json:"subject"`
	DueDate         time.Time      `gorm:"not null" json:"due_date"`
	AssignedUserID  int            `gorm:"not null;index" json:"assigned_user_id"`
	CreatedByUserID int            `gorm:"not null" json:"created_by_user_id"`
	Status          ActivityStatus `gorm:"type:enum('pending','done');not null;default:'pending'" json:"status"`
}

// TableName specifies the table name for Activity
func (Activity) TableName() string {
	return "activities"
}
