package model

import "gorm.io/datatypes"

// EmailStatus represents delivery state of a queued email
type EmailStatus string

const (
	EmailStatusPending EmailStatus = "pending"
	EmailStatusSent    EmailStatus = "sent"
	EmailStatusFailed  EmailStatus = "failed"
)

// EmailQueueEntry is an outbound email written by the send_email automation
// action. Actual delivery is handled by an external mailer process that
// consumes this table.
type EmailQueueEntry struct {
	BaseModel
	MessageID    string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"message_id"`
	ToUserID     int            `gorm:"not null;index" json:"to_user_id"`
	TemplateName string         `gorm:"type:varchar(128);not null" json:"template_name"`
	Payload      datatypes.JSON `gorm:"type:json" json:"payload"`
	Status       EmailStatus    `gorm:"type:enum('pending','sent','failed');not null;default:'pending'" json:"status"`
}

// TableName specifies the table name for EmailQueueEntry
func (EmailQueueEntry) TableName() string {
	return "email_queue"
}
