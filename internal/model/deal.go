package model

// DealStatus represents the lifecycle state of a deal
type DealStatus string

const (
	DealStatusOpen DealStatus = "open"
	DealStatusWon  DealStatus = "won"
	DealStatusLost DealStatus = "lost"
)

// Deal is a sales opportunity moving through the pipeline.
// Stage and probability are mutated only through the transition coordinator;
// all other fields belong to plain CRUD.
type Deal struct {
	BaseModel
	Title           string     `gorm:"type:varchar(255);not null" json:"title"`
	CompanyID       int        `gorm:"not null;index" json:"company_id"`
	AssignedUserID  int        `gorm:"not null;index" json:"assigned_user_id"`
	PipelineStageID int        `gorm:"not null;index" json:"pipeline_stage_id"`
	Value           float64    `gorm:"type:decimal(14,2);not null;default:0" json:"value"`
	Probability     float64    `gorm:"type:decimal(5,4);not null;default:0" json:"probability"`
	Status          DealStatus `gorm:"type:enum('open','won','lost');not null;default:'open'" json:"status"`

	Company      *Company       `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	AssignedUser *User          `gorm:"foreignKey:AssignedUserID" json:"assigned_user,omitempty"`
	Stage        *PipelineStage `gorm:"foreignKey:PipelineStageID" json:"stage,omitempty"`
}

// TableName specifies the table name for Deal
func (Deal) TableName() string {
	return "deals"
}
