package model

// PipelineStage is a named, ordered step in the sales funnel.
// Stages are never deleted once referenced by history rows, only deactivated.
type PipelineStage struct {
	BaseModel
	Name           string  `gorm:"type:varchar(64);not null" json:"name"`
	DisplayOrder   int     `gorm:"not null;uniqueIndex:uk_pipeline_stages_order" json:"display_order"`
	WinProbability float64 `gorm:"type:decimal(5,4);not null;default:0" json:"win_probability"`
	IsActive       bool    `gorm:"not null;default:true" json:"is_active"`
}

// TableName specifies the table name for PipelineStage
func (PipelineStage) TableName() string {
	return "pipeline_stages"
}
