package model

// Company represents a customer account deals are attached to.
// Managed by plain CRUD outside the pipeline engine.
type Company struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null;index" json:"name"`
	Website  string `gorm:"type:varchar(255)" json:"website"`
	Industry string `gorm:"type:varchar(128)" json:"industry"`
}

// TableName specifies the table name for Company
func (Company) TableName() string {
	return "companies"
}
