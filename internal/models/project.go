package models

// Project is an employer's job posting. IsOpen gates whether new
// proposals may be submitted; the project lifecycle is the only writer
// of that flag.
type Project struct {
	BaseModel
	EmployerID  string `gorm:"not null;index" json:"employer_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	BudgetGEL   *int   `json:"budget_gel,omitempty"`
	IsOpen      bool   `gorm:"not null;default:true" json:"is_open"`

	Employer *User `gorm:"foreignKey:EmployerID" json:"employer,omitempty"`
}
