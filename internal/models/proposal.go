package models

// Proposal is a freelancer's bid on a project. Created pending, decided
// exactly once to accepted or rejected, never deleted or reverted.
// Invariant: per project at most one proposal ever holds accepted; the
// decide transaction in the proposal repository is the sole writer of
// Status after creation.
type Proposal struct {
	BaseModel
	ProjectID    string         `gorm:"not null;index" json:"project_id"`
	FreelancerID string         `gorm:"not null;index" json:"freelancer_id"`
	Message      string         `gorm:"not null" json:"message"`
	PriceGEL     *int           `json:"price_gel,omitempty"`
	Status       ProposalStatus `gorm:"not null;default:'pending';index" json:"status"`

	Project    *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Freelancer *User    `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
}
