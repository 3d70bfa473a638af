package dto

import (
	"time"

	"github.com/atinomeri/freela-sub000/internal/models"
)

// MinProposalMessageLen rejects low-effort spam applications.
const MinProposalMessageLen = 20

type ApplyRequest struct {
	ProjectID    string `json:"-"`
	FreelancerID string `json:"-"`
	Message      string `json:"message" binding:"required"`
	PriceGEL     *int   `json:"price_gel,omitempty"`
}

type DecideRequest struct {
	Status string `json:"status" binding:"required"`
}

// DecisionResponse is the only thing decide returns: the primary decided
// proposal. Auto-rejected siblings surface through their notifications.
type DecisionResponse struct {
	ID     string                `json:"id"`
	Status models.ProposalStatus `json:"status"`
}

type ProposalResponse struct {
	ID           string                `json:"id"`
	ProjectID    string                `json:"project_id"`
	FreelancerID string                `json:"freelancer_id"`
	Message      string                `json:"message"`
	PriceGEL     *int                  `json:"price_gel,omitempty"`
	Status       models.ProposalStatus `json:"status"`
	CreatedAt    time.Time             `json:"created_at"`

	Freelancer *models.User    `json:"freelancer,omitempty"`
	Project    *models.Project `json:"project,omitempty"`
}

func NewProposalResponse(p *models.Proposal) *ProposalResponse {
	return &ProposalResponse{
		ID:           p.ID,
		ProjectID:    p.ProjectID,
		FreelancerID: p.FreelancerID,
		Message:      p.Message,
		PriceGEL:     p.PriceGEL,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		Freelancer:   p.Freelancer,
		Project:      p.Project,
	}
}
