package dto

import "github.com/atinomeri/freela-sub000/internal/models"

type CreateProjectRequest struct {
	EmployerID  string `json:"-"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	BudgetGEL   *int   `json:"budget_gel,omitempty"`
}

type UpdateProjectRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	BudgetGEL   *int    `json:"budget_gel,omitempty"`
}

type ProjectListResponse struct {
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total"`
}
