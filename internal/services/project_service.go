package services

import (
	"github.com/atinomeri/freela-sub000/internal/models"
	"github.com/atinomeri/freela-sub000/internal/repositories"
	"github.com/atinomeri/freela-sub000/internal/services/dto"
	"github.com/atinomeri/freela-sub000/pkg/apperrors"
)

// ProjectService owns the employer-facing project lifecycle, including
// the is_open flag that gates new proposals.
type ProjectService struct {
	projectRepo repositories.ProjectRepository
	userRepo    repositories.UserRepository
}

func NewProjectService(projectRepo repositories.ProjectRepository, userRepo repositories.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

func (s *ProjectService) CreateProject(req *dto.CreateProjectRequest) (*models.Project, error) {
	employer, err := s.userRepo.FindByID(req.EmployerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthenticated()
		}
		return nil, apperrors.InternalError(err)
	}
	if employer.Role != models.UserRoleEmployer {
		return nil, apperrors.ErrInvalidUserRole
	}

	if req.BudgetGEL != nil && *req.BudgetGEL <= 0 {
		return nil, apperrors.NewBadRequestError("Budget must be a positive amount")
	}

	project := &models.Project{
		EmployerID:  req.EmployerID,
		Title:       req.Title,
		Description: req.Description,
		BudgetGEL:   req.BudgetGEL,
		IsOpen:      true,
	}

	if err := s.projectRepo.CreateProject(project); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return project, nil
}

func (s *ProjectService) GetProject(projectID string) (*models.Project, error) {
	project, err := s.projectRepo.FindProjectByID(projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return project, nil
}

func (s *ProjectService) GetOpenProjects(limit int) ([]models.Project, error) {
	projects, err := s.projectRepo.FindOpenProjects(limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return projects, nil
}

func (s *ProjectService) GetEmployerProjects(employerID, requesterID string) ([]models.Project, error) {
	if employerID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	projects, err := s.projectRepo.FindProjectsByEmployer(employerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return projects, nil
}

func (s *ProjectService) UpdateProject(projectID, requesterID string, req *dto.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.ownedProject(projectID, requesterID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.BudgetGEL != nil {
		if *req.BudgetGEL <= 0 {
			return nil, apperrors.NewBadRequestError("Budget must be a positive amount")
		}
		project.BudgetGEL = req.BudgetGEL
	}

	if err := s.projectRepo.UpdateProject(project); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return project, nil
}

// CloseProject stops further proposals; pending proposals stay pending
// and remain decidable.
func (s *ProjectService) CloseProject(projectID, requesterID string) error {
	return s.setOpen(projectID, requesterID, false)
}

func (s *ProjectService) ReopenProject(projectID, requesterID string) error {
	return s.setOpen(projectID, requesterID, true)
}

func (s *ProjectService) setOpen(projectID, requesterID string, open bool) error {
	if _, err := s.ownedProject(projectID, requesterID); err != nil {
		return err
	}
	if err := s.projectRepo.SetProjectOpen(projectID, open); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *ProjectService) ownedProject(projectID, requesterID string) (*models.Project, error) {
	project, err := s.projectRepo.FindProjectByID(projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if project.EmployerID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return project, nil
}
