package repositories

import (
	"errors"

	"github.com/atinomeri/freela-sub000/internal/models"

	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

type ProjectRepository interface {
	CreateProject(project *models.Project) error
	FindProjectByID(id string) (*models.Project, error)
	FindProjectsByEmployer(employerID string) ([]models.Project, error)
	FindOpenProjects(limit int) ([]models.Project, error)
	UpdateProject(project *models.Project) error
	SetProjectOpen(id string, open bool) error
}

type ProjectRepositoryImpl struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepositoryImpl {
	return &ProjectRepositoryImpl{db: db}
}

func (r *ProjectRepositoryImpl) CreateProject(project *models.Project) error {
	return r.db.Create(project).Error
}

func (r *ProjectRepositoryImpl) FindProjectByID(id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Take(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) FindProjectsByEmployer(employerID string) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Where("employer_id = ?", employerID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) FindOpenProjects(limit int) ([]models.Project, error) {
	var projects []models.Project
	q := r.db.Where("is_open = ?", true).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) UpdateProject(project *models.Project) error {
	return r.db.Save(project).Error
}

func (r *ProjectRepositoryImpl) SetProjectOpen(id string, open bool) error {
	result := r.db.Model(&models.Project{}).Where("id = ?", id).Update("is_open", open)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}
