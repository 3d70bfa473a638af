package repositories

import (
	"errors"

	"github.com/atinomeri/freela-sub000/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProposalNotFound = errors.New("proposal not found")

	// ErrProposalAlreadyDecided covers every decision race: the target
	// proposal is no longer pending, or another proposal of the same
	// project already holds accepted.
	ErrProposalAlreadyDecided = errors.New("proposal already decided")
)

// DecisionResult is what the decide transaction hands back for the
// post-commit notification fan-out.
type DecisionResult struct {
	Proposal     *models.Proposal
	AutoRejected []models.Proposal
}

type ProposalRepository interface {
	CreateProposal(proposal *models.Proposal) error
	FindProposalByID(id string) (*models.Proposal, error)
	FindProposalsByProject(projectID string) ([]models.Proposal, error)
	FindProposalsByFreelancer(freelancerID string) ([]models.Proposal, error)
	DecideProposal(proposalID, employerID string, status models.ProposalStatus) (*DecisionResult, error)
}

type ProposalRepositoryImpl struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *ProposalRepositoryImpl {
	return &ProposalRepositoryImpl{db: db}
}

func (r *ProposalRepositoryImpl) CreateProposal(proposal *models.Proposal) error {
	return r.db.Create(proposal).Error
}

func (r *ProposalRepositoryImpl) FindProposalByID(id string) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := r.db.Preload("Freelancer").Take(&proposal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

func (r *ProposalRepositoryImpl) FindProposalsByProject(projectID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.Preload("Freelancer").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&proposals).Error
	return proposals, err
}

func (r *ProposalRepositoryImpl) FindProposalsByFreelancer(freelancerID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.Preload("Project").
		Where("freelancer_id = ?", freelancerID).
		Order("created_at DESC").
		Find(&proposals).Error
	return proposals, err
}

// DecideProposal flips one pending proposal to the requested status and,
// when accepting, rejects every other still-pending proposal of the same
// project. All of it runs in a single transaction; exclusivity comes
// from the conditional `status = 'pending'` update, not from any
// in-process lock. Ownership is checked with a join against the
// project's employer so a foreign proposal is indistinguishable from a
// missing one.
func (r *ProposalRepositoryImpl) DecideProposal(proposalID, employerID string, status models.ProposalStatus) (*DecisionResult, error) {
	result := &DecisionResult{}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var proposal models.Proposal
		err := tx.Model(&models.Proposal{}).
			Select("proposals.*").
			Joins("JOIN projects ON projects.id = proposals.project_id").
			Where("proposals.id = ? AND projects.employer_id = ?", proposalID, employerID).
			Take(&proposal).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProposalNotFound
			}
			return err
		}

		if status == models.ProposalStatusAccepted {
			// Mutual exclusion across proposals of one project: refuse
			// to accept when a sibling already won.
			var accepted int64
			err = tx.Model(&models.Proposal{}).
				Where("project_id = ? AND id <> ? AND status = ?",
					proposal.ProjectID, proposal.ID, models.ProposalStatusAccepted).
				Count(&accepted).Error
			if err != nil {
				return err
			}
			if accepted > 0 {
				return ErrProposalAlreadyDecided
			}
		}

		// Compare-and-swap on the pending state. A concurrent decision
		// that committed first leaves zero affected rows here.
		update := tx.Model(&models.Proposal{}).
			Where("id = ? AND status = ?", proposal.ID, models.ProposalStatusPending).
			Update("status", status)
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected != 1 {
			return ErrProposalAlreadyDecided
		}
		proposal.Status = status

		if status == models.ProposalStatusAccepted {
			// Auto-reject losers inside the same transaction so no
			// window exists where some siblings are rejected and
			// others are not.
			var siblings []models.Proposal
			err = tx.Where("project_id = ? AND id <> ? AND status = ?",
				proposal.ProjectID, proposal.ID, models.ProposalStatusPending).
				Find(&siblings).Error
			if err != nil {
				return err
			}

			if len(siblings) > 0 {
				ids := make([]string, 0, len(siblings))
				for i := range siblings {
					ids = append(ids, siblings[i].ID)
				}
				err = tx.Model(&models.Proposal{}).
					Where("id IN ?", ids).
					Update("status", models.ProposalStatusRejected).Error
				if err != nil {
					return err
				}
				for i := range siblings {
					siblings[i].Status = models.ProposalStatusRejected
				}
			}
			result.AutoRejected = siblings
		}

		result.Proposal = &proposal
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
