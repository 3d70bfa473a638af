package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/atinomeri/freela-sub000/internal/email"
	"github.com/atinomeri/freela-sub000/internal/logger"
	"github.com/atinomeri/freela-sub000/internal/models"
	"github.com/atinomeri/freela-sub000/internal/realtime"
	"github.com/atinomeri/freela-sub000/internal/repositories"
	"github.com/atinomeri/freela-sub000/internal/services/dto"
	"github.com/atinomeri/freela-sub000/pkg/apperrors"
)

// ProposalService owns the proposal lifecycle: the apply flow that
// records a freelancer's bid, and the decision coordinator that lets an
// employer accept or reject it. All status mutation after creation goes
// through Decide; nothing else writes proposal status.
type ProposalService struct {
	proposalRepo repositories.ProposalRepository
	projectRepo  repositories.ProjectRepository
	userRepo     repositories.UserRepository
	notifier     NotificationService
	mail         email.Provider
}

func NewProposalService(
	proposalRepo repositories.ProposalRepository,
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	notifier NotificationService,
	mail email.Provider,
) *ProposalService {
	return &ProposalService{
		proposalRepo: proposalRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		mail:         mail,
	}
}

// Apply validates and records a new pending proposal, then notifies the
// project's employer. The proposal row is the unit of durability:
// notification or event failures never roll it back.
func (s *ProposalService) Apply(ctx context.Context, req *dto.ApplyRequest) (*models.Proposal, error) {
	// Fail fast, before any database call.
	if utf8.RuneCountInString(req.Message) < dto.MinProposalMessageLen {
		return nil, apperrors.NewBadRequestError(
			fmt.Sprintf("Message must be at least %d characters long", dto.MinProposalMessageLen))
	}
	if req.PriceGEL != nil && *req.PriceGEL <= 0 {
		return nil, apperrors.NewBadRequestError("Price must be a positive amount")
	}

	// A missing acting user means a stale session, not a generic auth
	// failure.
	if _, err := s.userRepo.FindByID(req.FreelancerID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthenticated()
		}
		return nil, apperrors.InternalError(err)
	}

	project, err := s.projectRepo.FindProjectByID(req.ProjectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if !project.IsOpen {
		return nil, apperrors.ErrProjectClosed
	}

	proposal := &models.Proposal{
		ProjectID:    project.ID,
		FreelancerID: req.FreelancerID,
		Message:      req.Message,
		PriceGEL:     req.PriceGEL,
		Status:       models.ProposalStatusPending,
	}

	if err := s.proposalRepo.CreateProposal(proposal); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notifyNewProposal(ctx, project, proposal)

	return proposal, nil
}

// Decide accepts or rejects one pending proposal on behalf of the
// owning employer. Accepting auto-rejects every other still-pending
// proposal of the project inside the same transaction. Notification
// fan-out runs after commit and is best effort.
func (s *ProposalService) Decide(ctx context.Context, proposalID, employerID string, status models.ProposalStatus) (*dto.DecisionResponse, error) {
	if !status.ValidDecision() {
		return nil, apperrors.ErrInvalidStatus("proposal", "Status must be accepted or rejected")
	}

	result, err := s.proposalRepo.DecideProposal(proposalID, employerID, status)
	if err != nil {
		switch {
		case apperrors.Is(err, repositories.ErrProposalNotFound):
			return nil, apperrors.ErrNotFound(err)
		case apperrors.Is(err, repositories.ErrProposalAlreadyDecided):
			return nil, apperrors.ErrStatusAlreadyDecided(err)
		default:
			return nil, apperrors.InternalError(err)
		}
	}

	s.notifyDecision(ctx, result)

	return &dto.DecisionResponse{
		ID:     result.Proposal.ID,
		Status: result.Proposal.Status,
	}, nil
}

func (s *ProposalService) GetProjectProposals(projectID, requesterID string) ([]dto.ProposalResponse, error) {
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

	proposals, err := s.proposalRepo.FindProposalsByProject(projectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.ProposalResponse, 0, len(proposals))
	for i := range proposals {
		responses = append(responses, *dto.NewProposalResponse(&proposals[i]))
	}
	return responses, nil
}

func (s *ProposalService) GetMyProposals(freelancerID string) ([]dto.ProposalResponse, error) {
	proposals, err := s.proposalRepo.FindProposalsByFreelancer(freelancerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.ProposalResponse, 0, len(proposals))
	for i := range proposals {
		responses = append(responses, *dto.NewProposalResponse(&proposals[i]))
	}
	return responses, nil
}

// --- Post-commit fan-out ---

func (s *ProposalService) notifyNewProposal(ctx context.Context, project *models.Project, proposal *models.Proposal) {
	eventData := map[string]any{
		"proposal_id": proposal.ID,
		"project_id":  project.ID,
	}

	_, err := s.notifier.CreateAndEmit(ctx, &dto.NotificationPayload{
		UserID: project.EmployerID,
		Type:   models.NotificationTypeNewProposal,
		Title:  "New proposal",
		Body:   project.Title,
		Href:   fmt.Sprintf("/projects/%s/proposals", project.ID),
		Data:   eventData,
	})
	if err != nil {
		logger.CtxWithError(ctx, "new-proposal notification failed", err,
			"proposal_id", proposal.ID, "employer_id", project.EmployerID)
	}

	s.notifier.EmitEvent(ctx, realtime.EventNewProposal, []string{project.EmployerID}, eventData)
}

func (s *ProposalService) notifyDecision(ctx context.Context, result *repositories.DecisionResult) {
	proposal := result.Proposal

	// The project title is cosmetic here; a failed lookup degrades the
	// notification body, never the committed decision.
	projectTitle := ""
	project, err := s.projectRepo.FindProjectByID(proposal.ProjectID)
	if err == nil {
		projectTitle = project.Title
	} else {
		logger.CtxWithError(ctx, "project lookup for decision notification failed", err,
			"project_id", proposal.ProjectID)
	}

	_, err = s.notifier.CreateAndEmit(ctx, &dto.NotificationPayload{
		UserID: proposal.FreelancerID,
		Type:   models.NotificationTypeProposalStatus,
		Title:  string(proposal.Status),
		Body:   projectTitle,
		Href:   "/proposals/my",
		Data: map[string]any{
			"proposal_id": proposal.ID,
			"project_id":  proposal.ProjectID,
			"status":      proposal.Status,
		},
	})
	if err != nil {
		logger.CtxWithError(ctx, "decision notification failed", err,
			"proposal_id", proposal.ID, "freelancer_id", proposal.FreelancerID)
	}

	s.notifier.EmitEvent(ctx, realtime.EventProposalStatus, []string{proposal.FreelancerID}, map[string]any{
		"proposal_id": proposal.ID,
		"status":      proposal.Status,
		"project_id":  proposal.ProjectID,
	})

	if len(result.AutoRejected) > 0 {
		payloads := make([]*dto.NotificationPayload, 0, len(result.AutoRejected))
		for i := range result.AutoRejected {
			sibling := &result.AutoRejected[i]
			payloads = append(payloads, &dto.NotificationPayload{
				UserID: sibling.FreelancerID,
				Type:   models.NotificationTypeProposalStatus,
				Title:  string(models.ProposalStatusRejected),
				Body:   projectTitle,
				Href:   "/proposals/my",
				Data: map[string]any{
					"proposal_id": sibling.ID,
					"project_id":  sibling.ProjectID,
					"status":      models.ProposalStatusRejected,
				},
			})
		}
		if _, err := s.notifier.CreateAndEmitBatch(ctx, payloads); err != nil {
			logger.CtxWithError(ctx, "auto-reject notifications failed", err,
				"proposal_id", proposal.ID, "count", len(payloads))
		}

		// One event per losing freelancer, not batched at the
		// transport layer.
		for i := range result.AutoRejected {
			sibling := &result.AutoRejected[i]
			s.notifier.EmitEvent(ctx, realtime.EventProposalStatus, []string{sibling.FreelancerID}, map[string]any{
				"proposal_id": sibling.ID,
				"status":      models.ProposalStatusRejected,
				"project_id":  sibling.ProjectID,
			})
		}
	}

	if proposal.Status == models.ProposalStatusAccepted {
		s.congratulateWinner(ctx, proposal, projectTitle)
	}
}

func (s *ProposalService) congratulateWinner(ctx context.Context, proposal *models.Proposal, projectTitle string) {
	winner, err := s.userRepo.FindByID(proposal.FreelancerID)
	if err != nil {
		logger.CtxWithError(ctx, "winner lookup for email failed", err,
			"freelancer_id", proposal.FreelancerID)
		return
	}

	subject := "Your proposal was accepted"
	body := fmt.Sprintf("Hi %s,\n\nyour proposal for %q was accepted. The employer will reach out to you shortly.", winner.Name, projectTitle)
	if err := s.mail.Send(winner.Email, subject, body); err != nil {
		logger.CtxWithError(ctx, "acceptance email failed", err, "freelancer_id", winner.ID)
	}
}
