package services

import (
	"context"
	"sync"

	"github.com/atinomeri/freela-sub000/internal/models"
	"github.com/atinomeri/freela-sub000/internal/realtime"
	"github.com/atinomeri/freela-sub000/internal/repositories"
)

// In-memory fakes. The proposal fake mirrors the transactional decide
// semantics of the real repository; the transaction itself is covered by
// the repository tests against an embedded database.

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

type fakeProjectRepo struct {
	projects map[string]*models.Project
}

func newFakeProjectRepo(projects ...*models.Project) *fakeProjectRepo {
	r := &fakeProjectRepo{projects: make(map[string]*models.Project)}
	for _, p := range projects {
		r.projects[p.ID] = p
	}
	return r
}

func (r *fakeProjectRepo) CreateProject(project *models.Project) error {
	r.projects[project.ID] = project
	return nil
}

func (r *fakeProjectRepo) FindProjectByID(id string) (*models.Project, error) {
	if p, ok := r.projects[id]; ok {
		return p, nil
	}
	return nil, repositories.ErrProjectNotFound
}

func (r *fakeProjectRepo) FindProjectsByEmployer(employerID string) ([]models.Project, error) {
	var out []models.Project
	for _, p := range r.projects {
		if p.EmployerID == employerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) FindOpenProjects(limit int) ([]models.Project, error) {
	var out []models.Project
	for _, p := range r.projects {
		if p.IsOpen {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) UpdateProject(project *models.Project) error {
	r.projects[project.ID] = project
	return nil
}

func (r *fakeProjectRepo) SetProjectOpen(id string, open bool) error {
	p, ok := r.projects[id]
	if !ok {
		return repositories.ErrProjectNotFound
	}
	p.IsOpen = open
	return nil
}

type fakeProposalRepo struct {
	mu        sync.Mutex
	proposals map[string]*models.Proposal
	nextID    int
}

func newFakeProposalRepo(proposals ...*models.Proposal) *fakeProposalRepo {
	r := &fakeProposalRepo{proposals: make(map[string]*models.Proposal)}
	for _, p := range proposals {
		r.proposals[p.ID] = p
	}
	return r
}

func (r *fakeProposalRepo) CreateProposal(proposal *models.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if proposal.ID == "" {
		r.nextID++
		proposal.ID = string(rune('a' + r.nextID))
	}
	r.proposals[proposal.ID] = proposal
	return nil
}

func (r *fakeProposalRepo) FindProposalByID(id string) (*models.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.proposals[id]; ok {
		return p, nil
	}
	return nil, repositories.ErrProposalNotFound
}

func (r *fakeProposalRepo) FindProposalsByProject(projectID string) ([]models.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Proposal
	for _, p := range r.proposals {
		if p.ProjectID == projectID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProposalRepo) FindProposalsByFreelancer(freelancerID string) ([]models.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Proposal
	for _, p := range r.proposals {
		if p.FreelancerID == freelancerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProposalRepo) DecideProposal(proposalID, employerID string, status models.ProposalStatus) (*repositories.DecisionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	proposal, ok := r.proposals[proposalID]
	if !ok || proposal.Project == nil || proposal.Project.EmployerID != employerID {
		return nil, repositories.ErrProposalNotFound
	}

	if status == models.ProposalStatusAccepted {
		for _, p := range r.proposals {
			if p.ProjectID == proposal.ProjectID && p.ID != proposal.ID && p.Status == models.ProposalStatusAccepted {
				return nil, repositories.ErrProposalAlreadyDecided
			}
		}
	}

	if proposal.Status != models.ProposalStatusPending {
		return nil, repositories.ErrProposalAlreadyDecided
	}
	proposal.Status = status

	result := &repositories.DecisionResult{Proposal: proposal}
	if status == models.ProposalStatusAccepted {
		for _, p := range r.proposals {
			if p.ProjectID == proposal.ProjectID && p.ID != proposal.ID && p.Status == models.ProposalStatusPending {
				p.Status = models.ProposalStatusRejected
				result.AutoRejected = append(result.AutoRejected, *p)
			}
		}
	}

	return result, nil
}

type fakeNotificationRepo struct {
	mu           sync.Mutex
	created      []*models.Notification
	bulkCalls    int
	failOnCreate error
}

func (r *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOnCreate != nil {
		return r.failOnCreate
	}
	r.created = append(r.created, n)
	return nil
}

func (r *fakeNotificationRepo) CreateBulkNotifications(notifications []*models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOnCreate != nil {
		return r.failOnCreate
	}
	r.bulkCalls++
	r.created = append(r.created, notifications...)
	return nil
}

func (r *fakeNotificationRepo) FindNotificationByID(id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.created {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) FindUserNotifications(userID string, criteria repositories.NotificationCriteria) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.created {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) GetUnreadCount(userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.created {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(userID, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.created {
		if n.ID == notificationID && n.UserID == userID && !n.IsRead {
			n.IsRead = true
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllAsRead(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.created {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) byUser(userID string) []*models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type recordingPublisher struct {
	mu       sync.Mutex
	events   []realtime.Event
	failWith error
}

func (p *recordingPublisher) Publish(ctx context.Context, event realtime.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failWith != nil {
		return p.failWith
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) ofType(eventType string) []realtime.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []realtime.Event
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type recordingMail struct {
	mu   sync.Mutex
	sent []string // recipient addresses
}

func (m *recordingMail) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}
