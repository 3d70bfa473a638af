package repositories

import (
	"strings"
	"testing"

	"github.com/atinomeri/freela-sub000/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.Proposal{}, &models.Notification{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()
	u := &models.User{Name: email, Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedProject(t *testing.T, db *gorm.DB, employerID string) *models.Project {
	t.Helper()
	p := &models.Project{EmployerID: employerID, Title: "Landing page redesign", IsOpen: true}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedProposal(t *testing.T, db *gorm.DB, projectID, freelancerID string) *models.Proposal {
	t.Helper()
	p := &models.Proposal{
		ProjectID:    projectID,
		FreelancerID: freelancerID,
		Message:      strings.Repeat("x", 40),
		Status:       models.ProposalStatusPending,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestDecideProposal_AcceptRejectsPendingSiblings(t *testing.T) {
	db := newTestDB(t)
	repo := NewProposalRepository(db)

	employer := seedUser(t, db, "employer@example.com", models.UserRoleEmployer)
	f1 := seedUser(t, db, "f1@example.com", models.UserRoleFreelancer)
	f2 := seedUser(t, db, "f2@example.com", models.UserRoleFreelancer)
	f3 := seedUser(t, db, "f3@example.com", models.UserRoleFreelancer)

	project := seedProject(t, db, employer.ID)
	a := seedProposal(t, db, project.ID, f1.ID)
	b := seedProposal(t, db, project.ID, f2.ID)
	c := seedProposal(t, db, project.ID, f3.ID)

	result, err := repo.DecideProposal(a.ID, employer.ID, models.ProposalStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, a.ID, result.Proposal.ID)
	assert.Equal(t, models.ProposalStatusAccepted, result.Proposal.Status)

	// Both losers come back so the caller can notify them.
	require.Len(t, result.AutoRejected, 2)
	rejectedIDs := map[string]bool{}
	for _, p := range result.AutoRejected {
		assert.Equal(t, models.ProposalStatusRejected, p.Status)
		rejectedIDs[p.ID] = true
	}
	assert.True(t, rejectedIDs[b.ID])
	assert.True(t, rejectedIDs[c.ID])

	// And the rows actually changed.
	for id, want := range map[string]models.ProposalStatus{
		a.ID: models.ProposalStatusAccepted,
		b.ID: models.ProposalStatusRejected,
		c.ID: models.ProposalStatusRejected,
	} {
		var p models.Proposal
		require.NoError(t, db.Take(&p, "id = ?", id).Error)
		assert.Equal(t, want, p.Status)
	}
}

func TestDecideProposal_RejectLeavesSiblingsPending(t *testing.T) {
	db := newTestDB(t)
	repo := NewProposalRepository(db)

	employer := seedUser(t, db, "employer@example.com", models.UserRoleEmployer)
	f1 := seedUser(t, db, "f1@example.com", models.UserRoleFreelancer)
	f2 := seedUser(t, db, "f2@example.com", models.UserRoleFreelancer)

	project := seedProject(t, db, employer.ID)
	a := seedProposal(t, db, project.ID, f1.ID)
	b := seedProposal(t, db, project.ID, f2.ID)

	result, err := repo.DecideProposal(a.ID, employer.ID, models.ProposalStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusRejected, result.Proposal.Status)
	assert.Empty(t, result.AutoRejected)

	var sibling models.Proposal
	require.NoError(t, db.Take(&sibling, "id = ?", b.ID).Error)
	assert.Equal(t, models.ProposalStatusPending, sibling.Status)
}

func TestDecideProposal_SecondDecisionFails(t *testing.T) {
	db := newTestDB(t)
	repo := NewProposalRepository(db)

	employer := seedUser(t, db, "employer@example.com", models.UserRoleEmployer)
	f1 := seedUser(t, db, "f1@example.com", models.UserRoleFreelancer)

	project := seedProject(t, db, employer.ID)
	a := seedProposal(t, db, project.ID, f1.ID)

	_, err := repo.DecideProposal(a.ID, employer.ID, models.ProposalStatusAccepted)
	require.NoError(t, err)

	_, err = repo.DecideProposal(a.ID, employer.ID, models.ProposalStatusRejected)
	assert.ErrorIs(t, err, ErrProposalAlreadyDecided)

	// The first decision stands.
	var p models.Proposal
	require.NoError(t, db.Take(&p, "id = ?", a.ID).Error)
	assert.Equal(t, models.ProposalStatusAccepted, p.Status)
}

func TestDecideProposal_AcceptAfterSiblingAcceptedFails(t *testing.T) {
	db := newTestDB(t)
	repo := NewProposalRepository(db)

	employer := seedUser(t, db, "employer@example.com", models.UserRoleEmployer)
	f1 := seedUser(t, db, "f1@example.com", models.UserRoleFreelancer)
	f2 := seedUser(t, db, "f2@example.com", models.UserRoleFreelancer)

	project := seedProject(t, db, employer.ID)
	a := seedProposal(t, db, project.ID, f1.ID)
	b := seedProposal(t, db, project.ID, f2.ID)

	_, err := repo.DecideProposal(a.ID, employer.ID, models.ProposalStatusAccepted)
	require.NoError(t, err)

	// B was auto-rejected; trying to accept it anyway must not produce
	// two winners.
	_, err = repo.DecideProposal(b.ID, employer.ID, models.ProposalStatusAccepted)
	assert.ErrorIs(t, err, ErrProposalAlreadyDecided)

	var accepted int64
	require.NoError(t, db.Model(&models.Proposal{}).
		Where("project_id = ? AND status = ?", project.ID, models.ProposalStatusAccepted).
		Count(&accepted).Error)
	assert.EqualValues(t, 1, accepted)
}

func TestDecideProposal_ForeignEmployerGetsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewProposalRepository(db)

	owner := seedUser(t, db, "owner@example.com", models.UserRoleEmployer)
	other := seedUser(t, db, "other@example.com", models.UserRoleEmployer)
	f1 := seedUser(t, db, "f1@example.com", models.UserRoleFreelancer)

	project := seedProject(t, db, owner.ID)
	a := seedProposal(t, db, project.ID, f1.ID)

	_, err := repo.DecideProposal(a.ID, other.ID, models.ProposalStatusAccepted)
	assert.ErrorIs(t, err, ErrProposalNotFound)

	// Untouched, and still decidable by the real owner.
	var p models.Proposal
	require.NoError(t, db.Take(&p, "id = ?", a.ID).Error)
	assert.Equal(t, models.ProposalStatusPending, p.Status)
}

func TestDecideProposal_UnknownProposal(t *testing.T) {
	db := newTestDB(t)
	repo := NewProposalRepository(db)

	employer := seedUser(t, db, "employer@example.com", models.UserRoleEmployer)

	_, err := repo.DecideProposal("no-such-id", employer.ID, models.ProposalStatusRejected)
	assert.ErrorIs(t, err, ErrProposalNotFound)
}

func TestDecideProposal_ScopedToOneProject(t *testing.T) {
	db := newTestDB(t)
	repo := NewProposalRepository(db)

	employer := seedUser(t, db, "employer@example.com", models.UserRoleEmployer)
	f1 := seedUser(t, db, "f1@example.com", models.UserRoleFreelancer)

	projectA := seedProject(t, db, employer.ID)
	projectB := seedProject(t, db, employer.ID)
	a := seedProposal(t, db, projectA.ID, f1.ID)
	b := seedProposal(t, db, projectB.ID, f1.ID)

	_, err := repo.DecideProposal(a.ID, employer.ID, models.ProposalStatusAccepted)
	require.NoError(t, err)

	// Accepting on one project never touches another project's
	// proposals.
	var p models.Proposal
	require.NoError(t, db.Take(&p, "id = ?", b.ID).Error)
	assert.Equal(t, models.ProposalStatusPending, p.Status)
}
