package services

import (
	"context"
	"errors"
	"testing"

	"github.com/atinomeri/freela-sub000/internal/models"
	"github.com/atinomeri/freela-sub000/internal/realtime"
	"github.com/atinomeri/freela-sub000/internal/services/dto"
	"github.com/atinomeri/freela-sub000/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotificationFixture() (*NotificationServiceImpl, *fakeNotificationRepo, *recordingPublisher) {
	repo := &fakeNotificationRepo{}
	publisher := &recordingPublisher{}
	return NewNotificationService(repo, publisher), repo, publisher
}

func TestCreateAndEmit_PersistsAndPublishes(t *testing.T) {
	svc, repo, publisher := newNotificationFixture()

	n, err := svc.CreateAndEmit(context.Background(), &dto.NotificationPayload{
		UserID: "u1",
		Type:   models.NotificationTypeNewProposal,
		Title:  "New proposal",
		Body:   "Landing page redesign",
		Href:   "/projects/p1/proposals",
		Data:   map[string]any{"proposal_id": "a"},
	})

	require.NoError(t, err)
	require.Len(t, repo.byUser("u1"), 1)
	assert.NotEmpty(t, n.Data, "payload data must be serialized onto the row")

	events := publisher.ofType(realtime.EventNotification)
	require.Len(t, events, 1)
	assert.Equal(t, []string{"u1"}, events[0].ToUserIDs)
}

func TestCreateAndEmit_PersistFailurePropagates(t *testing.T) {
	svc, repo, publisher := newNotificationFixture()
	repo.failOnCreate = errors.New("disk full")

	_, err := svc.CreateAndEmit(context.Background(), &dto.NotificationPayload{
		UserID: "u1",
		Type:   models.NotificationTypeMessage,
		Title:  "hello",
	})

	require.Error(t, err)
	assert.Empty(t, publisher.events, "nothing may be announced for a row that was never written")
}

func TestCreateAndEmit_TransportFailureSwallowed(t *testing.T) {
	svc, repo, publisher := newNotificationFixture()
	publisher.failWith = errors.New("redis down")

	_, err := svc.CreateAndEmit(context.Background(), &dto.NotificationPayload{
		UserID: "u1",
		Type:   models.NotificationTypeMessage,
		Title:  "hello",
	})

	require.NoError(t, err)
	assert.Len(t, repo.byUser("u1"), 1)
}

func TestCreateAndEmitBatch_Empty(t *testing.T) {
	svc, repo, publisher := newNotificationFixture()

	got, err := svc.CreateAndEmitBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, repo.bulkCalls)
	assert.Empty(t, publisher.events)
}

func TestCreateAndEmitBatch_GroupsByRecipient(t *testing.T) {
	svc, repo, publisher := newNotificationFixture()

	payloads := []*dto.NotificationPayload{
		{UserID: "u1", Type: models.NotificationTypeProposalStatus, Title: "rejected"},
		{UserID: "u1", Type: models.NotificationTypeProposalStatus, Title: "rejected"},
		{UserID: "u2", Type: models.NotificationTypeProposalStatus, Title: "rejected"},
	}

	got, err := svc.CreateAndEmitBatch(context.Background(), payloads)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 1, repo.bulkCalls, "one insert round-trip for the whole batch")
	assert.Len(t, repo.byUser("u1"), 2)
	assert.Len(t, repo.byUser("u2"), 1)

	// One event per distinct recipient, not per row.
	events := publisher.ofType(realtime.EventNotification)
	require.Len(t, events, 2)

	byRecipient := make(map[string]realtime.Event)
	for _, e := range events {
		require.Len(t, e.ToUserIDs, 1)
		byRecipient[e.ToUserIDs[0]] = e
	}

	// u1 got two rows in this batch, so the event carries the slice.
	u1Data, ok := byRecipient["u1"].Data.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, u1Data, "notifications")
	assert.NotContains(t, u1Data, "notification")

	// u2 got a single row, so the event carries just that notification.
	u2Data, ok := byRecipient["u2"].Data.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, u2Data, "notification")
}

func TestCreateAndEmitBatch_PersistFailurePropagates(t *testing.T) {
	svc, _, publisher := newNotificationFixture()

	repoFail := &fakeNotificationRepo{failOnCreate: errors.New("disk full")}
	svc = NewNotificationService(repoFail, publisher)

	_, err := svc.CreateAndEmitBatch(context.Background(), []*dto.NotificationPayload{
		{UserID: "u1", Type: models.NotificationTypeProposalStatus, Title: "rejected"},
	})

	require.Error(t, err)
	assert.Empty(t, publisher.events)
}

func TestEmitEvent_NeverRaises(t *testing.T) {
	svc, _, publisher := newNotificationFixture()
	publisher.failWith = errors.New("redis down")

	// Must not panic and has no error to return.
	svc.EmitEvent(context.Background(), realtime.EventProposalStatus, []string{"u1"}, map[string]any{"status": "accepted"})

	assert.Empty(t, publisher.events)
}

func TestMarkAsRead_UnknownNotification(t *testing.T) {
	svc, _, _ := newNotificationFixture()

	err := svc.MarkAsRead("u1", "missing")
	assertCode(t, err, apperrors.CodeNotFound)
}
