package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"intake-connector/internal/domain/dto"
	"intake-connector/internal/domain/entities"

	"github.com/stretchr/testify/assert"
)

type fakeReportService struct {
	result    dto.IntakeReportResult
	completed []string
}

func (f *fakeReportService) CompleteSession(ctx context.Context, sessionID string) dto.IntakeReportResult {
	f.completed = append(f.completed, sessionID)
	return f.result
}

func TestSweepCompletesEndedConversations(t *testing.T) {
	repo := newFakeSessionRepo(
		&entities.DemoSession{ID: "S1", Status: entities.StatusActive, ConversationID: "C1", ReportRecipient: "doc@example.com"},
		&entities.DemoSession{ID: "S2", Status: entities.StatusPending, ConversationID: "C2"},
		&entities.DemoSession{ID: "S3", Status: entities.StatusActive},
	)
	conv := &fakeConversationClient{status: "ended"}
	reports := &fakeReportService{result: dto.IntakeReportResult{Success: true, EmailSent: true}}
	poller := NewPollerService(testLogger(), repo, conv, reports, time.Minute)

	poller.Sweep(context.Background())

	assert.Equal(t, []string{"S1"}, reports.completed, "only active sessions with a conversation are swept")
	assert.Equal(t, entities.StatusCompleted, repo.sessions["S1"].Status)
	assert.Equal(t, entities.StatusPending, repo.sessions["S2"].Status)
}

func TestSweepSkipsOngoingConversations(t *testing.T) {
	repo := newFakeSessionRepo(
		&entities.DemoSession{ID: "S1", Status: entities.StatusActive, ConversationID: "C1"},
	)
	conv := &fakeConversationClient{status: "active"}
	reports := &fakeReportService{}
	poller := NewPollerService(testLogger(), repo, conv, reports, time.Minute)

	poller.Sweep(context.Background())

	assert.Empty(t, reports.completed)
	assert.Equal(t, entities.StatusActive, repo.sessions["S1"].Status)
}

func TestSweepToleratesStatusCheckFailure(t *testing.T) {
	repo := newFakeSessionRepo(
		&entities.DemoSession{ID: "S1", Status: entities.StatusActive, ConversationID: "C1"},
	)
	conv := &fakeConversationClient{statusErr: errors.New("upstream down")}
	reports := &fakeReportService{}
	poller := NewPollerService(testLogger(), repo, conv, reports, time.Minute)

	poller.Sweep(context.Background())

	assert.Empty(t, reports.completed)
	assert.Equal(t, entities.StatusActive, repo.sessions["S1"].Status)
}

func TestNewPollerServiceDefaultsInterval(t *testing.T) {
	poller := NewPollerService(testLogger(), newFakeSessionRepo(), &fakeConversationClient{}, &fakeReportService{}, 0)

	assert.Equal(t, 60*time.Second, poller.Interval)
}
