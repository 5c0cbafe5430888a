package services

import (
	"context"
	"fmt"
	"time"

	Irepository "intake-connector/internal/domain/interfaces/repository"
	Iservices "intake-connector/internal/domain/interfaces/services"
	"intake-connector/internal/infra/logger"
)

const conversationEnded = "ended"

// PollerService is the fallback completion trigger: it periodically re-checks
// the provider-side status of every active session and funnels any ended
// conversation into the same idempotent completion path the webhook and the
// client-initiated call use.
type PollerService struct {
	Logger        *logger.Logger
	Sessions      Irepository.SessionRepository
	Conversations Iservices.IConversationClient
	Reports       Iservices.IIntakeReportService
	Interval      time.Duration
}

func NewPollerService(
	logger *logger.Logger,
	sessions Irepository.SessionRepository,
	conversations Iservices.IConversationClient,
	reports Iservices.IIntakeReportService,
	interval time.Duration,
) *PollerService {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &PollerService{
		Logger:        logger,
		Sessions:      sessions,
		Conversations: conversations,
		Reports:       reports,
		Interval:      interval,
	}
}

// Start runs the polling loop until ctx is cancelled.
func (s *PollerService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		s.Logger.Info(fmt.Sprintf("Conversation status poller running (interval %s)", s.Interval))
		for {
			select {
			case <-ctx.Done():
				s.Logger.Info("Conversation status poller stopped")
				return
			case <-ticker.C:
				s.Sweep(ctx)
			}
		}
	}()
}

// Sweep checks every active session once.
func (s *PollerService) Sweep(ctx context.Context) {
	sessions, err := s.Sessions.FindActiveWithConversation(ctx)
	if err != nil {
		s.Logger.Error(fmt.Sprintf("Poller failed to list active sessions: %v", err))
		return
	}

	for _, session := range sessions {
		status, err := s.Conversations.GetConversationStatus(ctx, session.ConversationID)
		if err != nil {
			s.Logger.Error(fmt.Sprintf("Poller failed to check conversation %s: %v", session.ConversationID, err))
			continue
		}
		if status != conversationEnded {
			continue
		}

		s.Logger.Info(fmt.Sprintf("Poller detected ended conversation %s for session %s", session.ConversationID, session.ID))
		if err := s.Sessions.MarkCompleted(ctx, session.ID, time.Now()); err != nil {
			s.Logger.Error(fmt.Sprintf("Poller failed to mark session %s completed: %v", session.ID, err))
		}

		result := s.Reports.CompleteSession(ctx, session.ID)
		s.Logger.Info(fmt.Sprintf("Poller completion for session %s: success=%t emailSent=%t message=%q error=%q",
			session.ID, result.Success, result.EmailSent, result.Message, result.Error))
	}
}
