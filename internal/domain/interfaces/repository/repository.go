package repository

import (
	"context"
	"errors"
	"time"

	"intake-connector/internal/domain/entities"
)

// ErrSessionNotFound is returned by lookups when no session matches.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository is the session store used by the intake pipeline. The
// store is the sole serialization point between the three completion
// triggers: ClaimReportSend must be an atomic conditional write (set the
// marker only if it is currently unset) and MarkCompleted must never regress
// a completed or expired session.
type SessionRepository interface {
	FindByID(ctx context.Context, id string) (entities.DemoSession, error)
	FindByConversationID(ctx context.Context, conversationID string) (entities.DemoSession, error)
	FindActiveWithConversation(ctx context.Context) ([]entities.DemoSession, error)

	SaveIntakeDetails(ctx context.Context, id string, prospectName string, reportRecipient string) error
	MarkCompleted(ctx context.Context, id string, completedAt time.Time) error

	// SaveTranscript persists a newly fetched transcript together with any
	// analysis metadata keys and a derived duration (ignored when <= 0).
	// Existing analysis_data keys outside the given map are left untouched.
	SaveTranscript(ctx context.Context, id string, transcript []entities.TranscriptMessage, analysisData map[string]interface{}, durationSeconds int) error

	// ClaimReportSend sets report_sent_at and report_recipient only when the
	// marker is currently unset. It reports whether this caller won the claim.
	ClaimReportSend(ctx context.Context, id string, recipient string, sentAt time.Time) (bool, error)

	// ReleaseReportSend clears the marker after a failed dispatch so a later
	// completion trigger can retry.
	ReleaseReportSend(ctx context.Context, id string) error

	// SaveAnalysisSnapshot merges the intake summary under the
	// analysis_data.intake_analysis key without clobbering sibling keys.
	SaveAnalysisSnapshot(ctx context.Context, id string, snapshot map[string]interface{}) error
}
