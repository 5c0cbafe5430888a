package Iservices

import (
	"context"

	"intake-connector/internal/domain/dto"
)

// IIntakeReportService is the single idempotent "complete session" operation
// every completion trigger funnels into. It never returns a bare error; all
// outcomes are expressed in the result.
type IIntakeReportService interface {
	CompleteSession(ctx context.Context, sessionID string) dto.IntakeReportResult
}
