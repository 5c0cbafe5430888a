package Iservices

import "intake-connector/internal/domain/dto"

// IReportMailer delivers a rendered report. Single attempt, no internal
// retry; retrying is the orchestrator's call.
type IReportMailer interface {
	SendIntakeReport(email dto.IntakeReportEmail) dto.MailResult
}
