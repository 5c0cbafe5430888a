package services

import (
	"context"
	"fmt"
	"time"

	"intake-connector/internal/domain/dto"
	"intake-connector/internal/domain/entities"
	Irepository "intake-connector/internal/domain/interfaces/repository"
	Iservices "intake-connector/internal/domain/interfaces/services"
	"intake-connector/internal/infra/logger"
	"intake-connector/internal/util"
)

// ReportService is the intake orchestrator. Every completion trigger invokes
// CompleteSession for a session id; the session store is the only
// serialization point between them. The report_sent_at marker is claimed
// with a conditional write immediately before dispatch, so at most one
// trigger can send for a given session.
type ReportService struct {
	Logger        *logger.Logger
	Sessions      Irepository.SessionRepository
	Conversations Iservices.IConversationClient
	Analyzer      Iservices.ITranscriptAnalyzer
	Renderer      Iservices.IReportRenderer
	Mailer        Iservices.IReportMailer
}

func NewReportService(
	logger *logger.Logger,
	sessions Irepository.SessionRepository,
	conversations Iservices.IConversationClient,
	analyzer Iservices.ITranscriptAnalyzer,
	renderer Iservices.IReportRenderer,
	mailer Iservices.IReportMailer,
) *ReportService {
	return &ReportService{
		Logger:        logger,
		Sessions:      sessions,
		Conversations: conversations,
		Analyzer:      analyzer,
		Renderer:      renderer,
		Mailer:        mailer,
	}
}

func (s *ReportService) CompleteSession(ctx context.Context, sessionID string) (result dto.IntakeReportResult) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error(fmt.Sprintf("Recovered from panic in report generation for session %s: %v", sessionID, r))
			result = dto.IntakeReportResult{Success: false, Error: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	s.Logger.Info(fmt.Sprintf("Starting report generation for session %s", sessionID))

	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return dto.IntakeReportResult{Success: false, Error: fmt.Sprintf("Session not found: %v", err)}
	}
	if session.ConversationID == "" {
		return dto.IntakeReportResult{Success: false, Error: "No conversation started"}
	}
	if session.ReportSentAt != nil {
		return dto.IntakeReportResult{Success: true, Message: "Report already sent"}
	}
	if session.ReportRecipient == "" {
		return dto.IntakeReportResult{Success: true, Message: "No report recipient"}
	}

	transcript := session.Transcript
	perception := analysisDataString(session.AnalysisData, "perception_analysis")
	duration := session.DurationSeconds

	if len(transcript) == 0 {
		verbose, err := s.Conversations.GetVerboseConversation(ctx, session.ConversationID)
		if err != nil {
			// Fetch failure with no stored transcript is fatal for this
			// invocation; a later trigger retries from scratch.
			s.Logger.Error(fmt.Sprintf("Failed to fetch conversation %s: %v", session.ConversationID, err))
			return dto.IntakeReportResult{Success: false, Error: "No transcript available for this session"}
		}
		if len(verbose.Transcript) == 0 {
			return dto.IntakeReportResult{Success: true, Message: "No transcript available yet"}
		}

		transcript = verbose.Transcript
		if verbose.PerceptionAnalysis != "" {
			perception = verbose.PerceptionAnalysis
		}
		if verbose.DurationSeconds > 0 {
			duration = verbose.DurationSeconds
		}

		// Persist the fetched transcript right away; a failed send later must
		// not force a re-fetch on retry.
		if err := s.Sessions.SaveTranscript(ctx, session.ID, transcript, fetchedAnalysisData(verbose), verbose.DurationSeconds); err != nil {
			s.Logger.Error(fmt.Sprintf("Failed to save transcript for session %s: %v", session.ID, err))
		}
		if err := s.Sessions.MarkCompleted(ctx, session.ID, time.Now()); err != nil {
			s.Logger.Error(fmt.Sprintf("Failed to mark session %s completed: %v", session.ID, err))
		}
	}

	analysis := s.Analyzer.AnalyzeTranscript(ctx, transcript)
	analysis.PatientName = resolvePatientName(session.ProspectName, analysis.PatientName, transcript)

	pdf, err := s.Renderer.RenderIntakeReport(dto.IntakeReportDocument{
		Analysis:           analysis,
		Transcript:         transcript,
		PatientName:        analysis.PatientName,
		ReportDate:         formatReportDate(session.CompletedAt),
		SessionID:          session.ID,
		ProjectName:        session.ProjectName,
		DurationSeconds:    duration,
		PerceptionAnalysis: perception,
	})
	if err != nil {
		s.Logger.Error(fmt.Sprintf("Failed to render report for session %s: %v", session.ID, err))
		return dto.IntakeReportResult{Success: false, PDFGenerated: false, EmailSent: false, Error: err.Error()}
	}

	// Claim the idempotency marker right before dispatch. Losing the claim
	// means a racing trigger owns the send.
	sentAt := time.Now()
	claimed, err := s.Sessions.ClaimReportSend(ctx, session.ID, session.ReportRecipient, sentAt)
	if err != nil {
		s.Logger.Error(fmt.Sprintf("Failed to claim report send for session %s: %v", session.ID, err))
		return dto.IntakeReportResult{Success: false, PDFGenerated: true, EmailSent: false, Error: err.Error()}
	}
	if !claimed {
		return dto.IntakeReportResult{Success: true, PDFGenerated: true, Message: "Report already sent"}
	}

	mail := s.Mailer.SendIntakeReport(dto.IntakeReportEmail{
		RecipientEmail: session.ReportRecipient,
		PatientName:    analysis.PatientName,
		ReportDate:     formatReportDate(session.CompletedAt),
		Summary:        analysis.Summary,
		PDF:            pdf,
		ProjectName:    session.ProjectName,
	})
	if !mail.Success {
		s.Logger.Error(fmt.Sprintf("Failed to send report for session %s: %s", session.ID, mail.Error))
		if err := s.Sessions.ReleaseReportSend(ctx, session.ID); err != nil {
			s.Logger.Error(fmt.Sprintf("Failed to release report claim for session %s: %v", session.ID, err))
		}
		return dto.IntakeReportResult{Success: false, PDFGenerated: true, EmailSent: false, Error: mail.Error}
	}

	snapshot := map[string]interface{}{
		"patientName":    analysis.PatientName,
		"chiefComplaint": analysis.ChiefComplaint,
		"urgencyLevel":   analysis.UrgencyLevel,
		"symptomsCount":  len(analysis.Symptoms),
		"analyzedAt":     sentAt.UTC().Format(time.RFC3339),
	}
	if err := s.Sessions.SaveAnalysisSnapshot(ctx, session.ID, snapshot); err != nil {
		s.Logger.Error(fmt.Sprintf("Failed to save analysis snapshot for session %s: %v", session.ID, err))
	}

	s.Logger.Info(fmt.Sprintf("Report generation complete for session %s (urgency %s)", session.ID, analysis.UrgencyLevel))

	return dto.IntakeReportResult{
		Success:      true,
		PDFGenerated: true,
		EmailSent:    true,
		Analysis: &dto.AnalysisSummary{
			PatientName:    analysis.PatientName,
			UrgencyLevel:   analysis.UrgencyLevel,
			ChiefComplaint: analysis.ChiefComplaint,
		},
	}
}

// resolvePatientName applies the resolution order: explicit session field,
// then the analyzer's extracted name, then transcript pattern extraction,
// which itself falls back to "Unknown Patient".
func resolvePatientName(prospectName string, analyzerName string, transcript []entities.TranscriptMessage) string {
	if prospectName != "" {
		return prospectName
	}
	if analyzerName != "" && analyzerName != util.UnknownPatient {
		return analyzerName
	}
	return util.ExtractPatientName(transcript)
}

func fetchedAnalysisData(verbose dto.VerboseConversation) map[string]interface{} {
	data := map[string]interface{}{}
	if verbose.PerceptionAnalysis != "" {
		data["perception_analysis"] = verbose.PerceptionAnalysis
	}
	if verbose.ShutdownReason != "" {
		data["shutdown_reason"] = verbose.ShutdownReason
	}
	if verbose.ShutdownAt != nil {
		data["system_shutdown"] = verbose.ShutdownAt.UTC().Format(time.RFC3339)
	}
	return data
}

func formatReportDate(completedAt *time.Time) string {
	if completedAt != nil {
		return completedAt.Format("January 2, 2006")
	}
	return time.Now().Format("January 2, 2006")
}

func analysisDataString(data map[string]interface{}, key string) string {
	if data == nil {
		return ""
	}
	if value, ok := data[key].(string); ok {
		return value
	}
	return ""
}
