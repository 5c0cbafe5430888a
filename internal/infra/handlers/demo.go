package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"intake-connector/internal/domain/dto"
	"intake-connector/internal/domain/entities"
	Irepository "intake-connector/internal/domain/interfaces/repository"
	Iservices "intake-connector/internal/domain/interfaces/services"
	"intake-connector/internal/infra/logger"
)

// DemoHandlers exposes the prospect-facing endpoints: the intake form save
// before a conversation starts and the client-initiated completion fired
// when the demo page is closed.
type DemoHandlers struct {
	Logger        *logger.Logger
	Sessions      Irepository.SessionRepository
	ReportService Iservices.IIntakeReportService
}

func NewDemoHandlers(logger *logger.Logger, sessions Irepository.SessionRepository, reportService Iservices.IIntakeReportService) *DemoHandlers {
	return &DemoHandlers{Logger: logger, Sessions: sessions, ReportService: reportService}
}

// CompleteDemo is the client-initiated completion trigger. It tolerates any
// number of invocations per session and any timing relative to transcript
// availability.
func (th *DemoHandlers) CompleteDemo(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req dto.CompleteDemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Session ID required"})
		return
	}

	session, err := th.Sessions.FindByID(r.Context(), req.SessionID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Session not found"})
		return
	}
	if session.ConversationID == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "No conversation started"})
		return
	}

	result := th.ReportService.CompleteSession(r.Context(), req.SessionID)
	th.Logger.Info(fmt.Sprintf("Demo complete for session %s: success=%t emailSent=%t message=%q error=%q",
		req.SessionID, result.Success, result.EmailSent, result.Message, result.Error))

	response := dto.CompleteDemoResponse{
		Success:   result.Success,
		EmailSent: result.EmailSent,
		Message:   result.Message,
	}
	if result.Analysis != nil {
		response.PatientName = result.Analysis.PatientName
	}
	writeJSON(w, http.StatusOK, response)
}

// SaveIntake captures the prospect name and report recipient before the
// conversation starts; it is the only writer of the recipient the pipeline
// later requires.
func (th *DemoHandlers) SaveIntake(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req dto.IntakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Session ID is required"})
		return
	}

	session, err := th.Sessions.FindByID(r.Context(), req.SessionID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Session not found"})
		return
	}
	if session.Status == entities.StatusCompleted || session.Status == entities.StatusExpired {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Session has already ended"})
		return
	}

	if err := th.Sessions.SaveIntakeDetails(r.Context(), req.SessionID, req.ProspectName, req.ReportRecipient); err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to save intake details for session %s: %v", req.SessionID, err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to save intake information"})
		return
	}

	th.Logger.Info(fmt.Sprintf("Saved intake details for session %s (recipient %q)", req.SessionID, req.ReportRecipient))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
