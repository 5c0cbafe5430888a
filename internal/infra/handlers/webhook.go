package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"intake-connector/internal/domain/dto"
	Irepository "intake-connector/internal/domain/interfaces/repository"
	Iservices "intake-connector/internal/domain/interfaces/services"
	"intake-connector/internal/infra/logger"
)

// WebhookHandlers receives conversation lifecycle callbacks from the
// provider. The POST handler always acknowledges with 200 so the provider
// never retry-storms the endpoint; internal failures are logged only.
type WebhookHandlers struct {
	Logger        *logger.Logger
	Sessions      Irepository.SessionRepository
	ReportService Iservices.IIntakeReportService
}

func NewWebhookHandlers(logger *logger.Logger, sessions Irepository.SessionRepository, reportService Iservices.IIntakeReportService) *WebhookHandlers {
	return &WebhookHandlers{Logger: logger, Sessions: sessions, ReportService: reportService}
}

func (th *WebhookHandlers) ConversationWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		th.handleHealthCheck(w)
		return
	}
	if r.Method == http.MethodPost {
		th.handleWebhookEvent(w, r)
		return
	}
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

func (th *WebhookHandlers) handleHealthCheck(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   "conversation-webhook-handler",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (th *WebhookHandlers) handleWebhookEvent(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	ack := dto.WebhookAck{Received: true}
	defer func() {
		if rec := recover(); rec != nil {
			th.Logger.Error(fmt.Sprintf("Recovered from panic in webhook processing: %v", rec))
			ack.Error = "Processing error"
		}
		writeJSON(w, http.StatusOK, ack)
	}()

	var payload dto.ConversationWebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		th.Logger.Error(fmt.Sprintf("Invalid webhook payload: %v", err))
		ack.Error = "Processing error"
		return
	}

	th.Logger.Info(fmt.Sprintf("Received webhook event %s for conversation %s", payload.EventType, payload.ConversationID))

	var err error
	switch payload.EventType {
	case dto.EventConversationEnded, dto.EventSystemShutdown:
		err = th.handleConversationShutdown(r, payload)
	case dto.EventTranscriptionReady:
		err = th.handleTranscriptionReady(r, payload)
	}
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Error processing webhook event %s: %v", payload.EventType, err))
		ack.Error = "Processing error"
	}
}

// handleConversationShutdown marks the session completed. The transcript is
// usually not ready yet at this point; report generation waits for the
// transcription_ready event or another trigger.
func (th *WebhookHandlers) handleConversationShutdown(r *http.Request, payload dto.ConversationWebhookPayload) error {
	session, err := th.Sessions.FindByConversationID(r.Context(), payload.ConversationID)
	if err != nil {
		th.Logger.Info(fmt.Sprintf("No demo session found for conversation %s", payload.ConversationID))
		return nil
	}

	if err := th.Sessions.MarkCompleted(r.Context(), session.ID, time.Now()); err != nil {
		return fmt.Errorf("failed to mark session %s completed: %w", session.ID, err)
	}

	th.Logger.Info(fmt.Sprintf("Marked session %s as completed (conversation %s)", session.ID, payload.ConversationID))
	return nil
}

// handleTranscriptionReady funnels into the orchestrator, which fetches the
// transcript itself when the session does not carry one yet.
func (th *WebhookHandlers) handleTranscriptionReady(r *http.Request, payload dto.ConversationWebhookPayload) error {
	session, err := th.Sessions.FindByConversationID(r.Context(), payload.ConversationID)
	if err != nil {
		th.Logger.Info(fmt.Sprintf("No demo session found for conversation %s", payload.ConversationID))
		return nil
	}

	if session.ReportRecipient == "" {
		th.Logger.Info(fmt.Sprintf("No report_recipient set for session %s", session.ID))
		return nil
	}

	result := th.ReportService.CompleteSession(r.Context(), session.ID)
	th.Logger.Info(fmt.Sprintf("Intake report result for session %s: success=%t pdfGenerated=%t emailSent=%t message=%q error=%q",
		session.ID, result.Success, result.PDFGenerated, result.EmailSent, result.Message, result.Error))
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
