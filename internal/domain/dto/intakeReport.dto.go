package dto

import "intake-connector/internal/domain/entities"

// AnalysisSummary is the slice of the analysis surfaced to completion-trigger
// callers and persisted as the snapshot on the session.
type AnalysisSummary struct {
	PatientName    string `json:"patientName"`
	UrgencyLevel   string `json:"urgencyLevel"`
	ChiefComplaint string `json:"chiefComplaint"`
}

// IntakeReportResult is the structured outcome of one orchestrator
// invocation. The orchestrator never panics or returns a bare error to a
// completion trigger; every path produces one of these.
type IntakeReportResult struct {
	Success      bool             `json:"success"`
	PDFGenerated bool             `json:"pdfGenerated"`
	EmailSent    bool             `json:"emailSent"`
	Message      string           `json:"message,omitempty"`
	Error        string           `json:"error,omitempty"`
	Analysis     *AnalysisSummary `json:"analysis,omitempty"`
}

// IntakeReportDocument is everything the renderer needs to produce the PDF.
type IntakeReportDocument struct {
	Analysis           entities.IntakeAnalysis
	Transcript         []entities.TranscriptMessage
	PatientName        string
	ReportDate         string
	SessionID          string
	ProjectName        string
	DurationSeconds    int
	PerceptionAnalysis string
}

// IntakeReportEmail carries the rendered report to the dispatcher.
type IntakeReportEmail struct {
	RecipientEmail string
	PatientName    string
	ReportDate     string
	Summary        string
	PDF            []byte
	ProjectName    string
}

type MailResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
