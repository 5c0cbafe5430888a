package dto

type CompleteDemoRequest struct {
	SessionID string `json:"session_id"`
}

type CompleteDemoResponse struct {
	Success     bool   `json:"success"`
	EmailSent   bool   `json:"emailSent,omitempty"`
	PatientName string `json:"patientName,omitempty"`
	Message     string `json:"message,omitempty"`
}

type IntakeRequest struct {
	SessionID       string `json:"session_id"`
	ProspectName    string `json:"prospect_name,omitempty"`
	ReportRecipient string `json:"report_recipient,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
