package entities

import "time"

// Session lifecycle statuses. Transitions are monotonic:
// pending -> active -> completed, or expired from pending/active.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusExpired   = "expired"
)

// Transcript message roles as returned by the conversation provider.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// DemoSession is a single prospect's time-boxed demo instance tied to one
// project. The intake pipeline only mutates status, transcript, analysis_data,
// duration_seconds, completed_at, report_sent_at and report_recipient.
type DemoSession struct {
	ID              string                 `json:"id" bson:"_id"`
	ProjectID       string                 `json:"project_id" bson:"project_id"`
	ProjectName     string                 `json:"project_name,omitempty" bson:"project_name,omitempty"`
	ProspectName    string                 `json:"prospect_name,omitempty" bson:"prospect_name,omitempty"`
	Status          string                 `json:"status" bson:"status"`
	ConversationID  string                 `json:"conversation_id,omitempty" bson:"conversation_id,omitempty"`
	ConversationURL string                 `json:"conversation_url,omitempty" bson:"conversation_url,omitempty"`
	Transcript      []TranscriptMessage    `json:"transcript,omitempty" bson:"transcript,omitempty"`
	AnalysisData    map[string]interface{} `json:"analysis_data,omitempty" bson:"analysis_data,omitempty"`
	ReportRecipient string                 `json:"report_recipient,omitempty" bson:"report_recipient,omitempty"`
	ReportSentAt    *time.Time             `json:"report_sent_at,omitempty" bson:"report_sent_at,omitempty"`
	DurationSeconds int                    `json:"duration_seconds,omitempty" bson:"duration_seconds,omitempty"`
	CompletedAt     *time.Time             `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt       time.Time              `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt" bson:"updatedAt"`
}

// TranscriptMessage is one conversational turn. The provider field name for
// the text is "content"; ordering within a transcript is conversation order.
type TranscriptMessage struct {
	Role      string `json:"role" bson:"role"`
	Content   string `json:"content" bson:"content"`
	Timestamp string `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
}

// IntakeAnalysis is the structured clinical extraction computed from a
// transcript. It is recomputed on every run; only a summary snapshot is
// persisted into the session's analysis_data blob. List fields are always
// non-nil.
type IntakeAnalysis struct {
	PatientName        string   `json:"patientName"`
	ChiefComplaint     string   `json:"chiefComplaint"`
	Symptoms           []string `json:"symptoms"`
	MedicalHistory     []string `json:"medicalHistory"`
	Medications        []string `json:"medications"`
	Allergies          []string `json:"allergies"`
	UrgencyLevel       string   `json:"urgencyLevel"`
	KeyQuotes          []string `json:"keyQuotes"`
	RecommendedActions []string `json:"recommendedActions"`
	Summary            string   `json:"summary"`
}
