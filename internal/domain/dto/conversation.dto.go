package dto

import (
	"time"

	"intake-connector/internal/domain/entities"
)

// Raw shapes returned by the conversation provider's verbose detail endpoint.
// Keys that carry dots are the provider's own naming.

type ConversationMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

type ShutdownEvent struct {
	Timestamp string `json:"timestamp"`
	Reason    string `json:"reason,omitempty"`
}

type ConversationEventProperties struct {
	Transcript []ConversationMessage `json:"transcript,omitempty"`
}

type ConversationEvent struct {
	EventType  string                      `json:"event_type"`
	Timestamp  string                      `json:"timestamp,omitempty"`
	Properties ConversationEventProperties `json:"properties,omitempty"`
}

type VerboseConversationResponse struct {
	ConversationID     string                `json:"conversation_id"`
	ConversationName   string                `json:"conversation_name,omitempty"`
	Status             string                `json:"status"`
	Transcript         []ConversationMessage `json:"transcript,omitempty"`
	ShutdownReason     string                `json:"shutdown_reason,omitempty"`
	ReplicaJoined      string                `json:"system.replica_joined,omitempty"`
	Shutdown           *ShutdownEvent        `json:"system.shutdown,omitempty"`
	PerceptionAnalysis string                `json:"application.perception_analysis,omitempty"`
	Events             []ConversationEvent   `json:"events,omitempty"`
}

type ConversationStatusResponse struct {
	ConversationID string `json:"conversation_id"`
	Status         string `json:"status"`
}

// VerboseConversation is the provider payload mapped into the domain model.
// DurationSeconds is zero when the join/shutdown timestamps are missing or
// yield a non-positive elapsed time.
type VerboseConversation struct {
	Transcript         []entities.TranscriptMessage
	ShutdownReason     string
	PerceptionAnalysis string
	ReplicaJoinedAt    *time.Time
	ShutdownAt         *time.Time
	DurationSeconds    int
}
