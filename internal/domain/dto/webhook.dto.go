package dto

import "encoding/json"

// Webhook event types posted by the conversation provider.
const (
	EventConversationStarted = "conversation.started"
	EventConversationEnded   = "conversation.ended"
	EventConversationUpdated = "conversation.updated"
	EventSystemShutdown      = "system.shutdown"
	EventSystemReplicaJoined = "system.replica_joined"
	EventTranscriptionReady  = "application.transcription_ready"
	EventPerceptionAnalysis  = "application.perception_analysis"
)

type ConversationWebhookPayload struct {
	ConversationID string          `json:"conversation_id"`
	EventType      string          `json:"event_type"`
	Status         string          `json:"status,omitempty"`
	Timestamp      string          `json:"timestamp"`
	Data           json.RawMessage `json:"data,omitempty"`
}

// WebhookAck is always returned with HTTP 200, even on internal processing
// errors, so the provider does not retry-storm the endpoint.
type WebhookAck struct {
	Received bool   `json:"received"`
	Error    string `json:"error,omitempty"`
}
