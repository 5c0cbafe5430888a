package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"intake-connector/internal/domain/dto"
	"intake-connector/internal/domain/entities"
	"intake-connector/internal/infra/logger"
)

// UpstreamFetchError is returned for transport failures and non-2xx responses
// from the conversation provider. Callers must distinguish it from a valid
// response that simply carries no transcript.
type UpstreamFetchError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("conversation provider fetch failed: %v", e.Err)
	}
	return fmt.Sprintf("conversation provider fetch failed: unexpected HTTP status %d", e.StatusCode)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

// ConversationProvider reads conversation detail from the external
// conversational-video API. Pure reads, no side effects.
type ConversationProvider struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	BaseURL    string
	APIKey     string
}

func NewConversationProvider(logger *logger.Logger, httpClient *http.Client, baseURL string, apiKey string) *ConversationProvider {
	return &ConversationProvider{Logger: logger, HttpClient: httpClient, BaseURL: baseURL, APIKey: apiKey}
}

// GetVerboseConversation fetches the verbose conversation detail, including
// the transcript and perception/shutdown metadata, and maps it into the
// domain model. An empty transcript with a successful response is a valid
// result, not an error.
func (p *ConversationProvider) GetVerboseConversation(ctx context.Context, conversationID string) (dto.VerboseConversation, error) {
	if conversationID == "" {
		return dto.VerboseConversation{}, fmt.Errorf("conversation id cannot be empty")
	}

	var raw dto.VerboseConversationResponse
	url := fmt.Sprintf("%s/v2/conversations/%s?verbose=true", p.BaseURL, conversationID)
	if err := p.getJSON(ctx, url, &raw); err != nil {
		return dto.VerboseConversation{}, err
	}

	result := dto.VerboseConversation{
		ShutdownReason:     raw.ShutdownReason,
		PerceptionAnalysis: raw.PerceptionAnalysis,
		Transcript:         mapTranscript(extractTranscript(raw)),
	}

	if raw.ReplicaJoined != "" {
		if joined, err := time.Parse(time.RFC3339, raw.ReplicaJoined); err == nil {
			result.ReplicaJoinedAt = &joined
		}
	}
	if raw.Shutdown != nil && raw.Shutdown.Timestamp != "" {
		if shutdown, err := time.Parse(time.RFC3339, raw.Shutdown.Timestamp); err == nil {
			result.ShutdownAt = &shutdown
		}
	}
	result.DurationSeconds = deriveDuration(result.ReplicaJoinedAt, result.ShutdownAt)

	return result, nil
}

// GetConversationStatus fetches the non-verbose conversation detail and
// returns its status ("active", "ended", ...).
func (p *ConversationProvider) GetConversationStatus(ctx context.Context, conversationID string) (string, error) {
	if conversationID == "" {
		return "", fmt.Errorf("conversation id cannot be empty")
	}

	var raw dto.ConversationStatusResponse
	url := fmt.Sprintf("%s/v2/conversations/%s", p.BaseURL, conversationID)
	if err := p.getJSON(ctx, url, &raw); err != nil {
		return "", err
	}
	return raw.Status, nil
}

func (p *ConversationProvider) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.HttpClient.Do(req)
	if err != nil {
		p.Logger.Error(fmt.Sprintf("HTTP request failed %v", err))
		return &UpstreamFetchError{Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		p.Logger.Error(fmt.Sprintf("Unexpected HTTP status %s from conversation provider", res.Status))
		return &UpstreamFetchError{StatusCode: res.StatusCode}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		p.Logger.Error(fmt.Sprintf("Failed to decode provider response: %v", err))
		return &UpstreamFetchError{Err: err}
	}
	return nil
}

// extractTranscript prefers the top-level transcript field; some provider
// responses instead carry it inside a transcription_ready event.
func extractTranscript(raw dto.VerboseConversationResponse) []dto.ConversationMessage {
	if len(raw.Transcript) > 0 {
		return raw.Transcript
	}
	for _, event := range raw.Events {
		if event.EventType == dto.EventTranscriptionReady && len(event.Properties.Transcript) > 0 {
			return event.Properties.Transcript
		}
	}
	return nil
}

func mapTranscript(messages []dto.ConversationMessage) []entities.TranscriptMessage {
	if len(messages) == 0 {
		return nil
	}
	transcript := make([]entities.TranscriptMessage, 0, len(messages))
	for _, msg := range messages {
		transcript = append(transcript, entities.TranscriptMessage{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		})
	}
	return transcript
}

// deriveDuration computes elapsed whole seconds between replica join and
// shutdown. Out-of-order or equal timestamps are discarded, not clamped.
func deriveDuration(joinedAt *time.Time, shutdownAt *time.Time) int {
	if joinedAt == nil || shutdownAt == nil {
		return 0
	}
	seconds := int(shutdownAt.Sub(*joinedAt).Seconds())
	if seconds <= 0 {
		return 0
	}
	return seconds
}
