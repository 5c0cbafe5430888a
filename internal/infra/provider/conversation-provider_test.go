package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"intake-connector/internal/infra/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	os.Setenv("LOG_LEVEL", "error")
	return logger.NewLogger(context.Background(), false)
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *ConversationProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewConversationProvider(testLogger(), server.Client(), server.URL, "test-key")
}

func TestGetVerboseConversation(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/conversations/C1", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("verbose"))
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"conversation_id": "C1",
			"status": "ended",
			"transcript": [
				{"role": "assistant", "content": "What brings you in today?"},
				{"role": "user", "content": "My name is Jane, I have a headache"}
			],
			"shutdown_reason": "participant_left",
			"system.replica_joined": "2026-08-29T10:00:00Z",
			"system.shutdown": {"timestamp": "2026-08-29T10:05:30Z"},
			"application.perception_analysis": "Patient appeared calm."
		}`)
	})

	verbose, err := provider.GetVerboseConversation(context.Background(), "C1")

	require.NoError(t, err)
	require.Len(t, verbose.Transcript, 2)
	assert.Equal(t, "assistant", verbose.Transcript[0].Role)
	assert.Equal(t, "My name is Jane, I have a headache", verbose.Transcript[1].Content)
	assert.Equal(t, "participant_left", verbose.ShutdownReason)
	assert.Equal(t, "Patient appeared calm.", verbose.PerceptionAnalysis)
	assert.Equal(t, 330, verbose.DurationSeconds)
	require.NotNil(t, verbose.ShutdownAt)
	assert.Equal(t, time.Date(2026, 8, 29, 10, 5, 30, 0, time.UTC), verbose.ShutdownAt.UTC())
}

func TestGetVerboseConversationEventTranscriptFallback(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"conversation_id": "C1",
			"status": "ended",
			"events": [
				{"event_type": "system.shutdown"},
				{"event_type": "application.transcription_ready", "properties": {"transcript": [
					{"role": "user", "content": "I have chest pain"}
				]}}
			]
		}`)
	})

	verbose, err := provider.GetVerboseConversation(context.Background(), "C1")

	require.NoError(t, err)
	require.Len(t, verbose.Transcript, 1)
	assert.Equal(t, "I have chest pain", verbose.Transcript[0].Content)
}

func TestGetVerboseConversationEmptyTranscriptIsValid(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"conversation_id": "C1", "status": "active"}`)
	})

	verbose, err := provider.GetVerboseConversation(context.Background(), "C1")

	require.NoError(t, err)
	assert.Empty(t, verbose.Transcript)
}

func TestGetVerboseConversationDiscardsNonPositiveDuration(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"conversation_id": "C1",
			"status": "ended",
			"transcript": [{"role": "user", "content": "hello"}],
			"system.replica_joined": "2026-08-29T10:05:00Z",
			"system.shutdown": {"timestamp": "2026-08-29T10:00:00Z"}
		}`)
	})

	verbose, err := provider.GetVerboseConversation(context.Background(), "C1")

	require.NoError(t, err)
	assert.Equal(t, 0, verbose.DurationSeconds, "shutdown before join yields no duration")
}

func TestGetVerboseConversationUpstreamError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := provider.GetVerboseConversation(context.Background(), "C1")

	require.Error(t, err)
	var fetchErr *UpstreamFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusBadGateway, fetchErr.StatusCode)
}

func TestGetVerboseConversationEmptyID(t *testing.T) {
	provider := NewConversationProvider(testLogger(), http.DefaultClient, "http://unused", "k")

	_, err := provider.GetVerboseConversation(context.Background(), "")

	require.Error(t, err)
}

func TestGetConversationStatus(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/conversations/C9", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("verbose"))
		fmt.Fprint(w, `{"conversation_id": "C9", "status": "ended"}`)
	})

	status, err := provider.GetConversationStatus(context.Background(), "C9")

	require.NoError(t, err)
	assert.Equal(t, "ended", status)
}

func TestDeriveDuration(t *testing.T) {
	joined := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	shutdown := joined.Add(95 * time.Second)

	assert.Equal(t, 95, deriveDuration(&joined, &shutdown))
	assert.Equal(t, 0, deriveDuration(&shutdown, &joined))
	assert.Equal(t, 0, deriveDuration(&joined, &joined))
	assert.Equal(t, 0, deriveDuration(nil, &shutdown))
	assert.Equal(t, 0, deriveDuration(&joined, nil))
}
