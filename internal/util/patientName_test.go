package util

import (
	"testing"

	"intake-connector/internal/domain/entities"

	"github.com/stretchr/testify/assert"
)

func TestExtractPatientName(t *testing.T) {
	tests := []struct {
		name       string
		transcript []entities.TranscriptMessage
		expected   string
	}{
		{
			name: "my name is pattern",
			transcript: []entities.TranscriptMessage{
				{Role: entities.RoleAssistant, Content: "Hi, what's your name?"},
				{Role: entities.RoleUser, Content: "My name is jane, I have a headache"},
			},
			expected: "Jane",
		},
		{
			name: "i'm pattern",
			transcript: []entities.TranscriptMessage{
				{Role: entities.RoleUser, Content: "Hello, I'm CARLOS and my back hurts"},
			},
			expected: "Carlos",
		},
		{
			name: "call me pattern",
			transcript: []entities.TranscriptMessage{
				{Role: entities.RoleUser, Content: "You can call me maria"},
			},
			expected: "Maria",
		},
		{
			name: "assistant introductions are ignored",
			transcript: []entities.TranscriptMessage{
				{Role: entities.RoleAssistant, Content: "My name is Flo, your intake nurse"},
				{Role: entities.RoleUser, Content: "I have a sore throat"},
			},
			expected: UnknownPatient,
		},
		{
			name: "no pattern at all",
			transcript: []entities.TranscriptMessage{
				{Role: entities.RoleUser, Content: "I have chest pain since yesterday"},
			},
			expected: UnknownPatient,
		},
		{
			name:       "empty transcript",
			transcript: nil,
			expected:   UnknownPatient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractPatientName(tt.transcript))
		})
	}
}
