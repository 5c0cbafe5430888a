package report

import (
	"context"
	"os"
	"testing"

	"intake-connector/internal/domain/dto"
	"intake-connector/internal/domain/entities"
	"intake-connector/internal/infra/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	os.Setenv("LOG_LEVEL", "error")
	return logger.NewLogger(context.Background(), false)
}

func TestRenderableTranscript(t *testing.T) {
	transcript := []entities.TranscriptMessage{
		{Role: entities.RoleSystem, Content: "persona configured"},
		{Role: entities.RoleAssistant, Content: "What brings you in today?"},
		{Role: entities.RoleUser, Content: "I have a headache"},
		{Role: entities.RoleUser, Content: "   "},
		{Role: entities.RoleAssistant, Content: "How long has it lasted?"},
	}

	filtered := RenderableTranscript(transcript)

	require.Len(t, filtered, 3)
	assert.Equal(t, "What brings you in today?", filtered[0].Content)
	assert.Equal(t, "I have a headache", filtered[1].Content)
	assert.Equal(t, "How long has it lasted?", filtered[2].Content)
}

func TestRenderIntakeReport(t *testing.T) {
	renderer := NewPDFRenderer(testLogger())
	doc := dto.IntakeReportDocument{
		Analysis: entities.IntakeAnalysis{
			PatientName:        "Jane",
			ChiefComplaint:     "Headache for two days",
			Symptoms:           []string{"headache", "light sensitivity"},
			MedicalHistory:     []string{"migraine"},
			Medications:        []string{"ibuprofen"},
			Allergies:          []string{"penicillin"},
			UrgencyLevel:       "medium",
			KeyQuotes:          []string{"It gets worse in the evening"},
			RecommendedActions: []string{"Schedule neurological exam"},
			Summary:            "Patient reports a persistent headache.",
		},
		Transcript: []entities.TranscriptMessage{
			{Role: entities.RoleAssistant, Content: "What brings you in today?"},
			{Role: entities.RoleUser, Content: "I have a headache", Timestamp: "2026-08-29T10:01:00Z"},
		},
		PatientName:        "Jane",
		ReportDate:         "August 29, 2026",
		SessionID:          "S1",
		ProjectName:        "Riverside Clinic",
		DurationSeconds:    312,
		PerceptionAnalysis: "Patient appeared calm.",
	}

	pdf, err := renderer.RenderIntakeReport(doc)

	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestRenderIntakeReportEmptyOptionals(t *testing.T) {
	renderer := NewPDFRenderer(testLogger())
	doc := dto.IntakeReportDocument{
		Analysis: entities.IntakeAnalysis{
			PatientName:        "Unknown Patient",
			ChiefComplaint:     "Not specified",
			Symptoms:           []string{},
			MedicalHistory:     []string{},
			Medications:        []string{},
			Allergies:          []string{},
			UrgencyLevel:       "low",
			KeyQuotes:          []string{},
			RecommendedActions: []string{},
			Summary:            "No summary available",
		},
		PatientName: "Unknown Patient",
		ReportDate:  "August 29, 2026",
		SessionID:   "S2",
	}

	pdf, err := renderer.RenderIntakeReport(doc)

	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "5:12", formatDuration(312))
	assert.Equal(t, "0:45", formatDuration(45))
	assert.Equal(t, "N/A", formatDuration(0))
	assert.Equal(t, "N/A", formatDuration(-5))
}
