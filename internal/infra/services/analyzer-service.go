package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"intake-connector/internal/domain/entities"
	"intake-connector/internal/infra/logger"

	openai "github.com/sashabaranov/go-openai"
)

const analysisPrompt = `You are a medical intake analysis assistant. Analyze the following conversation transcript between a patient and an AI intake nurse. Extract structured information for a doctor's review.

IMPORTANT: Be thorough but only include information that was actually discussed in the conversation. Do not invent or assume information that wasn't mentioned.

Extract the following information in JSON format:

{
  "patientName": "The patient's name if mentioned, otherwise 'Unknown Patient'",
  "chiefComplaint": "The main reason for the visit in 1-2 sentences",
  "symptoms": ["List of symptoms reported by the patient"],
  "medicalHistory": ["Any medical history mentioned (conditions, surgeries, etc.)"],
  "medications": ["Current medications mentioned"],
  "allergies": ["Any allergies mentioned"],
  "urgencyLevel": "low, medium, or high based on symptoms described",
  "keyQuotes": ["Important direct quotes from the patient (max 5)"],
  "recommendedActions": ["Suggested follow-up actions for the doctor (max 5)"],
  "summary": "A 2-3 sentence summary of the intake for quick doctor review"
}

Guidelines for urgency level:
- HIGH: Chest pain, difficulty breathing, severe bleeding, stroke symptoms, severe allergic reaction, thoughts of self-harm
- MEDIUM: Fever over 101F, persistent pain, vomiting, concerning symptoms that aren't immediately life-threatening
- LOW: Routine complaints, minor injuries, prescription refills, general questions

TRANSCRIPT:
`

// chatCompleter is the slice of the OpenAI client the analyzer needs;
// *openai.Client satisfies it.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// AnalyzerService extracts a structured intake record from a transcript via
// a single chat-completion call. It never returns an error: any upstream or
// parse failure yields the fixed fallback record.
type AnalyzerService struct {
	Logger *logger.Logger
	Client chatCompleter
	Model  string
}

func NewAnalyzerService(logger *logger.Logger, client chatCompleter, model string) *AnalyzerService {
	return &AnalyzerService{Logger: logger, Client: client, Model: model}
}

func (s *AnalyzerService) AnalyzeTranscript(ctx context.Context, transcript []entities.TranscriptMessage) entities.IntakeAnalysis {
	resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.Model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: analysisPrompt + formatTranscript(transcript)},
		},
	})
	if err != nil {
		s.Logger.Error(fmt.Sprintf("Transcript analysis call failed: %v", err))
		return fallbackAnalysis()
	}
	if len(resp.Choices) == 0 {
		s.Logger.Error("Transcript analysis returned no choices")
		return fallbackAnalysis()
	}

	raw := extractJSONObject(resp.Choices[0].Message.Content)
	if raw == "" {
		s.Logger.Error("Could not extract JSON from analysis response")
		return fallbackAnalysis()
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		s.Logger.Error(fmt.Sprintf("Failed to parse analysis JSON: %v", err))
		return fallbackAnalysis()
	}

	return sanitizeAnalysis(fields)
}

// formatTranscript joins the non-system turns into a role-labeled block,
// preserving conversation order.
func formatTranscript(transcript []entities.TranscriptMessage) string {
	var b strings.Builder
	for _, msg := range transcript {
		if msg.Role == entities.RoleSystem {
			continue
		}
		role := "AI NURSE"
		if msg.Role == entities.RoleUser {
			role = "PATIENT"
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(role)
		if msg.Timestamp != "" {
			b.WriteString(" [" + msg.Timestamp + "]")
		}
		b.WriteString(": " + msg.Content)
	}
	return b.String()
}

// extractJSONObject returns the first balanced {...} substring, tolerating
// prose wrapped around the JSON and braces inside string literals.
func extractJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// sanitizeAnalysis coerces the untyped response field by field into a fully
// defaulted record; the upstream shape is never trusted.
func sanitizeAnalysis(fields map[string]interface{}) entities.IntakeAnalysis {
	urgency := coerceString(fields, "urgencyLevel", "low")
	if urgency != "low" && urgency != "medium" && urgency != "high" {
		urgency = "low"
	}

	return entities.IntakeAnalysis{
		PatientName:        coerceString(fields, "patientName", "Unknown Patient"),
		ChiefComplaint:     coerceString(fields, "chiefComplaint", "Not specified"),
		Symptoms:           coerceStringList(fields, "symptoms", 0),
		MedicalHistory:     coerceStringList(fields, "medicalHistory", 0),
		Medications:        coerceStringList(fields, "medications", 0),
		Allergies:          coerceStringList(fields, "allergies", 0),
		UrgencyLevel:       urgency,
		KeyQuotes:          coerceStringList(fields, "keyQuotes", 5),
		RecommendedActions: coerceStringList(fields, "recommendedActions", 5),
		Summary:            coerceString(fields, "summary", "No summary available"),
	}
}

func coerceString(fields map[string]interface{}, key string, fallback string) string {
	if value, ok := fields[key].(string); ok && value != "" {
		return value
	}
	return fallback
}

// coerceStringList returns a non-nil slice; non-array values collapse to
// empty, and max > 0 truncates.
func coerceStringList(fields map[string]interface{}, key string, max int) []string {
	items, ok := fields[key].([]interface{})
	if !ok {
		return []string{}
	}
	list := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			list = append(list, s)
		}
	}
	if max > 0 && len(list) > max {
		list = list[:max]
	}
	return list
}

// fallbackAnalysis is the fixed record returned on any analysis failure.
func fallbackAnalysis() entities.IntakeAnalysis {
	return entities.IntakeAnalysis{
		PatientName:        "Unknown Patient",
		ChiefComplaint:     "Unable to analyze - see transcript",
		Symptoms:           []string{},
		MedicalHistory:     []string{},
		Medications:        []string{},
		Allergies:          []string{},
		UrgencyLevel:       "medium",
		KeyQuotes:          []string{},
		RecommendedActions: []string{"Review full transcript manually"},
		Summary:            "Automated analysis failed. Please review the full transcript.",
	}
}
