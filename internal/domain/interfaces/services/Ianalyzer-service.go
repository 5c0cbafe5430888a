package Iservices

import (
	"context"

	"intake-connector/internal/domain/entities"
)

// ITranscriptAnalyzer turns a transcript into a structured intake record.
// AnalyzeTranscript absorbs every upstream failure and returns a fixed
// fallback record instead of an error.
type ITranscriptAnalyzer interface {
	AnalyzeTranscript(ctx context.Context, transcript []entities.TranscriptMessage) entities.IntakeAnalysis
}
