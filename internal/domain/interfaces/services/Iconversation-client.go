package Iservices

import (
	"context"

	"intake-connector/internal/domain/dto"
)

// IConversationClient reads conversation state from the external provider.
type IConversationClient interface {
	GetVerboseConversation(ctx context.Context, conversationID string) (dto.VerboseConversation, error)
	GetConversationStatus(ctx context.Context, conversationID string) (string, error)
}
