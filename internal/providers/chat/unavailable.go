package chat

import (
	"context"

	"declutterai/internal/domain"
)

// Unavailable is the chat backend used when no model API key is configured.
type Unavailable struct{}

func (Unavailable) Reply(context.Context, ReplyRequest) (*domain.ChatMessage, error) {
	return nil, domain.ErrProviderFailure
}

var _ DesignChat = Unavailable{}
