package usecase

import (
	"context"
	"time"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"

	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

// ClearConversationUseCase hides the conversation and records a per-user
// cutoff so that, on restore, only messages sent after the cutoff are
// visible to that user. The counterpart keeps the full log.
type ClearConversationUseCase struct {
	Conversations repository.ConversationRepository
}

func (uc *ClearConversationUseCase) Execute(ctx context.Context, conversationID, userID string) error {
	conversation, err := findConversation(ctx, uc.Conversations, conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(userID) {
		return apperrors.Forbidden("not a participant of this conversation")
	}
	now := time.Now().UTC()
	if err := uc.Conversations.SetCleared(ctx, conversationID, userID, now); err != nil {
		return apperrors.Unavailable("could not clear conversation", err)
	}
	if err := uc.Conversations.SetHidden(ctx, conversationID, userID, true); err != nil {
		return apperrors.Unavailable("could not clear conversation", err)
	}
	return nil
}
