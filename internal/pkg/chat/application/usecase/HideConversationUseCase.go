package usecase

import (
	"context"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"

	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

// HideConversationUseCase removes a conversation from the requesting user's
// inbox without touching the log or the counterpart's view.
type HideConversationUseCase struct {
	Conversations repository.ConversationRepository
}

func (uc *HideConversationUseCase) Execute(ctx context.Context, conversationID, userID string) error {
	conversation, err := findConversation(ctx, uc.Conversations, conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(userID) {
		return apperrors.Forbidden("not a participant of this conversation")
	}
	if err := uc.Conversations.SetHidden(ctx, conversationID, userID, true); err != nil {
		return apperrors.Unavailable("could not hide conversation", err)
	}
	return nil
}
