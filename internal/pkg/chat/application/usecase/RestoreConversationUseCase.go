package usecase

import (
	"context"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"

	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

// RestoreConversationUseCase brings a hidden conversation back into the
// requesting user's inbox.
type RestoreConversationUseCase struct {
	Conversations repository.ConversationRepository
}

func (uc *RestoreConversationUseCase) Execute(ctx context.Context, conversationID, userID string) error {
	conversation, err := findConversation(ctx, uc.Conversations, conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(userID) {
		return apperrors.Forbidden("not a participant of this conversation")
	}
	if err := uc.Conversations.SetHidden(ctx, conversationID, userID, false); err != nil {
		return apperrors.Unavailable("could not restore conversation", err)
	}
	return nil
}
