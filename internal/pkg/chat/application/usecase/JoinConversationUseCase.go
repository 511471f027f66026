package usecase

import (
	"context"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"

	chat "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/domain"
	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

// JoinConversationUseCase validates that a user may subscribe to a
// conversation's realtime room and returns the room name to join.
type JoinConversationUseCase struct {
	Conversations repository.ConversationRepository
}

func (uc *JoinConversationUseCase) Execute(ctx context.Context, conversationID, userID string) (string, error) {
	conversation, err := findConversation(ctx, uc.Conversations, conversationID)
	if err != nil {
		return "", err
	}
	if !conversation.HasParticipant(userID) {
		return "", apperrors.Forbidden("not a participant of this conversation")
	}
	return chat.ConversationRoom(conversationID), nil
}
