package usecase

import (
	"context"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"

	chat "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/domain"
	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

// MarkReadUseCase marks every message sent by the counterpart as read.
// Idempotent; the read receipt is only broadcast when something actually
// changed.
type MarkReadUseCase struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
	Broadcaster   Broadcaster
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, conversationID, userID string) (int64, error) {
	conversation, err := findConversation(ctx, uc.Conversations, conversationID)
	if err != nil {
		return 0, err
	}
	if !conversation.HasParticipant(userID) {
		return 0, apperrors.Forbidden("not a participant of this conversation")
	}

	modified, err := uc.Messages.MarkRead(ctx, conversationID, userID)
	if err != nil {
		return 0, apperrors.Unavailable("could not mark messages as read", err)
	}
	if modified > 0 && uc.Broadcaster != nil {
		uc.Broadcaster.Publish([]string{chat.ConversationRoom(conversationID)},
			EventMessagesRead, ReadEvent{ConversationID: conversationID, ReadBy: userID})
	}
	return modified, nil
}
