package usecase

import (
	"context"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"

	chat "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/domain"
	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

// ListMessagesUseCase returns the requester's visible window of a
// conversation, oldest first, and marks the counterpart's messages as read.
// Opening a conversation is what consumes its unread count, so the read
// receipt is emitted from here.
type ListMessagesUseCase struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
	Broadcaster   Broadcaster
}

func (uc *ListMessagesUseCase) Execute(ctx context.Context, conversationID, userID string) ([]MessageView, error) {
	conversation, err := findConversation(ctx, uc.Conversations, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, apperrors.Forbidden("not a participant of this conversation")
	}

	messages, err := uc.Messages.ListAfter(ctx, conversationID, conversation.ClearCutoff(userID))
	if err != nil {
		return nil, apperrors.Unavailable("could not list messages", err)
	}

	modified, err := uc.Messages.MarkRead(ctx, conversationID, userID)
	if err != nil {
		return nil, apperrors.Unavailable("could not mark messages as read", err)
	}
	if modified > 0 && uc.Broadcaster != nil {
		uc.Broadcaster.Publish([]string{chat.ConversationRoom(conversationID)},
			EventMessagesRead, ReadEvent{ConversationID: conversationID, ReadBy: userID})
	}

	views := NewMessageViews(messages)
	// The fetch ran before the read update, so reflect it in the response.
	for i := range views {
		if views[i].SenderID != userID {
			views[i].Read = true
		}
	}
	return views, nil
}
