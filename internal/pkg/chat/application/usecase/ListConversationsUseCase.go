package usecase

import (
	"context"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"

	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

type ListConversationsInput struct {
	UserID string
	Hidden bool
}

// ListConversationsUseCase returns a user's conversations, most recently
// active first, annotated with unread counts.
type ListConversationsUseCase struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]ConversationView, error) {
	conversations, err := uc.Conversations.ListForUser(ctx, in.UserID, in.Hidden)
	if err != nil {
		return nil, apperrors.Unavailable("could not list conversations", err)
	}

	ids := make([]string, 0, len(conversations))
	for i := range conversations {
		ids = append(ids, conversations[i].ID)
	}
	unread, err := uc.Messages.CountUnread(ctx, ids, in.UserID)
	if err != nil {
		return nil, apperrors.Unavailable("could not count unread messages", err)
	}

	views := make([]ConversationView, 0, len(conversations))
	for i := range conversations {
		views = append(views, NewConversationView(&conversations[i], in.UserID, unread[conversations[i].ID]))
	}
	return views, nil
}
