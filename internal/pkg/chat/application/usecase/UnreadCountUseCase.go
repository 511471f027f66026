package usecase

import (
	"context"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"

	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

// UnreadCountUseCase totals unread messages across all of a user's
// conversations, hidden ones included, for the inbox badge.
type UnreadCountUseCase struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
}

func (uc *UnreadCountUseCase) Execute(ctx context.Context, userID string) (int64, error) {
	var ids []string
	for _, hidden := range []bool{false, true} {
		conversations, err := uc.Conversations.ListForUser(ctx, userID, hidden)
		if err != nil {
			return 0, apperrors.Unavailable("could not list conversations", err)
		}
		for i := range conversations {
			ids = append(ids, conversations[i].ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	counts, err := uc.Messages.CountUnread(ctx, ids, userID)
	if err != nil {
		return 0, apperrors.Unavailable("could not count unread messages", err)
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return total, nil
}
