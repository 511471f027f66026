package usecase

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"

	chat "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/domain"
	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

// DeleteMessageUseCase soft-deletes a message. Only the sender may delete,
// the tombstone keeps its position in the log, and deletion is irreversible.
type DeleteMessageUseCase struct {
	Messages    repository.MessageRepository
	Broadcaster Broadcaster
}

func (uc *DeleteMessageUseCase) Execute(ctx context.Context, messageID, requesterID string) error {
	message, err := uc.Messages.FindByID(ctx, messageID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("message not found")
	}
	if err != nil {
		return apperrors.Unavailable("could not load message", err)
	}

	alreadyDeleted := message.IsDeleted
	now := time.Now().UTC()
	if err := message.SoftDelete(requesterID, now); err != nil {
		return err
	}
	if alreadyDeleted {
		return nil
	}

	if err := uc.Messages.SoftDelete(ctx, messageID, now); err != nil {
		return apperrors.Unavailable("could not delete message", err)
	}
	if uc.Broadcaster != nil {
		uc.Broadcaster.Publish([]string{chat.ConversationRoom(message.ConversationID)},
			EventMessageDeleted, DeletedEvent{ConversationID: message.ConversationID, MessageID: messageID})
	}
	return nil
}
