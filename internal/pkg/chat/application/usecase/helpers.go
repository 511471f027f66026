package usecase

import (
	"context"
	"errors"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"

	chat "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/domain"
	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

func findConversation(ctx context.Context, repo repository.ConversationRepository, id string) (*chat.Conversation, error) {
	conversation, err := repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("conversation not found")
	}
	if err != nil {
		return nil, apperrors.Unavailable("could not load conversation", err)
	}
	return conversation, nil
}
