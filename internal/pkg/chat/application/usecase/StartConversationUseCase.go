package usecase

import (
	"context"
	"errors"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"

	chat "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/domain"
	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

type StartConversationInput struct {
	UserID       string
	RecipientID  string
	ProductID    *string
	ClearProduct bool
}

// StartConversationUseCase finds or creates the single conversation between
// two users. The same pair in either order resolves to the same conversation.
type StartConversationUseCase struct {
	Conversations repository.ConversationRepository
}

func (uc *StartConversationUseCase) Execute(ctx context.Context, in StartConversationInput) (*chat.Conversation, error) {
	draft, err := chat.NewConversation(in.UserID, in.RecipientID, in.ProductID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.Conversations.FindByPair(ctx, in.UserID, in.RecipientID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unavailable("could not load conversation", err)
	}
	if errors.Is(err, repository.ErrNotFound) {
		id, err := uc.Conversations.Create(ctx, draft)
		if err != nil {
			return nil, apperrors.Unavailable("could not create conversation", err)
		}
		created, err := uc.Conversations.FindByID(ctx, id)
		if err != nil {
			return nil, apperrors.Unavailable("could not load conversation", err)
		}
		return created, nil
	}

	// Re-opening an existing conversation may retarget or clear the product
	// reference, but never resets the message log.
	switch {
	case in.ClearProduct && existing.ProductID != nil:
		if err := uc.Conversations.SetProduct(ctx, existing.ID, nil); err != nil {
			return nil, apperrors.Unavailable("could not update conversation", err)
		}
		existing.ProductID = nil
	case in.ProductID != nil && (existing.ProductID == nil || *existing.ProductID != *in.ProductID):
		if err := uc.Conversations.SetProduct(ctx, existing.ID, in.ProductID); err != nil {
			return nil, apperrors.Unavailable("could not update conversation", err)
		}
		existing.ProductID = in.ProductID
	}
	return existing, nil
}
