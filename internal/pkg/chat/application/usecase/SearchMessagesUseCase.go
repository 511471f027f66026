package usecase

import (
	"context"
	"strings"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"

	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

const (
	searchMinQueryLen = 2
	searchMaxResults  = 50
)

type SearchMessagesInput struct {
	UserID         string
	Query          string
	ConversationID *string // restrict the search to one conversation
}

// SearchMessagesUseCase searches plaintext message content across the user's
// conversations, hidden ones included. Encrypted payloads are opaque to the
// server and never match.
type SearchMessagesUseCase struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
}

func (uc *SearchMessagesUseCase) Execute(ctx context.Context, in SearchMessagesInput) ([]MessageView, error) {
	query := strings.TrimSpace(in.Query)
	if len(query) < searchMinQueryLen {
		return nil, apperrors.InvalidPayload("search query must be at least 2 characters")
	}

	var ids []string
	if in.ConversationID != nil {
		conversation, err := findConversation(ctx, uc.Conversations, *in.ConversationID)
		if err != nil {
			return nil, err
		}
		if !conversation.HasParticipant(in.UserID) {
			return nil, apperrors.Forbidden("not a participant of this conversation")
		}
		ids = []string{conversation.ID}
	} else {
		var err error
		ids, err = uc.conversationIDs(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
	}
	if len(ids) == 0 {
		return []MessageView{}, nil
	}

	messages, err := uc.Messages.Search(ctx, ids, query, searchMaxResults)
	if err != nil {
		return nil, apperrors.Unavailable("could not search messages", err)
	}
	return NewMessageViews(messages), nil
}

func (uc *SearchMessagesUseCase) conversationIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	for _, hidden := range []bool{false, true} {
		conversations, err := uc.Conversations.ListForUser(ctx, userID, hidden)
		if err != nil {
			return nil, apperrors.Unavailable("could not list conversations", err)
		}
		for i := range conversations {
			ids = append(ids, conversations[i].ID)
		}
	}
	return ids, nil
}
