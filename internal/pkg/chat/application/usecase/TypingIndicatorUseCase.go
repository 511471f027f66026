package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"

	cport "github.com/dihanio/LapakNesaBackend/internal/infrastructure/cache/port"
	chat "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/domain"
	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

const defaultTypingTTL = 5 * time.Second

// TypingIndicatorUseCase relays a typing signal to the counterpart's
// personal room. Nothing is persisted; a short-lived cache marker lets other
// backend instances answer "is X typing" without coordination.
type TypingIndicatorUseCase struct {
	Conversations repository.ConversationRepository
	Broadcaster   Broadcaster
	Cache         cport.Cache
	TTL           time.Duration // marker lifetime; defaultTypingTTL when zero
}

func (uc *TypingIndicatorUseCase) Execute(ctx context.Context, conversationID, userID string, isTyping bool) error {
	conversation, err := findConversation(ctx, uc.Conversations, conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(userID) {
		return apperrors.Forbidden("not a participant of this conversation")
	}

	if uc.Cache != nil {
		ttl := uc.TTL
		if ttl <= 0 {
			ttl = defaultTypingTTL
		}
		key := typingMarkerKey(conversationID, userID)
		if isTyping {
			if err := uc.Cache.Set(ctx, key, "1", ttl); err != nil {
				slog.Warn("typing marker write failed", "key", key, "error", err)
			}
		} else if _, err := uc.Cache.Del(ctx, key); err != nil {
			slog.Warn("typing marker delete failed", "key", key, "error", err)
		}
	}

	if uc.Broadcaster != nil {
		other := conversation.OtherParticipant(userID)
		uc.Broadcaster.Publish([]string{chat.UserRoom(other)}, EventTypingIndicator,
			TypingEvent{ConversationID: conversationID, UserID: userID, IsTyping: isTyping})
	}
	return nil
}

// Peek reports whether the counterpart currently holds a live typing marker.
// Markers expire on their own, so a cacheless deployment simply answers false.
func (uc *TypingIndicatorUseCase) Peek(ctx context.Context, conversationID, userID string) (string, bool, error) {
	conversation, err := findConversation(ctx, uc.Conversations, conversationID)
	if err != nil {
		return "", false, err
	}
	if !conversation.HasParticipant(userID) {
		return "", false, apperrors.Forbidden("not a participant of this conversation")
	}

	other := conversation.OtherParticipant(userID)
	if uc.Cache == nil {
		return other, false, nil
	}
	_, err = uc.Cache.Get(ctx, typingMarkerKey(conversationID, other))
	if err == nil {
		return other, true, nil
	}
	if !errors.Is(err, cport.ErrMiss) {
		slog.Warn("typing marker read failed", "conversationId", conversationID, "error", err)
	}
	return other, false, nil
}

func typingMarkerKey(conversationID, userID string) string {
	return fmt.Sprintf("typing:%s:%s", conversationID, userID)
}
