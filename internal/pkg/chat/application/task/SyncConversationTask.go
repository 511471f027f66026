package task

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	qport "github.com/dihanio/LapakNesaBackend/internal/infrastructure/queue/port"
	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

// TypeSyncConversation repairs a conversation whose last-message pointer fell
// behind its message log after a partial send.
const TypeSyncConversation = "chat:sync_conversation"

type syncConversationPayload struct {
	ConversationID string    `json:"conversationId"`
	MessageID      string    `json:"messageId"`
	SentAt         time.Time `json:"sentAt"`
}

// NewSyncConversationPayload encodes the repair parameters for enqueueing.
func NewSyncConversationPayload(conversationID, messageID string, sentAt time.Time) ([]byte, error) {
	return json.Marshal(syncConversationPayload{
		ConversationID: conversationID,
		MessageID:      messageID,
		SentAt:         sentAt,
	})
}

// NewSyncConversationHandler re-applies the pointer update. RecordMessage
// only moves the pointer forward, so replaying a stale task is harmless.
func NewSyncConversationHandler(conversations repository.ConversationRepository) qport.Handler {
	return func(ctx context.Context, t qport.Task) error {
		var p syncConversationPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			slog.Error("dropping malformed sync task", "error", err)
			return nil
		}
		if err := conversations.RecordMessage(ctx, p.ConversationID, p.MessageID, p.SentAt); err != nil {
			slog.Warn("conversation repair failed, will retry",
				"conversationId", p.ConversationID, "messageId", p.MessageID, "error", err)
			return err
		}
		slog.Info("conversation repaired", "conversationId", p.ConversationID, "messageId", p.MessageID)
		return nil
	}
}
