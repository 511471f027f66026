package repository

import (
	"context"
	"errors"
	"time"

	chat "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/domain"
)

// ErrNotFound is returned by lookups when the row does not exist. Adapters
// translate their driver's no-rows sentinel into this one so use cases never
// import a driver package.
var ErrNotFound = errors.New("repository: not found")

// ConversationRepository persists conversations and their per-user
// visibility state (hidden flags and clear cutoffs).
type ConversationRepository interface {
	// Create persists c and returns the generated id.
	Create(ctx context.Context, c *chat.Conversation) (string, error)

	// FindByID loads a conversation with its full per-user state.
	FindByID(ctx context.Context, id string) (*chat.Conversation, error)

	// FindByPair looks a conversation up by its unordered participant pair.
	FindByPair(ctx context.Context, userA, userB string) (*chat.Conversation, error)

	// ListForUser returns conversations where userID participates, filtered on
	// the user's hidden flag, newest activity first.
	ListForUser(ctx context.Context, userID string, hidden bool) ([]chat.Conversation, error)

	// SetProduct replaces (or clears, with nil) the product context.
	SetProduct(ctx context.Context, id string, productID *string) error

	// SetHidden flips userID's hidden flag. Idempotent.
	SetHidden(ctx context.Context, id, userID string, hidden bool) error

	// SetCleared records userID's history cutoff and hides the conversation.
	SetCleared(ctx context.Context, id, userID string, at time.Time) error

	// RecordMessage advances lastMessage/lastMessageAt and clears every
	// participant's hidden flag.
	RecordMessage(ctx context.Context, id, messageID string, at time.Time) error
}

// MessageRepository is the append-only message log.
type MessageRepository interface {
	// Insert persists m and returns the generated id and the append
	// timestamp assigned by the store.
	Insert(ctx context.Context, m *chat.Message) (string, time.Time, error)

	FindByID(ctx context.Context, id string) (*chat.Message, error)

	// ListAfter returns the messages of a conversation created strictly after
	// cutoff (zero cutoff means the whole log), oldest first, with ReplyTo
	// resolved one level deep.
	ListAfter(ctx context.Context, conversationID string, cutoff time.Time) ([]chat.Message, error)

	// MarkRead flips read on every unread message not sent by readerID and
	// returns the number of rows modified.
	MarkRead(ctx context.Context, conversationID, readerID string) (int64, error)

	// SoftDelete tombstones the message, nulling all payload columns.
	SoftDelete(ctx context.Context, id string, at time.Time) error

	// Search matches plaintext content case-insensitively within the given
	// conversations, newest first, excluding tombstones.
	Search(ctx context.Context, conversationIDs []string, query string, limit int) ([]chat.Message, error)

	// CountUnread returns unread totals for userID keyed by conversation id,
	// restricted to the given conversations.
	CountUnread(ctx context.Context, conversationIDs []string, userID string) (map[string]int64, error)
}
