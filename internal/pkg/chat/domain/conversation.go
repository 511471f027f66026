package chat

import (
	"time"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"
)

// Conversation is the single thread between an unordered pair of users,
// optionally carrying a marketplace product as context.
//
// HiddenBy and ClearedAt hold per-user visibility state: hiding removes the
// conversation from that user's list until the next message arrives; clearing
// hides history at or before the recorded cutoff for that user only. Absence
// in either map means "visible" / "never cleared".
type Conversation struct {
	ID            string
	Participants  [2]string // normalized: Participants[0] < Participants[1]
	ProductID     *string
	LastMessageID *string
	LastMessageAt time.Time
	HiddenBy      map[string]struct{}
	ClearedAt     map[string]time.Time
	CreatedAt     time.Time
}

// NormalizePair orders two user ids so a pair always maps to the same key
// regardless of argument order.
func NormalizePair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// NewConversation validates the pair and returns a conversation ready to persist.
func NewConversation(userA, userB string, productID *string) (*Conversation, error) {
	if userA == "" || userB == "" {
		return nil, apperrors.InvalidPayload("both participants are required")
	}
	if userA == userB {
		return nil, apperrors.InvalidPayload("cannot start a conversation with yourself")
	}
	lo, hi := NormalizePair(userA, userB)
	return &Conversation{
		Participants: [2]string{lo, hi},
		ProductID:    productID,
		HiddenBy:     make(map[string]struct{}),
		ClearedAt:    make(map[string]time.Time),
	}, nil
}

// HasParticipant tells whether userID belongs to this conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	return c != nil && (c.Participants[0] == userID || c.Participants[1] == userID)
}

// OtherParticipant returns the counterpart of userID, or "" when userID
// is not a participant.
func (c *Conversation) OtherParticipant(userID string) string {
	switch userID {
	case c.Participants[0]:
		return c.Participants[1]
	case c.Participants[1]:
		return c.Participants[0]
	default:
		return ""
	}
}

// Hide snoozes the conversation for userID. Idempotent.
func (c *Conversation) Hide(userID string) error {
	if !c.HasParticipant(userID) {
		return apperrors.Forbidden("not a participant of this conversation")
	}
	if c.HiddenBy == nil {
		c.HiddenBy = make(map[string]struct{})
	}
	c.HiddenBy[userID] = struct{}{}
	return nil
}

// Restore undoes Hide for userID. Idempotent.
func (c *Conversation) Restore(userID string) error {
	if !c.HasParticipant(userID) {
		return apperrors.Forbidden("not a participant of this conversation")
	}
	delete(c.HiddenBy, userID)
	return nil
}

// Clear hides the conversation for userID and records a history cutoff: messages
// created at or before now become invisible to userID only. The other
// participant's view and the message rows themselves are untouched.
func (c *Conversation) Clear(userID string, now time.Time) error {
	if err := c.Hide(userID); err != nil {
		return err
	}
	if c.ClearedAt == nil {
		c.ClearedAt = make(map[string]time.Time)
	}
	c.ClearedAt[userID] = now
	return nil
}

// HiddenFor reports whether userID has snoozed this conversation.
func (c *Conversation) HiddenFor(userID string) bool {
	_, ok := c.HiddenBy[userID]
	return ok
}

// ClearCutoff returns userID's history cutoff; the zero time means the full
// log is visible.
func (c *Conversation) ClearCutoff(userID string) time.Time {
	return c.ClearedAt[userID]
}

// RecordMessage advances the denormalized last-message pointer and clears the
// hidden set for everyone: a new message always brings the conversation back
// into both lists, the sender's included.
func (c *Conversation) RecordMessage(messageID string, at time.Time) {
	c.LastMessageID = &messageID
	c.LastMessageAt = at
	c.HiddenBy = make(map[string]struct{})
}
