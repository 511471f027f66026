package usecase

// Server-to-client event names. The application layer decides which rooms an
// event addresses; the realtime transport only interprets the intent.
const (
	EventNewMessage          = "new_message"
	EventMessageNotification = "message_notification"
	EventMessagesRead        = "messages_read"
	EventMessageDeleted      = "message_deleted"
	EventTypingIndicator     = "typing_indicator"
	EventUserTyping          = "user_typing"
	EventUserStopTyping      = "user_stop_typing"
	EventUserStatusChange    = "user_status_change"
)

// Broadcaster delivers an event to a set of rooms, best effort. Implemented
// by the realtime hub; a nil Broadcaster in a use case disables realtime
// delivery without affecting the persisted operation.
type Broadcaster interface {
	Publish(rooms []string, event string, payload any) int
}

// MessageEvent is the payload of new_message and message_notification.
type MessageEvent struct {
	ConversationID string      `json:"conversationId"`
	Message        MessageView `json:"message"`
}

// ReadEvent is the payload of messages_read.
type ReadEvent struct {
	ConversationID string `json:"conversationId"`
	ReadBy         string `json:"readBy"`
}

// DeletedEvent is the payload of message_deleted.
type DeletedEvent struct {
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
}

// TypingEvent is the payload of the typing family of events.
type TypingEvent struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	IsTyping       bool   `json:"isTyping,omitempty"`
}
