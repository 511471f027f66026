package usecase

import (
	"time"

	chat "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/domain"
)

// MessageView is the wire shape of a message, shared by REST responses and
// realtime payloads.
type MessageView struct {
	ID             string       `json:"id"`
	ConversationID string       `json:"conversationId"`
	SenderID       string       `json:"senderId"`
	Content        *string      `json:"content"`
	Image          *string      `json:"image,omitempty"`
	GifURL         *string      `json:"gifUrl,omitempty"`
	Encrypted      bool         `json:"encrypted"`
	Ciphertext     *string      `json:"ciphertext,omitempty"`
	IV             *string      `json:"iv,omitempty"`
	SessionKey     *string      `json:"sessionKey,omitempty"`
	EncryptedImage *string      `json:"encryptedImage,omitempty"`
	ImageIV        *string      `json:"imageIv,omitempty"`
	ImageMimeType  *string      `json:"imageMimeType,omitempty"`
	MessageType    string       `json:"messageType"`
	ReplyTo        *MessageView `json:"replyTo,omitempty"`
	Read           bool         `json:"read"`
	IsDeleted      bool         `json:"isDeleted"`
	DeletedAt      *time.Time   `json:"deletedAt,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// NewMessageView maps a domain message, resolving at most one level of
// reply nesting.
func NewMessageView(m *chat.Message) MessageView {
	v := MessageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		Image:          m.Image,
		GifURL:         m.GifURL,
		Encrypted:      m.Encrypted,
		Ciphertext:     m.Ciphertext,
		IV:             m.IV,
		SessionKey:     m.SessionKey,
		EncryptedImage: m.EncryptedImage,
		ImageIV:        m.ImageIV,
		ImageMimeType:  m.ImageMimeType,
		MessageType:    m.MessageType,
		Read:           m.Read,
		IsDeleted:      m.IsDeleted,
		DeletedAt:      m.DeletedAt,
		CreatedAt:      m.CreatedAt,
	}
	if m.ReplyTo != nil {
		reply := NewMessageView(m.ReplyTo)
		reply.ReplyTo = nil
		v.ReplyTo = &reply
	}
	return v
}

// NewMessageViews maps a slice preserving order.
func NewMessageViews(messages []chat.Message) []MessageView {
	views := make([]MessageView, 0, len(messages))
	for i := range messages {
		views = append(views, NewMessageView(&messages[i]))
	}
	return views
}

// ConversationView is the wire shape of a conversation summary.
type ConversationView struct {
	ID            string    `json:"id"`
	Participants  []string  `json:"participants"`
	ProductID     *string   `json:"productId,omitempty"`
	LastMessageID *string   `json:"lastMessageId,omitempty"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int64     `json:"unreadCount"`
	Hidden        bool      `json:"hidden"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewConversationView maps a domain conversation from the perspective of one
// participant.
func NewConversationView(c *chat.Conversation, viewerID string, unread int64) ConversationView {
	return ConversationView{
		ID:            c.ID,
		Participants:  []string{c.Participants[0], c.Participants[1]},
		ProductID:     c.ProductID,
		LastMessageID: c.LastMessageID,
		LastMessageAt: c.LastMessageAt,
		UnreadCount:   unread,
		Hidden:        c.HiddenFor(viewerID),
		CreatedAt:     c.CreatedAt,
	}
}
