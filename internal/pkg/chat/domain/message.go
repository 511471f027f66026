package chat

import (
	"strings"
	"time"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"
)

// MessageType distinguishes the rendered shape of a message.
const (
	MessageTypeText    = "text"
	MessageTypeImage   = "image"
	MessageTypeGif     = "gif"
	MessageTypeSticker = "sticker"
)

// Message is an append-only log entry in a conversation. Exactly one payload
// family must be present on a live message: plaintext content, an image URL
// (content doubles as caption), a gif URL, or the encrypted fields. The server
// never inspects ciphertext beyond presence.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string

	Content *string
	Image   *string
	GifURL  *string

	Encrypted      bool
	Ciphertext     *string
	IV             *string
	SessionKey     *string
	EncryptedImage *string
	ImageIV        *string
	ImageMimeType  *string

	MessageType string
	ReplyToID   *string
	ReplyTo     *Message // resolved one level deep, never recursively

	Read      bool
	IsDeleted bool
	DeletedAt *time.Time
	CreatedAt time.Time
}

// NewMessage normalizes and validates a message before persistence.
func NewMessage(m Message) (*Message, error) {
	if m.ConversationID == "" || m.SenderID == "" {
		return nil, apperrors.InvalidPayload("conversation and sender are required")
	}

	if m.Content != nil {
		trimmed := strings.TrimSpace(*m.Content)
		if trimmed == "" {
			m.Content = nil
		} else {
			m.Content = &trimmed
		}
	}

	if m.Encrypted && m.Ciphertext == nil && m.EncryptedImage == nil {
		return nil, apperrors.InvalidPayload("encrypted message is missing ciphertext")
	}
	if m.Ciphertext != nil && m.IV == nil {
		return nil, apperrors.InvalidPayload("ciphertext requires an iv")
	}
	if m.EncryptedImage != nil && m.ImageIV == nil {
		return nil, apperrors.InvalidPayload("encrypted image requires an iv")
	}

	if !m.HasPayload() {
		return nil, apperrors.InvalidPayload("message must not be empty")
	}

	switch m.MessageType {
	case "":
		switch {
		case m.GifURL != nil:
			m.MessageType = MessageTypeGif
		case m.Image != nil || m.EncryptedImage != nil:
			m.MessageType = MessageTypeImage
		default:
			m.MessageType = MessageTypeText
		}
	case MessageTypeText, MessageTypeImage, MessageTypeGif, MessageTypeSticker:
	default:
		return nil, apperrors.InvalidPayload("unknown message type")
	}

	return &m, nil
}

// HasPayload reports whether at least one payload family is present.
func (m *Message) HasPayload() bool {
	return m.Content != nil || m.Image != nil || m.GifURL != nil ||
		m.Ciphertext != nil || m.EncryptedImage != nil
}

// SoftDelete nulls every payload field and leaves the row as a tombstone so
// ordering stays intact. Deleting twice is a no-op.
func (m *Message) SoftDelete(requesterID string, now time.Time) error {
	if m.SenderID != requesterID {
		return apperrors.Forbidden("only the sender can delete this message")
	}
	if m.IsDeleted {
		return nil
	}
	m.IsDeleted = true
	m.DeletedAt = &now
	m.Content = nil
	m.Image = nil
	m.GifURL = nil
	m.Ciphertext = nil
	m.IV = nil
	m.SessionKey = nil
	m.EncryptedImage = nil
	m.ImageIV = nil
	m.ImageMimeType = nil
	return nil
}
