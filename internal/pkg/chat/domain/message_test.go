package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"
)

func str(s string) *string { return &s }

func TestNewMessageInfersType(t *testing.T) {
	cases := []struct {
		name string
		in   Message
		want string
	}{
		{"text", Message{Content: str("hi")}, MessageTypeText},
		{"image", Message{Image: str("https://cdn/img.jpg")}, MessageTypeImage},
		{"gif", Message{GifURL: str("https://giphy/x.gif")}, MessageTypeGif},
		{"encrypted image", Message{Encrypted: true, EncryptedImage: str("blob"), ImageIV: str("iv")}, MessageTypeImage},
		{"sticker kept as declared", Message{Content: str("sticker-42"), MessageType: MessageTypeSticker}, MessageTypeSticker},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.ConversationID = "c1"
			tc.in.SenderID = "adam"
			m, err := NewMessage(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, m.MessageType)
		})
	}
}

func TestNewMessageRejectsUnknownType(t *testing.T) {
	_, err := NewMessage(Message{
		ConversationID: "c1", SenderID: "adam",
		Content: str("hi"), MessageType: "banana",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidPayload))
}

func TestNewMessageTrimsContent(t *testing.T) {
	m, err := NewMessage(Message{ConversationID: "c1", SenderID: "adam", Content: str("  hello  ")})
	require.NoError(t, err)
	assert.Equal(t, "hello", *m.Content)
}

func TestNewMessageRejectsEmptyPayload(t *testing.T) {
	_, err := NewMessage(Message{ConversationID: "c1", SenderID: "adam", Content: str("   ")})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidPayload))

	_, err = NewMessage(Message{ConversationID: "c1", SenderID: "adam"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidPayload))
}

func TestNewMessageEncryptedValidation(t *testing.T) {
	// encrypted flag without any encrypted payload
	_, err := NewMessage(Message{ConversationID: "c1", SenderID: "adam", Encrypted: true})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidPayload))

	// ciphertext without iv
	_, err = NewMessage(Message{ConversationID: "c1", SenderID: "adam", Encrypted: true, Ciphertext: str("blob")})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidPayload))

	// encrypted image without iv
	_, err = NewMessage(Message{ConversationID: "c1", SenderID: "adam", Encrypted: true, EncryptedImage: str("blob")})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidPayload))

	m, err := NewMessage(Message{ConversationID: "c1", SenderID: "adam", Encrypted: true, Ciphertext: str("blob"), IV: str("iv")})
	require.NoError(t, err)
	assert.True(t, m.Encrypted)
}

func TestSoftDelete(t *testing.T) {
	m, err := NewMessage(Message{ConversationID: "c1", SenderID: "adam", Content: str("secret")})
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, m.SoftDelete("adam", now))

	assert.True(t, m.IsDeleted)
	require.NotNil(t, m.DeletedAt)
	assert.Nil(t, m.Content)
	assert.False(t, m.HasPayload())

	// deleting twice is a no-op, the original timestamp survives
	later := now.Add(time.Hour)
	require.NoError(t, m.SoftDelete("adam", later))
	assert.Equal(t, now, *m.DeletedAt)
}

func TestSoftDeleteOnlyBySender(t *testing.T) {
	m, err := NewMessage(Message{ConversationID: "c1", SenderID: "adam", Content: str("hi")})
	require.NoError(t, err)

	err = m.SoftDelete("zoe", time.Now())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	assert.False(t, m.IsDeleted)
}
