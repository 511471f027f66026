package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"
)

func TestNewConversationNormalizesPair(t *testing.T) {
	a, err := NewConversation("zoe", "adam", nil)
	require.NoError(t, err)
	b, err := NewConversation("adam", "zoe", nil)
	require.NoError(t, err)

	assert.Equal(t, a.Participants, b.Participants)
	assert.Equal(t, "adam", a.Participants[0])
	assert.Equal(t, "zoe", a.Participants[1])
}

func TestNewConversationRejectsSelfChat(t *testing.T) {
	_, err := NewConversation("adam", "adam", nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidPayload))
}

func TestNewConversationRejectsEmptyParticipant(t *testing.T) {
	_, err := NewConversation("", "adam", nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidPayload))
}

func TestHideAndRestore(t *testing.T) {
	c, err := NewConversation("adam", "zoe", nil)
	require.NoError(t, err)

	require.NoError(t, c.Hide("adam"))
	assert.True(t, c.HiddenFor("adam"))
	assert.False(t, c.HiddenFor("zoe"))

	// hiding twice stays hidden
	require.NoError(t, c.Hide("adam"))
	assert.True(t, c.HiddenFor("adam"))

	require.NoError(t, c.Restore("adam"))
	assert.False(t, c.HiddenFor("adam"))

	// restoring an already visible conversation is a no-op
	require.NoError(t, c.Restore("adam"))
}

func TestHideRejectsNonParticipant(t *testing.T) {
	c, err := NewConversation("adam", "zoe", nil)
	require.NoError(t, err)

	err = c.Hide("mallory")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestClearSetsCutoffForOneUserOnly(t *testing.T) {
	c, err := NewConversation("adam", "zoe", nil)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, c.Clear("adam", now))

	assert.True(t, c.HiddenFor("adam"))
	assert.Equal(t, now, c.ClearCutoff("adam"))
	assert.True(t, c.ClearCutoff("zoe").IsZero())
}

func TestRecordMessageUnhidesEveryone(t *testing.T) {
	c, err := NewConversation("adam", "zoe", nil)
	require.NoError(t, err)
	require.NoError(t, c.Hide("adam"))
	require.NoError(t, c.Hide("zoe"))

	at := time.Now().UTC()
	c.RecordMessage("msg-1", at)

	assert.False(t, c.HiddenFor("adam"))
	assert.False(t, c.HiddenFor("zoe"))
	require.NotNil(t, c.LastMessageID)
	assert.Equal(t, "msg-1", *c.LastMessageID)
	assert.Equal(t, at, c.LastMessageAt)
}

func TestRecordMessageKeepsClearCutoff(t *testing.T) {
	c, err := NewConversation("adam", "zoe", nil)
	require.NoError(t, err)

	cutoff := time.Now().UTC()
	require.NoError(t, c.Clear("adam", cutoff))
	c.RecordMessage("msg-1", cutoff.Add(time.Second))

	// un-hidden, but history before the cutoff stays gone
	assert.False(t, c.HiddenFor("adam"))
	assert.Equal(t, cutoff, c.ClearCutoff("adam"))
}

func TestOtherParticipant(t *testing.T) {
	c, err := NewConversation("adam", "zoe", nil)
	require.NoError(t, err)

	assert.Equal(t, "zoe", c.OtherParticipant("adam"))
	assert.Equal(t, "adam", c.OtherParticipant("zoe"))
	assert.Equal(t, "", c.OtherParticipant("mallory"))
}
