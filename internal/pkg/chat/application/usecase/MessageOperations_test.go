package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chat "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/domain"
	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"
)

func TestListMessagesMarksReadAndEmitsReceiptOnce(t *testing.T) {
	conversations := newMemConversationRepo()
	messages := newMemMessageRepo()
	hub := &recorderBroadcaster{}
	conv := setupConversation(t, conversations)

	send := &SendMessageUseCase{Conversations: conversations, Messages: messages}
	_, err := send.Execute(context.Background(), SendMessageInput{ConversationID: conv.ID, SenderID: "zoe", Content: str("hi")})
	require.NoError(t, err)

	list := &ListMessagesUseCase{Conversations: conversations, Messages: messages, Broadcaster: hub}

	views, err := list.Execute(context.Background(), conv.ID, "adam")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].Read)
	require.Len(t, hub.byType(EventMessagesRead), 1)

	// a second fetch changes nothing, so no second receipt
	_, err = list.Execute(context.Background(), conv.ID, "adam")
	require.NoError(t, err)
	assert.Len(t, hub.byType(EventMessagesRead), 1)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	conversations := newMemConversationRepo()
	messages := newMemMessageRepo()
	hub := &recorderBroadcaster{}
	conv := setupConversation(t, conversations)

	send := &SendMessageUseCase{Conversations: conversations, Messages: messages}
	_, err := send.Execute(context.Background(), SendMessageInput{ConversationID: conv.ID, SenderID: "zoe", Content: str("hi")})
	require.NoError(t, err)

	mark := &MarkReadUseCase{Conversations: conversations, Messages: messages, Broadcaster: hub}

	modified, err := mark.Execute(context.Background(), conv.ID, "adam")
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	modified, err = mark.Execute(context.Background(), conv.ID, "adam")
	require.NoError(t, err)
	assert.Equal(t, int64(0), modified)
	assert.Len(t, hub.byType(EventMessagesRead), 1)
}

func TestDeleteMessageLeavesTombstone(t *testing.T) {
	conversations := newMemConversationRepo()
	messages := newMemMessageRepo()
	hub := &recorderBroadcaster{}
	conv := setupConversation(t, conversations)

	send := &SendMessageUseCase{Conversations: conversations, Messages: messages}
	sent, err := send.Execute(context.Background(), SendMessageInput{ConversationID: conv.ID, SenderID: "adam", Content: str("oops")})
	require.NoError(t, err)

	del := &DeleteMessageUseCase{Messages: messages, Broadcaster: hub}
	require.NoError(t, del.Execute(context.Background(), sent.ID, "adam"))

	list := &ListMessagesUseCase{Conversations: conversations, Messages: messages}
	views, err := list.Execute(context.Background(), conv.ID, "zoe")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].IsDeleted)
	assert.Nil(t, views[0].Content)

	deleted := hub.byType(EventMessageDeleted)
	require.Len(t, deleted, 1)
	assert.Equal(t, []string{chat.ConversationRoom(conv.ID)}, deleted[0].Rooms)

	// deleting again succeeds without a second broadcast
	require.NoError(t, del.Execute(context.Background(), sent.ID, "adam"))
	assert.Len(t, hub.byType(EventMessageDeleted), 1)
}

func TestDeleteMessageOnlyBySender(t *testing.T) {
	conversations := newMemConversationRepo()
	messages := newMemMessageRepo()
	conv := setupConversation(t, conversations)

	send := &SendMessageUseCase{Conversations: conversations, Messages: messages}
	sent, err := send.Execute(context.Background(), SendMessageInput{ConversationID: conv.ID, SenderID: "adam", Content: str("mine")})
	require.NoError(t, err)

	del := &DeleteMessageUseCase{Messages: messages}
	err = del.Execute(context.Background(), sent.ID, "zoe")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestSearchMessages(t *testing.T) {
	conversations := newMemConversationRepo()
	messages := newMemMessageRepo()
	conv := setupConversation(t, conversations)

	send := &SendMessageUseCase{Conversations: conversations, Messages: messages}
	_, err := send.Execute(context.Background(), SendMessageInput{ConversationID: conv.ID, SenderID: "adam", Content: str("is the bike still available?")})
	require.NoError(t, err)
	_, err = send.Execute(context.Background(), SendMessageInput{ConversationID: conv.ID, SenderID: "zoe", Content: str("yes it is")})
	require.NoError(t, err)

	search := &SearchMessagesUseCase{Conversations: conversations, Messages: messages}

	results, err := search.Execute(context.Background(), SearchMessagesInput{UserID: "adam", Query: "bike"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, *results[0].Content, "bike")

	// too-short queries are rejected before touching the store
	_, err = search.Execute(context.Background(), SearchMessagesInput{UserID: "adam", Query: "b"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidPayload))

	// an outsider never sees the pair's conversation
	results, err = search.Execute(context.Background(), SearchMessagesInput{UserID: "mallory", Query: "bike"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUnreadCountTotalsAcrossConversations(t *testing.T) {
	conversations := newMemConversationRepo()
	messages := newMemMessageRepo()

	start := &StartConversationUseCase{Conversations: conversations}
	convA, err := start.Execute(context.Background(), StartConversationInput{UserID: "adam", RecipientID: "zoe"})
	require.NoError(t, err)
	convB, err := start.Execute(context.Background(), StartConversationInput{UserID: "adam", RecipientID: "bea"})
	require.NoError(t, err)

	send := &SendMessageUseCase{Conversations: conversations, Messages: messages}
	_, err = send.Execute(context.Background(), SendMessageInput{ConversationID: convA.ID, SenderID: "zoe", Content: str("one")})
	require.NoError(t, err)
	_, err = send.Execute(context.Background(), SendMessageInput{ConversationID: convB.ID, SenderID: "bea", Content: str("two")})
	require.NoError(t, err)
	_, err = send.Execute(context.Background(), SendMessageInput{ConversationID: convB.ID, SenderID: "bea", Content: str("three")})
	require.NoError(t, err)

	unread := &UnreadCountUseCase{Conversations: conversations, Messages: messages}
	total, err := unread.Execute(context.Background(), "adam")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	// hidden conversations still count toward the badge
	hide := &HideConversationUseCase{Conversations: conversations}
	require.NoError(t, hide.Execute(context.Background(), convB.ID, "adam"))
	total, err = unread.Execute(context.Background(), "adam")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestJoinConversationValidatesMembership(t *testing.T) {
	conversations := newMemConversationRepo()
	conv := setupConversation(t, conversations)

	join := &JoinConversationUseCase{Conversations: conversations}

	room, err := join.Execute(context.Background(), conv.ID, "adam")
	require.NoError(t, err)
	assert.Equal(t, chat.ConversationRoom(conv.ID), room)

	_, err = join.Execute(context.Background(), conv.ID, "mallory")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestTypingIndicatorGoesToCounterpartOnly(t *testing.T) {
	conversations := newMemConversationRepo()
	hub := &recorderBroadcaster{}
	conv := setupConversation(t, conversations)

	typing := &TypingIndicatorUseCase{Conversations: conversations, Broadcaster: hub}
	require.NoError(t, typing.Execute(context.Background(), conv.ID, "adam", true))

	events := hub.byType(EventTypingIndicator)
	require.Len(t, events, 1)
	assert.Equal(t, []string{chat.UserRoom("zoe")}, events[0].Rooms)
}

func TestTypingMarkerRoundTrip(t *testing.T) {
	conversations := newMemConversationRepo()
	cache := newMemCache()
	conv := setupConversation(t, conversations)

	typing := &TypingIndicatorUseCase{Conversations: conversations, Cache: cache}

	// Nothing typed yet.
	other, isTyping, err := typing.Peek(context.Background(), conv.ID, "zoe")
	require.NoError(t, err)
	assert.Equal(t, "adam", other)
	assert.False(t, isTyping)

	require.NoError(t, typing.Execute(context.Background(), conv.ID, "adam", true))

	_, isTyping, err = typing.Peek(context.Background(), conv.ID, "zoe")
	require.NoError(t, err)
	assert.True(t, isTyping)

	// The peeker's own marker must not count.
	_, isTyping, err = typing.Peek(context.Background(), conv.ID, "adam")
	require.NoError(t, err)
	assert.False(t, isTyping)

	require.NoError(t, typing.Execute(context.Background(), conv.ID, "adam", false))

	_, isTyping, err = typing.Peek(context.Background(), conv.ID, "zoe")
	require.NoError(t, err)
	assert.False(t, isTyping)
}

func TestTypingPeekRejectsOutsider(t *testing.T) {
	conversations := newMemConversationRepo()
	conv := setupConversation(t, conversations)

	typing := &TypingIndicatorUseCase{Conversations: conversations, Cache: newMemCache()}
	_, _, err := typing.Peek(context.Background(), conv.ID, "mallory")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}
