package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dihanio/LapakNesaBackend/internal/pkg/chat/application/task"
	chat "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/domain"
	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"
)

func str(s string) *string { return &s }

func setupConversation(t *testing.T, repo *memConversationRepo) *chat.Conversation {
	t.Helper()
	start := &StartConversationUseCase{Conversations: repo}
	c, err := start.Execute(context.Background(), StartConversationInput{UserID: "adam", RecipientID: "zoe"})
	require.NoError(t, err)
	return c
}

func TestSendMessageBroadcastsToRoomAndCounterpart(t *testing.T) {
	conversations := newMemConversationRepo()
	messages := newMemMessageRepo()
	hub := &recorderBroadcaster{}
	conv := setupConversation(t, conversations)

	uc := &SendMessageUseCase{Conversations: conversations, Messages: messages, Broadcaster: hub}
	sent, err := uc.Execute(context.Background(), SendMessageInput{
		ConversationID: conv.ID, SenderID: "adam", Content: str("hello"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sent.ID)

	newMsg := hub.byType(EventNewMessage)
	require.Len(t, newMsg, 1)
	assert.Contains(t, newMsg[0].Rooms, chat.ConversationRoom(conv.ID))
	assert.Contains(t, newMsg[0].Rooms, chat.UserRoom("zoe"))

	notify := hub.byType(EventMessageNotification)
	require.Len(t, notify, 1)
	assert.Equal(t, []string{chat.UserRoom("zoe")}, notify[0].Rooms)
}

func TestSendMessageUnhidesForEveryone(t *testing.T) {
	conversations := newMemConversationRepo()
	messages := newMemMessageRepo()
	conv := setupConversation(t, conversations)

	require.NoError(t, conversations.SetHidden(context.Background(), conv.ID, "zoe", true))

	uc := &SendMessageUseCase{Conversations: conversations, Messages: messages}
	_, err := uc.Execute(context.Background(), SendMessageInput{
		ConversationID: conv.ID, SenderID: "adam", Content: str("you there?"),
	})
	require.NoError(t, err)

	stored, err := conversations.FindByID(context.Background(), conv.ID)
	require.NoError(t, err)
	assert.False(t, stored.HiddenFor("zoe"))
}

func TestSendMessageRejectsOutsider(t *testing.T) {
	conversations := newMemConversationRepo()
	conv := setupConversation(t, conversations)

	uc := &SendMessageUseCase{Conversations: conversations, Messages: newMemMessageRepo()}
	_, err := uc.Execute(context.Background(), SendMessageInput{
		ConversationID: conv.ID, SenderID: "mallory", Content: str("hi"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestSendMessageRejectsUnknownConversation(t *testing.T) {
	uc := &SendMessageUseCase{Conversations: newMemConversationRepo(), Messages: newMemMessageRepo()}
	_, err := uc.Execute(context.Background(), SendMessageInput{
		ConversationID: "missing", SenderID: "adam", Content: str("hi"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestSendMessageSchedulesRepairOnPointerFailure(t *testing.T) {
	conversations := newMemConversationRepo()
	messages := newMemMessageRepo()
	queue := &recorderQueue{}
	conv := setupConversation(t, conversations)

	conversations.failRecording = true
	uc := &SendMessageUseCase{Conversations: conversations, Messages: messages, Queue: queue}

	// the send still succeeds from the sender's point of view
	sent, err := uc.Execute(context.Background(), SendMessageInput{
		ConversationID: conv.ID, SenderID: "adam", Content: str("hello"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sent.ID)

	require.Len(t, queue.tasks, 1)
	assert.Equal(t, task.TypeSyncConversation, queue.tasks[0].Type)
}

// cancelingConversationRepo kills the request context during the pointer
// update, the way an expiring request deadline does.
type cancelingConversationRepo struct {
	*memConversationRepo
	cancel context.CancelFunc
}

func (r *cancelingConversationRepo) RecordMessage(ctx context.Context, id, messageID string, at time.Time) error {
	r.cancel()
	return ctx.Err()
}

func TestRepairEnqueueSurvivesDeadRequestContext(t *testing.T) {
	conversations := newMemConversationRepo()
	queue := &recorderQueue{}
	conv := setupConversation(t, conversations)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	uc := &SendMessageUseCase{
		Conversations: &cancelingConversationRepo{memConversationRepo: conversations, cancel: cancel},
		Messages:      newMemMessageRepo(),
		Queue:         queue,
	}
	sent, err := uc.Execute(ctx, SendMessageInput{
		ConversationID: conv.ID, SenderID: "adam", Content: str("hello"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sent.ID)

	// The repair must reach the queue on a live context even though the
	// request context died mid-update.
	require.Len(t, queue.tasks, 1)
	assert.NoError(t, queue.ctxErrs[0])
}

func TestAuthorizeChecksMembershipUpFront(t *testing.T) {
	conversations := newMemConversationRepo()
	conv := setupConversation(t, conversations)
	uc := &SendMessageUseCase{Conversations: conversations}

	assert.NoError(t, uc.Authorize(context.Background(), conv.ID, "adam"))

	err := uc.Authorize(context.Background(), conv.ID, "mallory")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	err = uc.Authorize(context.Background(), "missing", "adam")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestSendMessageReplyMustShareConversation(t *testing.T) {
	conversations := newMemConversationRepo()
	messages := newMemMessageRepo()
	convA := setupConversation(t, conversations)

	start := &StartConversationUseCase{Conversations: conversations}
	convB, err := start.Execute(context.Background(), StartConversationInput{UserID: "adam", RecipientID: "bea"})
	require.NoError(t, err)

	uc := &SendMessageUseCase{Conversations: conversations, Messages: messages}
	original, err := uc.Execute(context.Background(), SendMessageInput{
		ConversationID: convA.ID, SenderID: "adam", Content: str("original"),
	})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), SendMessageInput{
		ConversationID: convB.ID, SenderID: "adam", Content: str("reply"), ReplyToID: &original.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidPayload))

	reply, err := uc.Execute(context.Background(), SendMessageInput{
		ConversationID: convA.ID, SenderID: "zoe", Content: str("reply"), ReplyToID: &original.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, reply.ReplyTo)
	assert.Equal(t, original.ID, reply.ReplyTo.ID)
}
