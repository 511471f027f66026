package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"

	qport "github.com/dihanio/LapakNesaBackend/internal/infrastructure/queue/port"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/chat/application/task"
	chat "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/domain"
	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

// repairEnqueueTimeout bounds the detached enqueue of the pointer-repair task.
const repairEnqueueTimeout = 5 * time.Second

type SendMessageInput struct {
	ConversationID string
	SenderID       string

	Content        *string
	Image          *string
	GifURL         *string
	Encrypted      bool
	Ciphertext     *string
	IV             *string
	SessionKey     *string
	EncryptedImage *string
	ImageIV        *string
	ImageMimeType  *string
	MessageType    string
	ReplyToID      *string
}

// SendMessageUseCase appends a message to a conversation. The message insert
// is the source of truth: once it succeeds the send has succeeded, and a
// failure to advance the conversation's last-message pointer is repaired in
// the background rather than surfaced to the sender.
type SendMessageUseCase struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
	Queue         qport.Client
	Broadcaster   Broadcaster
}

// Authorize confirms the sender may post to the conversation. Controllers
// with expensive side effects, like media uploads, call it before doing the
// work; Execute repeats the check so the use case stands on its own.
func (uc *SendMessageUseCase) Authorize(ctx context.Context, conversationID, senderID string) error {
	conversation, err := findConversation(ctx, uc.Conversations, conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(senderID) {
		return apperrors.Forbidden("not a participant of this conversation")
	}
	return nil
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	conversation, err := findConversation(ctx, uc.Conversations, in.ConversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(in.SenderID) {
		return nil, apperrors.Forbidden("not a participant of this conversation")
	}

	message, err := chat.NewMessage(chat.Message{
		ConversationID: in.ConversationID,
		SenderID:       in.SenderID,
		Content:        in.Content,
		Image:          in.Image,
		GifURL:         in.GifURL,
		Encrypted:      in.Encrypted,
		Ciphertext:     in.Ciphertext,
		IV:             in.IV,
		SessionKey:     in.SessionKey,
		EncryptedImage: in.EncryptedImage,
		ImageIV:        in.ImageIV,
		ImageMimeType:  in.ImageMimeType,
		MessageType:    in.MessageType,
		ReplyToID:      in.ReplyToID,
	})
	if err != nil {
		return nil, err
	}

	if in.ReplyToID != nil {
		reply, err := uc.Messages.FindByID(ctx, *in.ReplyToID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.InvalidPayload("replied-to message not found")
		}
		if err != nil {
			return nil, apperrors.Unavailable("could not load replied-to message", err)
		}
		if reply.ConversationID != in.ConversationID {
			return nil, apperrors.InvalidPayload("replied-to message belongs to another conversation")
		}
		message.ReplyTo = reply
	}

	id, createdAt, err := uc.Messages.Insert(ctx, message)
	if err != nil {
		return nil, apperrors.Unavailable("could not store message", err)
	}
	message.ID = id
	message.CreatedAt = createdAt

	if err := uc.Conversations.RecordMessage(ctx, in.ConversationID, id, createdAt); err != nil {
		slog.Error("conversation pointer update failed, scheduling repair",
			"conversationId", in.ConversationID, "messageId", id, "error", err)
		uc.scheduleRepair(in.ConversationID, id, createdAt)
	}

	if uc.Broadcaster != nil {
		view := NewMessageView(message)
		event := MessageEvent{ConversationID: in.ConversationID, Message: view}
		other := conversation.OtherParticipant(in.SenderID)
		uc.Broadcaster.Publish([]string{
			chat.ConversationRoom(in.ConversationID),
			chat.UserRoom(other),
		}, EventNewMessage, event)
		uc.Broadcaster.Publish([]string{chat.UserRoom(other)}, EventMessageNotification, event)
	}
	return message, nil
}

func (uc *SendMessageUseCase) scheduleRepair(conversationID, messageID string, at time.Time) {
	if uc.Queue == nil {
		return
	}
	payload, err := task.NewSyncConversationPayload(conversationID, messageID, at)
	if err != nil {
		slog.Error("could not encode conversation repair task", "conversationId", conversationID, "error", err)
		return
	}
	// A dead request context is the most likely reason the pointer update
	// failed, so the enqueue runs on its own deadline.
	ctx, cancel := context.WithTimeout(context.Background(), repairEnqueueTimeout)
	defer cancel()
	_, err = uc.Queue.Enqueue(ctx, qport.Task{Type: task.TypeSyncConversation, Payload: payload},
		qport.EnqueueOption{Queue: "chat", MaxRetry: 10})
	if err != nil {
		slog.Error("could not enqueue conversation repair task", "conversationId", conversationID, "error", err)
	}
}
