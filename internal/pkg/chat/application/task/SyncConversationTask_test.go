package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qport "github.com/dihanio/LapakNesaBackend/internal/infrastructure/queue/port"
	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

type stubConversationRepo struct {
	repository.ConversationRepository

	recorded  []string
	recordErr error
}

func (s *stubConversationRepo) RecordMessage(_ context.Context, id, messageID string, _ time.Time) error {
	if s.recordErr != nil {
		return s.recordErr
	}
	s.recorded = append(s.recorded, id+"/"+messageID)
	return nil
}

func TestSyncConversationHandlerReappliesPointer(t *testing.T) {
	repo := &stubConversationRepo{}
	handler := NewSyncConversationHandler(repo)

	payload, err := NewSyncConversationPayload("conv-1", "msg-9", time.Now().UTC())
	require.NoError(t, err)

	err = handler(context.Background(), qport.Task{Type: TypeSyncConversation, Payload: payload})
	require.NoError(t, err)
	assert.Equal(t, []string{"conv-1/msg-9"}, repo.recorded)
}

func TestSyncConversationHandlerRetriesOnFailure(t *testing.T) {
	repo := &stubConversationRepo{recordErr: repository.ErrNotFound}
	handler := NewSyncConversationHandler(repo)

	payload, err := NewSyncConversationPayload("conv-1", "msg-9", time.Now().UTC())
	require.NoError(t, err)

	// a failing repair returns the error so the queue retries it
	err = handler(context.Background(), qport.Task{Type: TypeSyncConversation, Payload: payload})
	assert.Error(t, err)
}

func TestSyncConversationHandlerDropsMalformedPayload(t *testing.T) {
	repo := &stubConversationRepo{}
	handler := NewSyncConversationHandler(repo)

	err := handler(context.Background(), qport.Task{Type: TypeSyncConversation, Payload: []byte("not json")})
	assert.NoError(t, err)
	assert.Empty(t, repo.recorded)
}
