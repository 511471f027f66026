package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	cport "github.com/dihanio/LapakNesaBackend/internal/infrastructure/cache/port"
	qport "github.com/dihanio/LapakNesaBackend/internal/infrastructure/queue/port"
	chat "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/domain"
	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

// memConversationRepo mirrors the Postgres adapter's semantics in memory.
type memConversationRepo struct {
	seq           int
	byID          map[string]*chat.Conversation
	failRecording bool
}

func newMemConversationRepo() *memConversationRepo {
	return &memConversationRepo{byID: make(map[string]*chat.Conversation)}
}

func (r *memConversationRepo) Create(_ context.Context, c *chat.Conversation) (string, error) {
	for id, existing := range r.byID {
		if existing.Participants == c.Participants {
			return id, nil
		}
	}
	r.seq++
	id := fmt.Sprintf("conv-%d", r.seq)
	stored := *c
	stored.ID = id
	stored.CreatedAt = time.Now().UTC()
	stored.LastMessageAt = stored.CreatedAt
	stored.HiddenBy = make(map[string]struct{})
	stored.ClearedAt = make(map[string]time.Time)
	r.byID[id] = &stored
	return id, nil
}

func (r *memConversationRepo) FindByID(_ context.Context, id string) (*chat.Conversation, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (r *memConversationRepo) FindByPair(_ context.Context, userA, userB string) (*chat.Conversation, error) {
	lo, hi := chat.NormalizePair(userA, userB)
	for _, c := range r.byID {
		if c.Participants == [2]string{lo, hi} {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memConversationRepo) ListForUser(_ context.Context, userID string, hidden bool) ([]chat.Conversation, error) {
	var out []chat.Conversation
	for _, c := range r.byID {
		if c.HasParticipant(userID) && c.HiddenFor(userID) == hidden {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageAt.After(out[j].LastMessageAt) })
	return out, nil
}

func (r *memConversationRepo) SetProduct(_ context.Context, id string, productID *string) error {
	c, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.ProductID = productID
	return nil
}

func (r *memConversationRepo) SetHidden(_ context.Context, id, userID string, hidden bool) error {
	c, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	if hidden {
		return c.Hide(userID)
	}
	return c.Restore(userID)
}

func (r *memConversationRepo) SetCleared(_ context.Context, id, userID string, at time.Time) error {
	c, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	if c.ClearedAt == nil {
		c.ClearedAt = make(map[string]time.Time)
	}
	c.ClearedAt[userID] = at
	return nil
}

func (r *memConversationRepo) RecordMessage(_ context.Context, id, messageID string, at time.Time) error {
	if r.failRecording {
		return fmt.Errorf("record failure injected")
	}
	c, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.RecordMessage(messageID, at)
	return nil
}

// memMessageRepo keeps the append-only log in insertion order.
type memMessageRepo struct {
	seq      int
	messages []*chat.Message
	clock    time.Time
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{clock: time.Now().UTC()}
}

func (r *memMessageRepo) Insert(_ context.Context, m *chat.Message) (string, time.Time, error) {
	r.seq++
	// real timestamps, kept strictly increasing so ordering is deterministic
	now := time.Now().UTC()
	if !now.After(r.clock) {
		now = r.clock.Add(time.Microsecond)
	}
	r.clock = now
	stored := *m
	stored.ID = fmt.Sprintf("msg-%d", r.seq)
	stored.CreatedAt = now
	r.messages = append(r.messages, &stored)
	return stored.ID, stored.CreatedAt, nil
}

func (r *memMessageRepo) FindByID(_ context.Context, id string) (*chat.Message, error) {
	for _, m := range r.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memMessageRepo) ListAfter(_ context.Context, conversationID string, cutoff time.Time) ([]chat.Message, error) {
	var out []chat.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.CreatedAt.After(cutoff) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMessageRepo) MarkRead(_ context.Context, conversationID, readerID string) (int64, error) {
	var n int64
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.SenderID != readerID && !m.Read {
			m.Read = true
			n++
		}
	}
	return n, nil
}

func (r *memMessageRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	for _, m := range r.messages {
		if m.ID == id && !m.IsDeleted {
			return m.SoftDelete(m.SenderID, at)
		}
	}
	return nil
}

func (r *memMessageRepo) Search(_ context.Context, conversationIDs []string, query string, limit int) ([]chat.Message, error) {
	scope := make(map[string]bool, len(conversationIDs))
	for _, id := range conversationIDs {
		scope[id] = true
	}
	var out []chat.Message
	for i := len(r.messages) - 1; i >= 0 && len(out) < limit; i-- {
		m := r.messages[i]
		if !scope[m.ConversationID] || m.IsDeleted || m.Content == nil {
			continue
		}
		if strings.Contains(strings.ToLower(*m.Content), strings.ToLower(query)) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMessageRepo) CountUnread(_ context.Context, conversationIDs []string, userID string) (map[string]int64, error) {
	scope := make(map[string]bool, len(conversationIDs))
	for _, id := range conversationIDs {
		scope[id] = true
	}
	counts := make(map[string]int64)
	for _, m := range r.messages {
		if scope[m.ConversationID] && m.SenderID != userID && !m.Read && !m.IsDeleted {
			counts[m.ConversationID]++
		}
	}
	return counts, nil
}

// recordedEvent captures one Publish call for assertions.
type recordedEvent struct {
	Rooms   []string
	Event   string
	Payload any
}

type recorderBroadcaster struct {
	events []recordedEvent
}

func (b *recorderBroadcaster) Publish(rooms []string, event string, payload any) int {
	b.events = append(b.events, recordedEvent{Rooms: rooms, Event: event, Payload: payload})
	return len(rooms)
}

func (b *recorderBroadcaster) byType(event string) []recordedEvent {
	var out []recordedEvent
	for _, e := range b.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// recorderQueue captures enqueued tasks along with the liveness of the
// context each enqueue was handed.
type recorderQueue struct {
	tasks   []qport.Task
	ctxErrs []error
}

func (q *recorderQueue) Enqueue(ctx context.Context, t qport.Task, _ ...qport.EnqueueOption) (string, error) {
	q.tasks = append(q.tasks, t)
	q.ctxErrs = append(q.ctxErrs, ctx.Err())
	return fmt.Sprintf("task-%d", len(q.tasks)), nil
}

func (q *recorderQueue) Close() error { return nil }

// memCache is a TTL-less in-memory stand-in for the Redis adapter.
type memCache struct {
	values map[string]string
}

func newMemCache() *memCache {
	return &memCache{values: make(map[string]string)}
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", cport.ErrMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) (int64, error) {
	var n int64
	for _, key := range keys {
		if _, ok := c.values[key]; ok {
			delete(c.values, key)
			n++
		}
	}
	return n, nil
}

func (c *memCache) Ping(_ context.Context) error { return nil }

func (c *memCache) Close() error { return nil }
