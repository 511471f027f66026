package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/domain"
	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/port"
)

// PgConversationRepository stores conversations in Postgres. The participant
// pair is kept normalized (low < high) with a unique index so a pair can only
// ever own one conversation, regardless of who opened it.
type PgConversationRepository struct {
	pool *pgxpool.Pool
}

func NewPgConversationRepository(pool *pgxpool.Pool) *PgConversationRepository {
	return &PgConversationRepository{pool: pool}
}

var _ repository.ConversationRepository = (*PgConversationRepository)(nil)

const conversationColumns = `c.id::text, c.participant_low, c.participant_high, c.product_id,
	c.last_message_id::text, c.last_message_at, c.created_at`

func (r *PgConversationRepository) Create(ctx context.Context, c *chat.Conversation) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgConversationRepository: nil pool")
	}
	// Upsert on the pair index keeps concurrent first-contact requests from
	// racing into duplicate rows; both callers get the same id back.
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.conversation (participant_low, participant_high, product_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (participant_low, participant_high)
		DO UPDATE SET participant_low = EXCLUDED.participant_low
		RETURNING id::text
	`, c.Participants[0], c.Participants[1], c.ProductID).Scan(&id)
	return id, err
}

func (r *PgConversationRepository) FindByID(ctx context.Context, id string) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgConversationRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+conversationColumns+`
		FROM chat.conversation c
		WHERE c.id = $1::uuid
	`, id)
	conv, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadStates(ctx, []*chat.Conversation{conv}); err != nil {
		return nil, err
	}
	return conv, nil
}

func (r *PgConversationRepository) FindByPair(ctx context.Context, userA, userB string) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgConversationRepository: nil pool")
	}
	lo, hi := chat.NormalizePair(userA, userB)
	row := r.pool.QueryRow(ctx, `
		SELECT `+conversationColumns+`
		FROM chat.conversation c
		WHERE c.participant_low = $1 AND c.participant_high = $2
	`, lo, hi)
	conv, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadStates(ctx, []*chat.Conversation{conv}); err != nil {
		return nil, err
	}
	return conv, nil
}

func (r *PgConversationRepository) ListForUser(ctx context.Context, userID string, hidden bool) ([]chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgConversationRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+conversationColumns+`
		FROM chat.conversation c
		LEFT JOIN chat.participant_state s
		  ON s.conversation_id = c.id AND s.user_id = $1
		WHERE (c.participant_low = $1 OR c.participant_high = $1)
		  AND COALESCE(s.hidden, false) = $2
		ORDER BY c.last_message_at DESC
	`, userID, hidden)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []*chat.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	if err := r.loadStates(ctx, convs); err != nil {
		return nil, err
	}

	out := make([]chat.Conversation, 0, len(convs))
	for _, c := range convs {
		out = append(out, *c)
	}
	return out, nil
}

func (r *PgConversationRepository) SetProduct(ctx context.Context, id string, productID *string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgConversationRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx,
		`UPDATE chat.conversation SET product_id = $2 WHERE id = $1::uuid`,
		id, productID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgConversationRepository) SetHidden(ctx context.Context, id, userID string, hidden bool) error {
	if r == nil || r.pool == nil {
		return errors.New("PgConversationRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat.participant_state (conversation_id, user_id, hidden)
		VALUES ($1::uuid, $2, $3)
		ON CONFLICT (conversation_id, user_id)
		DO UPDATE SET hidden = EXCLUDED.hidden
	`, id, userID, hidden)
	return err
}

func (r *PgConversationRepository) SetCleared(ctx context.Context, id, userID string, at time.Time) error {
	if r == nil || r.pool == nil {
		return errors.New("PgConversationRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat.participant_state (conversation_id, user_id, hidden, cleared_at)
		VALUES ($1::uuid, $2, true, $3)
		ON CONFLICT (conversation_id, user_id)
		DO UPDATE SET hidden = true, cleared_at = EXCLUDED.cleared_at
	`, id, userID, at)
	return err
}

func (r *PgConversationRepository) RecordMessage(ctx context.Context, id, messageID string, at time.Time) error {
	if r == nil || r.pool == nil {
		return errors.New("PgConversationRepository: nil pool")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Forward-only so a replayed repair task cannot rewind the pointer.
	ct, err := tx.Exec(ctx, `
		UPDATE chat.conversation
		SET last_message_id = CASE WHEN last_message_at <= $3 THEN $2::uuid ELSE last_message_id END,
		    last_message_at = GREATEST(last_message_at, $3)
		WHERE id = $1::uuid
	`, id, messageID, at)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	// A new message un-hides the thread for everyone, the sender included.
	if _, err := tx.Exec(ctx,
		`UPDATE chat.participant_state SET hidden = false WHERE conversation_id = $1::uuid`,
		id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// loadStates fills HiddenBy/ClearedAt for the given conversations from the
// participant_state rows. A missing row means visible and never cleared.
func (r *PgConversationRepository) loadStates(ctx context.Context, convs []*chat.Conversation) error {
	if len(convs) == 0 {
		return nil
	}
	byID := make(map[string]*chat.Conversation, len(convs))
	ids := make([]string, 0, len(convs))
	for _, c := range convs {
		c.HiddenBy = make(map[string]struct{})
		c.ClearedAt = make(map[string]time.Time)
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT conversation_id::text, user_id, hidden, cleared_at
		FROM chat.participant_state
		WHERE conversation_id = ANY($1::uuid[])
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			convID, userID string
			hidden         bool
			clearedAt      *time.Time
		)
		if err := rows.Scan(&convID, &userID, &hidden, &clearedAt); err != nil {
			return err
		}
		conv := byID[convID]
		if conv == nil {
			continue
		}
		if hidden {
			conv.HiddenBy[userID] = struct{}{}
		}
		if clearedAt != nil {
			conv.ClearedAt[userID] = *clearedAt
		}
	}
	return rows.Err()
}

func scanConversation(row pgx.Row) (*chat.Conversation, error) {
	var (
		conv          chat.Conversation
		lo, hi        string
		lastMessageID *string
	)
	if err := row.Scan(&conv.ID, &lo, &hi, &conv.ProductID, &lastMessageID,
		&conv.LastMessageAt, &conv.CreatedAt); err != nil {
		return nil, err
	}
	conv.Participants = [2]string{lo, hi}
	conv.LastMessageID = lastMessageID
	return &conv, nil
}
