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

// PgMessageRepository stores the per-conversation message log in Postgres.
// Ordering inside a conversation is by created_at, assigned at insert time by
// the database, not at request receipt.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

var _ repository.MessageRepository = (*PgMessageRepository)(nil)

const messageColumns = `m.id::text, m.conversation_id::text, m.sender_id, m.content, m.image,
	m.gif_url, m.encrypted, m.ciphertext, m.iv, m.session_key, m.encrypted_image,
	m.image_iv, m.image_mime_type, m.message_type, m.reply_to::text, m.read,
	m.is_deleted, m.deleted_at, m.created_at`

func (r *PgMessageRepository) Insert(ctx context.Context, m *chat.Message) (string, time.Time, error) {
	if r == nil || r.pool == nil {
		return "", time.Time{}, errors.New("PgMessageRepository: nil pool")
	}
	var (
		id        string
		createdAt time.Time
	)
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.message (
			conversation_id, sender_id, content, image, gif_url,
			encrypted, ciphertext, iv, session_key, encrypted_image,
			image_iv, image_mime_type, message_type, reply_to
		) VALUES (
			$1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14::uuid
		)
		RETURNING id::text, created_at
	`, m.ConversationID, m.SenderID, m.Content, m.Image, m.GifURL,
		m.Encrypted, m.Ciphertext, m.IV, m.SessionKey, m.EncryptedImage,
		m.ImageIV, m.ImageMimeType, m.MessageType, m.ReplyToID,
	).Scan(&id, &createdAt)
	return id, createdAt, err
}

func (r *PgMessageRepository) FindByID(ctx context.Context, id string) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+messageColumns+`
		FROM chat.message m
		WHERE m.id = $1::uuid
	`, id)
	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return msg, nil
}

func (r *PgMessageRepository) ListAfter(ctx context.Context, conversationID string, cutoff time.Time) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`,
		       rp.id::text, rp.sender_id, rp.content, rp.image,
		       rp.encrypted, rp.ciphertext, rp.iv, rp.is_deleted
		FROM chat.message m
		LEFT JOIN chat.message rp ON rp.id = m.reply_to
		WHERE m.conversation_id = $1::uuid AND m.created_at > $2
		ORDER BY m.created_at ASC
	`, conversationID, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var (
			msg   chat.Message
			reply replyScan
		)
		if err := rows.Scan(
			&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Content, &msg.Image,
			&msg.GifURL, &msg.Encrypted, &msg.Ciphertext, &msg.IV, &msg.SessionKey,
			&msg.EncryptedImage, &msg.ImageIV, &msg.ImageMimeType, &msg.MessageType,
			&msg.ReplyToID, &msg.Read, &msg.IsDeleted, &msg.DeletedAt, &msg.CreatedAt,
			&reply.id, &reply.senderID, &reply.content, &reply.image,
			&reply.encrypted, &reply.ciphertext, &reply.iv, &reply.isDeleted,
		); err != nil {
			return nil, err
		}
		if reply.id != nil {
			// One level deep only: the quoted message never carries its own quote.
			msg.ReplyTo = &chat.Message{
				ID:             *reply.id,
				ConversationID: msg.ConversationID,
				SenderID:       deref(reply.senderID),
				Content:        reply.content,
				Image:          reply.image,
				Encrypted:      reply.encrypted != nil && *reply.encrypted,
				Ciphertext:     reply.ciphertext,
				IV:             reply.iv,
				IsDeleted:      reply.isDeleted != nil && *reply.isDeleted,
			}
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (r *PgMessageRepository) MarkRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgMessageRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET read = true
		WHERE conversation_id = $1::uuid AND sender_id <> $2 AND read = false
	`, conversationID, readerID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgMessageRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessageRepository: nil pool")
	}
	// Payload columns are nulled permanently; the row stays as a tombstone.
	_, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET is_deleted = true, deleted_at = $2,
		    content = NULL, image = NULL, gif_url = NULL,
		    ciphertext = NULL, iv = NULL, session_key = NULL,
		    encrypted_image = NULL, image_iv = NULL, image_mime_type = NULL
		WHERE id = $1::uuid AND is_deleted = false
	`, id, at)
	return err
}

func (r *PgMessageRepository) Search(ctx context.Context, conversationIDs []string, query string, limit int) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	if len(conversationIDs) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM chat.message m
		WHERE m.conversation_id = ANY($1::uuid[])
		  AND m.is_deleted = false
		  AND m.content ILIKE '%' || $2 || '%'
		ORDER BY m.created_at DESC
		LIMIT $3
	`, conversationIDs, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *msg)
	}
	return msgs, rows.Err()
}

func (r *PgMessageRepository) CountUnread(ctx context.Context, conversationIDs []string, userID string) (map[string]int64, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	counts := make(map[string]int64, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return counts, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT conversation_id::text, COUNT(*)
		FROM chat.message
		WHERE conversation_id = ANY($1::uuid[])
		  AND sender_id <> $2 AND read = false AND is_deleted = false
		GROUP BY conversation_id
	`, conversationIDs, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			convID string
			n      int64
		)
		if err := rows.Scan(&convID, &n); err != nil {
			return nil, err
		}
		counts[convID] = n
	}
	return counts, rows.Err()
}

type replyScan struct {
	id         *string
	senderID   *string
	content    *string
	image      *string
	encrypted  *bool
	ciphertext *string
	iv         *string
	isDeleted  *bool
}

func scanMessage(row pgx.Row) (*chat.Message, error) {
	var msg chat.Message
	if err := row.Scan(
		&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Content, &msg.Image,
		&msg.GifURL, &msg.Encrypted, &msg.Ciphertext, &msg.IV, &msg.SessionKey,
		&msg.EncryptedImage, &msg.ImageIV, &msg.ImageMimeType, &msg.MessageType,
		&msg.ReplyToID, &msg.Read, &msg.IsDeleted, &msg.DeletedAt, &msg.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &msg, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
