package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	user "github.com/dihanio/LapakNesaBackend/internal/pkg/user/domain"
	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/user/persistence/repository/port"
)

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ repository.UserRepository = (*PgUserRepository)(nil)

func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	var u user.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, public_key, is_online, last_active
		FROM chat.app_user
		WHERE id = $1
	`, id).Scan(&u.ID, &u.PublicKey, &u.IsOnline, &u.LastActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PgUserRepository) SetPresence(ctx context.Context, id string, online bool, at time.Time) error {
	if r == nil || r.pool == nil {
		return errors.New("PgUserRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat.app_user (id, is_online, last_active)
		VALUES ($1, $2, $3)
		ON CONFLICT (id)
		DO UPDATE SET is_online = EXCLUDED.is_online, last_active = EXCLUDED.last_active
	`, id, online, at)
	return err
}

func (r *PgUserRepository) SetPublicKey(ctx context.Context, id string, publicKey string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgUserRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat.app_user (id, public_key)
		VALUES ($1, $2)
		ON CONFLICT (id)
		DO UPDATE SET public_key = EXCLUDED.public_key
	`, id, publicKey)
	return err
}
