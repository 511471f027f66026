package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	user "github.com/dihanio/LapakNesaBackend/internal/pkg/user/domain"
	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/user/persistence/repository/port"
	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"
)

type memUserRepo struct {
	users map[string]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*user.User)}
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) SetPresence(_ context.Context, id string, online bool, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		u = &user.User{ID: id}
		r.users[id] = u
	}
	u.IsOnline = online
	u.LastActive = &at
	return nil
}

func (r *memUserRepo) SetPublicKey(_ context.Context, id string, publicKey string) error {
	u, ok := r.users[id]
	if !ok {
		u = &user.User{ID: id}
		r.users[id] = u
	}
	u.PublicKey = &publicKey
	return nil
}

func TestStoreAndGetPublicKey(t *testing.T) {
	repo := newMemUserRepo()
	store := &StorePublicKeyUseCase{Users: repo}
	get := &GetPublicKeyUseCase{Users: repo}

	require.NoError(t, store.Execute(context.Background(), "zoe", "  base64-key  "))

	key, err := get.Execute(context.Background(), "zoe")
	require.NoError(t, err)
	assert.Equal(t, "base64-key", key)
}

func TestStorePublicKeyRejectsEmpty(t *testing.T) {
	store := &StorePublicKeyUseCase{Users: newMemUserRepo()}

	err := store.Execute(context.Background(), "zoe", "   ")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidPayload))
}

func TestGetPublicKeyNotFound(t *testing.T) {
	repo := newMemUserRepo()
	get := &GetPublicKeyUseCase{Users: repo}

	_, err := get.Execute(context.Background(), "nobody")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	// a user row without a key is still "no key"
	require.NoError(t, repo.SetPresence(context.Background(), "zoe", true, time.Now()))
	_, err = get.Execute(context.Background(), "zoe")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}
