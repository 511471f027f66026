package usecase

import (
	"context"
	"errors"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"

	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/user/persistence/repository/port"
)

// GetPublicKeyUseCase returns another user's stored public key, or NotFound
// when the user has never published one.
type GetPublicKeyUseCase struct {
	Users repository.UserRepository
}

func (uc *GetPublicKeyUseCase) Execute(ctx context.Context, userID string) (string, error) {
	u, err := uc.Users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", apperrors.NotFound("public key not found")
	}
	if err != nil {
		return "", apperrors.Unavailable("could not load public key", err)
	}
	if u.PublicKey == nil || *u.PublicKey == "" {
		return "", apperrors.NotFound("public key not found")
	}
	return *u.PublicKey, nil
}
