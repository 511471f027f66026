package usecase

import (
	"context"
	"strings"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"

	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/user/persistence/repository/port"
)

// StorePublicKeyUseCase saves the caller's encryption public key. The server
// treats the key as opaque text; clients exchange keys through the lookup
// endpoint before sending encrypted messages.
type StorePublicKeyUseCase struct {
	Users repository.UserRepository
}

func (uc *StorePublicKeyUseCase) Execute(ctx context.Context, userID, publicKey string) error {
	publicKey = strings.TrimSpace(publicKey)
	if publicKey == "" {
		return apperrors.InvalidPayload("publicKey is required")
	}
	if err := uc.Users.SetPublicKey(ctx, userID, publicKey); err != nil {
		return apperrors.Unavailable("could not store public key", err)
	}
	return nil
}
