package repository

import (
	"context"
	"errors"
	"time"

	user "github.com/dihanio/LapakNesaBackend/internal/pkg/user/domain"
)

var ErrNotFound = errors.New("repository: user not found")

// UserRepository maintains the durable shadow of presence and the opaque
// public key for each user. Rows are created lazily on first write.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*user.User, error)

	// SetPresence records the online flag and last-active timestamp written on
	// connect/disconnect so REST reads can approximate presence.
	SetPresence(ctx context.Context, id string, online bool, at time.Time) error

	// SetPublicKey stores the caller's key material verbatim.
	SetPublicKey(ctx context.Context, id string, publicKey string) error
}
