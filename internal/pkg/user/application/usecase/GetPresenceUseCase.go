package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"

	cport "github.com/dihanio/LapakNesaBackend/internal/infrastructure/cache/port"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/presence"
	repository "github.com/dihanio/LapakNesaBackend/internal/pkg/user/persistence/repository/port"
)

// PresenceView is the REST projection of a user's presence.
type PresenceView struct {
	UserID     string     `json:"userId"`
	IsOnline   bool       `json:"isOnline"`
	LastActive *time.Time `json:"lastActive,omitempty"`
}

// GetPresenceUseCase answers "is this user online" from the cache mirror when
// possible and falls back to the durable shadow in the database. Rows are
// created lazily on first connect, so an absent row means the user has simply
// never been seen, not that the lookup failed.
type GetPresenceUseCase struct {
	Users repository.UserRepository
	Cache cport.Cache
}

func (uc *GetPresenceUseCase) Execute(ctx context.Context, userID string) (PresenceView, error) {
	if userID == "" {
		return PresenceView{}, apperrors.InvalidPayload("user id is required")
	}

	if uc.Cache != nil {
		_, err := uc.Cache.Get(ctx, presence.MirrorKey(userID))
		if err == nil {
			return PresenceView{UserID: userID, IsOnline: true}, nil
		}
		if !errors.Is(err, cport.ErrMiss) {
			slog.Warn("presence mirror read failed", "userId", userID, "error", err)
		}
		// A miss is ambiguous: the user may be offline or connected before
		// the mirror existed, so the durable shadow decides.
	}

	u, err := uc.Users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return PresenceView{UserID: userID}, nil
	}
	if err != nil {
		return PresenceView{}, apperrors.Unavailable("could not load presence", err)
	}
	return PresenceView{UserID: userID, IsOnline: u.IsOnline, LastActive: u.LastActive}, nil
}
