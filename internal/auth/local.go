package auth

import (
	"context"
	"errors"

	"github.com/AdrianDanlos/rythm/internal"
	"github.com/AdrianDanlos/rythm/internal/storage"
)

// LocalAuthProvider accepts the opaque tokens stored with each user.
type LocalAuthProvider struct {
	users  storage.UserRepository
	logger internal.Logger
}

func NewLocalAuthProvider(users storage.UserRepository, logger internal.Logger) *LocalAuthProvider {
	return &LocalAuthProvider{users: users, logger: logger}
}

func (a *LocalAuthProvider) ValidateToken(ctx context.Context, token string) (*internal.User, error) {
	user, err := a.users.GetUserByToken(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		a.logger.Debugf("unknown local token")
		return nil, ErrInvalidToken
	}
	if err != nil {
		a.logger.Errorf("token lookup failed: %v", err)
		return nil, err
	}
	return user, nil
}

var _ Provider = (*LocalAuthProvider)(nil)
