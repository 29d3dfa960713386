package auth

import (
	"context"
	"errors"

	"github.com/AdrianDanlos/rythm/internal"
	"github.com/AdrianDanlos/rythm/internal/config"
	"github.com/AdrianDanlos/rythm/internal/storage"
)

var ErrInvalidToken = errors.New("invalid token")

type Provider interface {
	ValidateToken(ctx context.Context, token string) (*internal.User, error)
}

// ChainProvider accepts a token if any of its providers does, trying them
// in order.
type ChainProvider []Provider

func (c ChainProvider) ValidateToken(ctx context.Context, token string) (*internal.User, error) {
	for _, p := range c {
		user, err := p.ValidateToken(ctx, token)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, ErrInvalidToken) {
			return nil, err
		}
	}
	return nil, ErrInvalidToken
}

// NewProvider picks token validation for the environment: development
// also accepts static tokens from the user store, other environments
// only signed JWTs.
func NewProvider(cfg *config.Config, users storage.UserRepository, logger internal.Logger) Provider {
	var chain ChainProvider
	if cfg.Env == "development" {
		chain = append(chain, NewLocalAuthProvider(users, logger))
	}
	if cfg.JWTSecret != "" {
		chain = append(chain, NewJWTProvider(cfg.JWTSecret, DefaultTokenTTL, logger))
	}
	return chain
}
