package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/AdrianDanlos/rythm/internal"
)

const DefaultTokenTTL = 30 * 24 * time.Hour

type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTProvider issues and validates HS256 tokens carrying the user id.
type JWTProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger internal.Logger
}

func NewJWTProvider(secret string, ttl time.Duration, logger internal.Logger) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), ttl: ttl, now: time.Now, logger: logger}
}

func (p *JWTProvider) IssueToken(user *internal.User) (string, error) {
	if user.ID == "" {
		return "", errors.New("auth: user id is required")
	}
	now := p.now()
	claims := &Claims{
		UserID: user.ID,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

func (p *JWTProvider) ValidateToken(ctx context.Context, token string) (*internal.User, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		p.logger.Debugf("jwt rejected: %v", err)
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &internal.User{ID: claims.UserID, Token: token, Name: claims.Name}, nil
}

var _ Provider = (*JWTProvider)(nil)
