package user

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SuwethaV/bookreview/internal/domain/user"
	"github.com/SuwethaV/bookreview/internal/infrastructure/persistence/redis"
	"github.com/SuwethaV/bookreview/pkg/jwt"
)

// sessionIssuer signs a token pair and records the login in Redis.
type sessionIssuer struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

func (s sessionIssuer) issue(ctx context.Context, u *user.User) (*AuthResponse, error) {
	// 1. token pair
	pair, err := s.jwtManager.GenerateToken(u.ID, u.Email, u.Name)
	if err != nil {
		return nil, err
	}

	// 2. session lives as long as the refresh token
	data := map[string]interface{}{
		"user_id":  u.ID,
		"email":    u.Email,
		"name":     u.Name,
		"login_at": time.Now().Unix(),
	}
	if err := s.sessionStore.SaveSession(ctx, u.ID, data, s.jwtManager.RefreshTokenExpire()); err != nil {
		// tokens are still valid without a session record
		logrus.WithError(err).WithField("user_id", u.ID).Warn("failed to save session")
	}

	return &AuthResponse{
		User:         NewUserInfo(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}
