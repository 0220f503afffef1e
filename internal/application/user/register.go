package user

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/SuwethaV/bookreview/internal/domain/user"
	"github.com/SuwethaV/bookreview/internal/infrastructure/persistence/redis"
	"github.com/SuwethaV/bookreview/pkg/jwt"
)

// RegisterUseCase creates an account and signs the new user in.
type RegisterUseCase struct {
	userService user.Service
	issuer      sessionIssuer
}

func NewRegisterUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		issuer:      sessionIssuer{jwtManager: jwtManager, sessionStore: sessionStore},
	}
}

type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	// 1. validation, hashing and uniqueness are domain rules
	u, err := uc.userService.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	logrus.WithField("user_id", u.ID).Info("user registered")

	// 2. signup lands the user on the home page already logged in
	return uc.issuer.issue(ctx, u)
}
