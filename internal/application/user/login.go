package user

import (
	"context"

	"github.com/SuwethaV/bookreview/internal/domain/user"
	"github.com/SuwethaV/bookreview/internal/infrastructure/persistence/redis"
	"github.com/SuwethaV/bookreview/pkg/jwt"
)

// LoginUseCase checks credentials and issues a token pair.
type LoginUseCase struct {
	userService user.Service
	issuer      sessionIssuer
}

func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *LoginUseCase {
	return &LoginUseCase{
		userService: userService,
		issuer:      sessionIssuer{jwtManager: jwtManager, sessionStore: sessionStore},
	}
}

type LoginRequest struct {
	Email    string
	Password string
}

func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return uc.issuer.issue(ctx, u)
}

// LogoutUseCase ends the session and revokes the access token.
type LogoutUseCase struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

func NewLogoutUseCase(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// Execute takes the claims the auth middleware already verified.
func (uc *LogoutUseCase) Execute(ctx context.Context, claims *jwt.Claims, accessToken string) error {
	// 1. drop the session
	if err := uc.sessionStore.DeleteSession(ctx, claims.UserID); err != nil {
		return err
	}

	// 2. revoke the token for whatever lifetime it has left
	return uc.sessionStore.AddToBlacklist(ctx, accessToken, uc.jwtManager.RemainingTTL(claims))
}

// RefreshTokenUseCase trades a refresh token for a new access token.
type RefreshTokenUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

func NewRefreshTokenUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (uc *RefreshTokenUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshTokenResponse, error) {
	// 1. signature, expiry and token type
	claims, err := uc.jwtManager.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}

	// 2. a logged-out user has no session to refresh
	if _, err := uc.sessionStore.GetSession(ctx, claims.UserID); err != nil {
		return nil, err
	}

	// 3. pick up profile changes made since login
	u, err := uc.userService.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, _, err := uc.jwtManager.RefreshAccessToken(refreshToken, u.Email, u.Name)
	if err != nil {
		return nil, err
	}

	return &RefreshTokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(uc.jwtManager.AccessTokenExpire().Seconds()),
	}, nil
}
