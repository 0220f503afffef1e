package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SuwethaV/bookreview/internal/infrastructure/persistence/redis"
	apperrors "github.com/SuwethaV/bookreview/pkg/errors"
	"github.com/SuwethaV/bookreview/pkg/jwt"
	"github.com/SuwethaV/bookreview/pkg/response"
)

// Context keys set by RequireAuth.
const (
	ContextUserID      = "user_id"
	ContextUserName    = "user_name"
	ContextEmail       = "email"
	ContextClaims      = "claims"
	ContextAccessToken = "access_token"
)

// AuthMiddleware gates mutating endpoints behind a bearer access token.
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RequireAuth rejects the request unless it carries a valid, unrevoked access token.
//
//	missing header        40100
//	not "Bearer <token>"  40101
//	bad signature / type  40101
//	expired or revoked    40102
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		// 2. scheme
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidToken, "malformed authorization header")
			c.Abort()
			return
		}
		tokenString := strings.TrimSpace(parts[1])

		// 3. signature, expiry, token type
		claims, err := m.jwtManager.ParseAccessToken(tokenString)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		// 4. logged out tokens
		revoked, err := m.sessionStore.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if revoked {
			response.Error(c, apperrors.ErrTokenRevoked)
			c.Abort()
			return
		}

		// 5. expose the caller to handlers
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserName, claims.Name)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextClaims, claims)
		c.Set(ContextAccessToken, tokenString)

		c.Next()
	}
}

// GetUserID returns the authenticated user's ID, or "" outside RequireAuth.
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// MustGetUserID panics when called on a route without RequireAuth.
func MustGetUserID(c *gin.Context) string {
	userID := GetUserID(c)
	if userID == "" {
		panic("user_id not found in context")
	}
	return userID
}

// GetClaims returns the verified token claims.
func GetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

// GetAccessToken returns the raw bearer token.
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ContextAccessToken)
}
