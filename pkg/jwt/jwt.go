// Package jwt issues and verifies the API's HS256 token pairs.
//
// # Two tokens
//
// Login and register return a pair:
//
//	access token    short lived (2h by default), sent on every API call
//	refresh token   long lived (7d by default), only accepted by /auth/refresh
//
// The "typ" claim tells them apart. ParseAccessToken rejects a refresh
// token, so a leaked refresh token cannot call the API directly.
//
// # Claims
//
//	{
//	  "user_id": "6f1c...",
//	  "email":   "ann@example.com",
//	  "name":    "Ann",
//	  "typ":     "access",
//	  "iss":     "bookreview",
//	  "sub":     "6f1c...",
//	  "iat":     1760000000,
//	  "nbf":     1760000000,
//	  "exp":     1760007200
//	}
//
// The refresh token carries user_id and typ only; RefreshAccessToken takes
// email and name from the caller, who reloads them from the user store.
//
// # Flow
//
//	client                          API
//	POST /auth/login  ------------> GenerateToken         -> {access, refresh}
//	GET /profile (Bearer access) -> ParseAccessToken
//	                  <------------ 40102 once expired
//	POST /auth/refresh (refresh) -> RefreshAccessToken    -> new access
//	POST /auth/logout ------------> blacklist access for RemainingTTL
//
// # Errors
//
// Parse failures map to the application error table: an expired token is
// ErrTokenExpired (40102), anything else malformed, wrongly signed or of
// the wrong type is ErrInvalidToken. Only HMAC signing methods are
// accepted; a token announcing "none" or RS256 is refused before the
// signature is checked.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/SuwethaV/bookreview/pkg/errors"
)

const issuer = "bookreview"

// Token types carried in the "typ" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Manager issues and verifies HS256 token pairs.
// Access tokens authenticate API calls; refresh tokens only mint new access tokens.
type Manager struct {
	secret             string
	accessTokenExpire  time.Duration
	refreshTokenExpire time.Duration
	now                func() time.Time
}

// NewManager creates a Manager.
func NewManager(secret string, accessTokenExpire, refreshTokenExpire time.Duration) *Manager {
	return &Manager{
		secret:             secret,
		accessTokenExpire:  accessTokenExpire,
		refreshTokenExpire: refreshTokenExpire,
		now:                time.Now,
	}
}

// Claims are the custom JWT claims.
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is returned on login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // access token lifetime in seconds
}

// AccessTokenExpire returns the configured access token lifetime.
func (m *Manager) AccessTokenExpire() time.Duration {
	return m.accessTokenExpire
}

// RefreshTokenExpire returns the configured refresh token lifetime.
func (m *Manager) RefreshTokenExpire() time.Duration {
	return m.refreshTokenExpire
}

// GenerateToken issues an access/refresh pair for the user.
func (m *Manager) GenerateToken(userID, email, name string) (*TokenPair, error) {
	access, err := m.sign(Claims{
		UserID:    userID,
		Email:     email,
		Name:      name,
		TokenType: TokenTypeAccess,
	}, m.accessTokenExpire)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to sign access token")
	}

	// the refresh token carries only the subject to keep it small
	refresh, err := m.sign(Claims{
		UserID:    userID,
		TokenType: TokenTypeRefresh,
	}, m.refreshTokenExpire)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to sign refresh token")
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTokenExpire.Seconds()),
	}, nil
}

// ParseToken verifies signature, algorithm and time claims.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	}, jwt.WithTimeFunc(m.now), jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, apperrors.ErrInvalidToken
}

// ParseAccessToken is ParseToken restricted to access tokens.
func (m *Manager) ParseAccessToken(tokenString string) (*Claims, error) {
	claims, err := m.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// RefreshAccessToken mints a new access token from a refresh token.
// email and name are reloaded by the caller since refresh tokens do not carry them.
func (m *Manager) RefreshAccessToken(refreshToken, email, name string) (string, *Claims, error) {
	claims, err := m.ParseToken(refreshToken)
	if err != nil {
		return "", nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return "", nil, apperrors.ErrInvalidToken
	}

	token, err := m.sign(Claims{
		UserID:    claims.UserID,
		Email:     email,
		Name:      name,
		TokenType: TokenTypeAccess,
	}, m.accessTokenExpire)
	if err != nil {
		return "", nil, apperrors.Wrap(err, "failed to refresh token")
	}
	return token, claims, nil
}

// RemainingTTL is how long the token stays valid; used to size blacklist entries.
func (m *Manager) RemainingTTL(claims *Claims) time.Duration {
	if claims == nil || claims.ExpiresAt == nil {
		return 0
	}
	ttl := claims.ExpiresAt.Time.Sub(m.now())
	if ttl < 0 {
		return 0
	}
	return ttl
}

func (m *Manager) sign(claims Claims, ttl time.Duration) (string, error) {
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   claims.UserID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.secret))
}
