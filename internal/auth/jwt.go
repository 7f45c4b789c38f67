package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims carried by both token types. TokenType prevents
// a refresh token being presented where an access token is expected.
type Claims struct {
	UserID    int64  `json:"uid"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 access/refresh token pairs.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewManager returns a Manager signing with the given secret.
func NewManager(secret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// NewAccessToken issues a short-lived access token for the user.
func (m *Manager) NewAccessToken(userID int64) (string, error) {
	return m.sign(userID, TokenTypeAccess, m.accessTTL, uuid.NewString())
}

// NewRefreshToken issues a refresh token and returns it together with its
// token ID (jti), which the caller is expected to persist for revocation.
func (m *Manager) NewRefreshToken(userID int64) (token, jti string, err error) {
	jti = uuid.NewString()
	token, err = m.sign(userID, TokenTypeRefresh, m.refreshTTL, jti)
	return token, jti, err
}

// Parse verifies the signature and expiry and checks the token type.
func (m *Manager) Parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) sign(userID int64, tokenType string, ttl time.Duration, jti string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}
