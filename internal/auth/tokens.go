package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	UserID string
	Email  string
}

// TokenService issues and verifies PASETO v4.local session tokens.
type TokenService struct {
	key      paseto.V4SymmetricKey
	lifetime time.Duration
}

// NewTokenService creates a TokenService from a 32-byte symmetric key.
func NewTokenService(key []byte, lifetime time.Duration) (*TokenService, error) {
	symKey, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("loading token key: %w", err)
	}
	return &TokenService{key: symKey, lifetime: lifetime}, nil
}

// GenerateSessionToken issues a new session token for the given user.
func (s *TokenService) GenerateSessionToken(userID, email string) (string, error) {
	token := paseto.NewToken()
	now := time.Now()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.lifetime))
	token.SetString("user_id", userID)
	token.SetString("email", email)
	return token.V4Encrypt(s.key, nil), nil
}

// VerifySessionToken validates a session token and returns its claims.
// Expired, malformed, and tampered tokens all return ErrInvalidToken.
func (s *TokenService) VerifySessionToken(tokenStr string) (*SessionClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.key, tokenStr, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, err := token.GetString("user_id")
	if err != nil || userID == "" {
		return nil, ErrInvalidToken
	}
	email, err := token.GetString("email")
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &SessionClaims{UserID: userID, Email: email}, nil
}
