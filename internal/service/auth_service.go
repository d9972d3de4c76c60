package service

import (
	"dyslexiatutor/internal/model"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// AuthService issues and validates the tokens that identify a learner's session
type AuthService struct {
	jwtSecret []byte
	ttl       time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		jwtSecret: []byte(secret),
		ttl:       ttl,
	}
}

// TokenTTL is how long an issued session token stays valid
func (s *AuthService) TokenTTL() time.Duration {
	return s.ttl
}

// IssueSessionToken creates a fresh session identity and its signed token
func (s *AuthService) IssueSessionToken() (token, sessionID string, err error) {
	sessionID = "s_" + uuid.New().String()[:13]

	token, err = s.RefreshSessionToken(sessionID)
	if err != nil {
		return "", "", err
	}
	return token, sessionID, nil
}

// RefreshSessionToken signs a token for an existing session identity with a
// full lifetime from now.
func (s *AuthService) RefreshSessionToken(sessionID string) (string, error) {
	now := time.Now()
	claims := &model.SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// NeedsRefresh reports whether a valid token has used up half its lifetime.
// Refreshing then keeps the identity alive as long as the learner is active.
func (s *AuthService) NeedsRefresh(claims *model.SessionClaims) bool {
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) < s.ttl/2
}

// ValidateSessionToken validates a session JWT and returns claims
func (s *AuthService) ValidateSessionToken(tokenString string) (*model.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
