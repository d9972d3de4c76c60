package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims carried in the learner's session cookie
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}
