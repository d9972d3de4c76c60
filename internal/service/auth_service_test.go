package service

import (
	"dyslexiatutor/internal/model"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_IssueAndValidate(t *testing.T) {
	svc := NewAuthService("secret", time.Hour)

	token, sessionID, err := svc.IssueSessionToken()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sessionID, "s_"))

	claims, err := svc.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
}

func TestAuthService_DistinctSessions(t *testing.T) {
	svc := NewAuthService("secret", time.Hour)

	_, a, err := svc.IssueSessionToken()
	require.NoError(t, err)
	_, b, err := svc.IssueSessionToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestAuthService_Rejects(t *testing.T) {
	svc := NewAuthService("secret", time.Hour)
	token, _, err := svc.IssueSessionToken()
	require.NoError(t, err)

	otherKey, _, err := NewAuthService("other", time.Hour).IssueSessionToken()
	require.NoError(t, err)

	expired, _, err := NewAuthService("secret", -time.Minute).IssueSessionToken()
	require.NoError(t, err)

	noSID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":      "not-a-token",
		"tampered":     token + "x",
		"wrong secret": otherKey,
		"expired":      expired,
		"missing sid":  noSID,
		"empty":        "",
		"unsigned":     unsignedToken(t),
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateSessionToken(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestAuthService_RefreshKeepsIdentity(t *testing.T) {
	svc := NewAuthService("secret", time.Hour)

	token, err := svc.RefreshSessionToken("s_existing")
	require.NoError(t, err)

	claims, err := svc.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "s_existing", claims.SessionID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 2*time.Second)
}

func TestAuthService_NeedsRefresh(t *testing.T) {
	svc := NewAuthService("secret", time.Hour)
	expiringIn := func(d time.Duration) *model.SessionClaims {
		return &model.SessionClaims{
			SessionID:        "s_x",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(d))},
		}
	}

	assert.False(t, svc.NeedsRefresh(expiringIn(55*time.Minute)))
	assert.False(t, svc.NeedsRefresh(expiringIn(31*time.Minute)))
	assert.True(t, svc.NeedsRefresh(expiringIn(29*time.Minute)))
	assert.True(t, svc.NeedsRefresh(expiringIn(time.Minute)))
	assert.False(t, svc.NeedsRefresh(&model.SessionClaims{SessionID: "s_x"}))
}

func unsignedToken(t *testing.T) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sid": "s_forged"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return tok
}
