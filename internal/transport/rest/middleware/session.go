package middleware

import (
	"context"
	"dyslexiatutor/internal/service"
	"log/slog"
	"net/http"
)

type contextKey string

const SessionIDKey contextKey = "sessionId"

// SessionCookieName holds the signed session token.
const SessionCookieName = "tutor_session"

// SessionMiddleware attaches a session identity to every request, issuing a
// new one when the cookie is missing, invalid or expired. A valid cookie past
// half its lifetime is re-issued for the same identity, so the identity slides
// with the session it points to.
type SessionMiddleware struct {
	authSvc *service.AuthService
	secure  bool
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(authSvc *service.AuthService, secure bool) *SessionMiddleware {
	return &SessionMiddleware{authSvc: authSvc, secure: secure}
}

// RequireSession resolves the session id from the cookie or issues a fresh one
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			if claims, err := m.authSvc.ValidateSessionToken(cookie.Value); err == nil {
				if m.authSvc.NeedsRefresh(claims) {
					if token, err := m.authSvc.RefreshSessionToken(claims.SessionID); err == nil {
						m.setCookie(w, token)
					} else {
						slog.Warn("refresh session token", "session", claims.SessionID, "error", err)
					}
				}
				ctx := context.WithValue(r.Context(), SessionIDKey, claims.SessionID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		token, sessionID, err := m.authSvc.IssueSessionToken()
		if err != nil {
			slog.Error("issue session token", "error", err)
			http.Error(w, `{"error":"could not create session"}`, http.StatusInternalServerError)
			return
		}
		m.setCookie(w, token)

		ctx := context.WithValue(r.Context(), SessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionMiddleware) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.authSvc.TokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetSessionID extracts session ID from context
func GetSessionID(ctx context.Context) string {
	if v := ctx.Value(SessionIDKey); v != nil {
		return v.(string)
	}
	return ""
}
