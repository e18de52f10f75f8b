// internal/auth/context.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const userIDKey = contextKey("userID")

// Сохраняет userID в контексте
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Достает userID из контекста
func GetUserIDFromContext(ctx context.Context) (uint, error) {
	val := ctx.Value(userIDKey)
	id, ok := val.(uint)
	if !ok {
		return 0, errors.New("user ID not found in context")
	}
	return id, nil
}

// Middleware извлекает JWT из заголовка Authorization или из cookie-сессии
// и кладет userID в context.
type Middleware struct {
	secret   string
	sessions sessions.Store
}

func NewMiddleware(secret string, store sessions.Store) *Middleware {
	return &Middleware{secret: secret, sessions: store}
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractTokenFromHeader(r.Header.Get("Authorization"))
		if tokenStr == "" && m.sessions != nil {
			tokenStr = TokenFromSession(r, m.sessions)
		}
		if tokenStr == "" {
			next.ServeHTTP(w, r) // неавторизованный доступ - пропускаем
			return
		}

		if m.secret == "" {
			http.Error(w, "JWT secret not set", http.StatusInternalServerError)
			return
		}

		userID, err := ParseToken(m.secret, tokenStr)
		if err != nil {
			log.WithError(err).Debug("rejected auth token")
			next.ServeHTTP(w, r) // если невалидный токен - пропускаем
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func extractTokenFromHeader(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
