package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	"github.com/gorilla/sessions"
	log "github.com/sirupsen/logrus"
)

const (
	// CSRFFieldName - скрытое поле формы с токеном.
	CSRFFieldName = "csrfmiddlewaretoken"
	// CSRFHeaderName - заголовок для запросов не из HTML-форм.
	CSRFHeaderName = "X-CSRF-Token"

	csrfKey     = "csrf"
	csrfTokenID = contextKey("csrfToken")
)

func generateCSRFToken() (string, error) {
	csrfToken := make([]byte, 32)
	if _, err := rand.Read(csrfToken); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(csrfToken), nil
}

// CSRFToken возвращает токен текущего запроса для вставки в форму.
func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfTokenID).(string)
	return token
}

// CSRF хранит токен в cookie-сессии и сверяет его с токеном из формы
// или заголовка на всех небезопасных методах. Запросы с Bearer-токеном
// cookie не используют, поэтому не проверяются.
// При несовпадении вызывается onFailure.
func CSRF(store sessions.Store, onFailure http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, SessionName)
			if err != nil {
				// битая или чужая cookie: store вернул новую пустую сессию
				log.WithError(err).Debug("session decode failed")
			}

			token, _ := session.Values[csrfKey].(string)
			if token == "" {
				token, err = generateCSRFToken()
				if err != nil {
					log.WithError(err).Error("failed to generate CSRF token")
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				session.Values[csrfKey] = token
				if err := session.Save(r, w); err != nil {
					log.WithError(err).Warn("failed to save CSRF token")
				}
			}

			bearer := extractTokenFromHeader(r.Header.Get("Authorization")) != ""
			if !bearer && !isSafeMethod(r.Method) && !sameToken(token, submittedCSRFToken(r)) {
				log.WithFields(log.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				}).Warn("CSRF verification failed")
				onFailure.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfTokenID, token)))
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfTokenID, token)))
		})
	}
}

func submittedCSRFToken(r *http.Request) string {
	if token := r.Header.Get(CSRFHeaderName); token != "" {
		return token
	}
	return r.PostFormValue(CSRFFieldName)
}

func sameToken(expected, got string) bool {
	if got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
