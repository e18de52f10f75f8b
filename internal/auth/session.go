package auth

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	SessionName = "yatube_session"
	tokenKey    = "token"
)

// NewSessionStore создает cookie-хранилище сессий, в котором лежит JWT.
func NewSessionStore(secret string, maxAge time.Duration, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func TokenFromSession(r *http.Request, store sessions.Store) string {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return ""
	}
	token, _ := session.Values[tokenKey].(string)
	return token
}

func SaveTokenToSession(w http.ResponseWriter, r *http.Request, store sessions.Store, token string) error {
	session, _ := store.Get(r, SessionName)
	session.Values[tokenKey] = token
	return session.Save(r, w)
}

func ClearSession(w http.ResponseWriter, r *http.Request, store sessions.Store) error {
	session, _ := store.Get(r, SessionName)
	delete(session.Values, tokenKey)
	if session.Options != nil {
		session.Options.MaxAge = -1
	}
	return session.Save(r, w)
}
