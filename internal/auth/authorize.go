package auth

import (
	"context"
	"net/http"
	"net/url"
)

// Decision - результат проверки прав. Куда перенаправлять, решает вызывающий код.
type Decision int

const (
	Authorized Decision = iota
	Unauthenticated
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Authorized:
		return "authorized"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

const LoginPath = "/auth/login/"

func CheckAuthenticated(ctx context.Context) Decision {
	if _, err := GetUserIDFromContext(ctx); err != nil {
		return Unauthenticated
	}
	return Authorized
}

// CheckOwner разрешает действие только владельцу ресурса.
func CheckOwner(ctx context.Context, ownerID uint) Decision {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return Unauthenticated
	}
	if userID != ownerID {
		return Forbidden
	}
	return Authorized
}

// LoginURL возвращает адрес страницы входа с параметром next.
func LoginURL(next string) string {
	if next == "" {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// RequireLogin перенаправляет анонимных пользователей на страницу входа.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CheckAuthenticated(r.Context()) != Authorized {
			http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
