package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRF(t *testing.T) {
	store := NewSessionStore("session-secret-session-secret-32", time.Hour, false)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(CSRFToken(r.Context())))
	})
	forbidden := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	handler := CSRF(store, forbidden)(ok)

	// первый GET выдает токен и cookie сессии
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Body.String()
	require.NotEmpty(t, token)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	post := func(form url.Values, header string, withCookies bool) int {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		if withCookies {
			for _, c := range cookies {
				req.AddCookie(c)
			}
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("Same token on next GET", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, token, rec.Body.String())
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("Matching form token", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, post(url.Values{CSRFFieldName: {token}}, "", true))
	})

	t.Run("Missing or wrong token", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, post(url.Values{}, "", true))
		assert.Equal(t, http.StatusForbidden, post(url.Values{CSRFFieldName: {"wrong"}}, "", true))
	})

	t.Run("Token without its session", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, post(url.Values{CSRFFieldName: {token}}, "", false))
	})

	t.Run("Bearer requests skip the check", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, post(url.Values{}, "Bearer some.jwt.token", false))
	})
}
