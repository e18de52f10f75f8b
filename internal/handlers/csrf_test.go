package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/VitaminP8/yatube/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionLogin входит через форму и возвращает cookie сессии.
func sessionLogin(t *testing.T, app *testApp, username string) []*http.Cookie {
	t.Helper()
	form := url.Values{"username": {username}, "password": {"password123"}}
	w := postForm(t, app, "/auth/login/", form, nil)
	require.Equal(t, http.StatusFound, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func rawPost(app *testApp, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func TestCSRF_CookieSessionForms(t *testing.T) {
	app := setupApp(t)
	author := app.createUser(t, "auth")
	p := app.createPost(t, author, "text", nil)
	cookies := sessionLogin(t, app, "auth")

	t.Run("Forms carry the token", func(t *testing.T) {
		for _, path := range []string{"/create/", postPath(p.ID, "")} {
			w := getWithCookies(app.router, path, cookies)
			require.Equal(t, http.StatusOK, w.Code, path)
			assert.Regexp(t, csrfInput, w.Body.String(), path)
		}
	})

	t.Run("Missing token is rejected", func(t *testing.T) {
		targets := map[string]url.Values{
			"/create/":                 {"text": {"forged"}},
			postPath(p.ID, "edit/"):    {"text": {"forged"}},
			postPath(p.ID, "comment/"): {"text": {"forged"}},
			postPath(p.ID, "delete/"):  {},
		}
		for target, form := range targets {
			w := rawPost(app, target, form, cookies)
			assert.Equal(t, http.StatusForbidden, w.Code, target)
			assert.Contains(t, w.Body.String(), "Custom 403", target)
		}

		assert.Equal(t, 1, app.postCount(t))
		assert.Equal(t, 0, app.commentCount(t))
		stored, err := app.posts.GetPostByID(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, "text", stored.Text)
	})

	t.Run("Token from another session is rejected", func(t *testing.T) {
		foreign, _ := app.csrf(t, nil)
		form := url.Values{"text": {"forged"}, auth.CSRFFieldName: {foreign}}

		w := rawPost(app, "/create/", form, cookies)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, 1, app.postCount(t))
	})

	t.Run("Valid token is accepted", func(t *testing.T) {
		w := postForm(t, app, "/create/", url.Values{"text": {"через форму"}}, cookies)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, 2, app.postCount(t))
	})

	t.Run("Header token is accepted", func(t *testing.T) {
		token, _ := app.csrf(t, cookies)
		req := httptest.NewRequest(http.MethodPost, postPath(p.ID, "comment/"), strings.NewReader(url.Values{"text": {"ajax"}}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set(auth.CSRFHeaderName, token)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, 1, app.commentCount(t))
	})
}

func TestCSRF_AnonymousForms(t *testing.T) {
	app := setupApp(t)

	form := url.Values{
		"username":  {"leo"},
		"email":     {"leo@example.com"},
		"password1": {"password123"},
		"password2": {"password123"},
	}
	w := rawPost(app, "/auth/signup/", form, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	_, err := app.users.GetUserByUsername(context.Background(), "leo")
	assert.Error(t, err)

	app.createUser(t, "reader")
	w = rawPost(app, "/auth/login/", url.Values{"username": {"reader"}, "password": {"password123"}}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Custom 403")
}
