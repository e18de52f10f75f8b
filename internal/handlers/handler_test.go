package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/VitaminP8/yatube/internal/auth"
	"github.com/VitaminP8/yatube/internal/feed"
	"github.com/VitaminP8/yatube/internal/pagecache"
	"github.com/VitaminP8/yatube/internal/post"
	"github.com/VitaminP8/yatube/internal/render"
	"github.com/VitaminP8/yatube/internal/storage/memory"
	"github.com/VitaminP8/yatube/models"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret_key_for_jwt"

type testApp struct {
	h        *Handler
	router   http.Handler
	users    *memory.UserMemoryStorage
	groups   *memory.GroupMemoryStorage
	posts    *memory.PostMemoryStorage
	comments *memory.CommentMemoryStorage
	follows  *memory.FollowMemoryStorage
	cache    *pagecache.MemoryCache
}

func setupApp(t *testing.T) *testApp {
	t.Helper()

	users := memory.NewUserMemoryStorage()
	groups := memory.NewGroupMemoryStorage()
	posts := memory.NewPostMemoryStorage(users, groups)
	comments := memory.NewCommentMemoryStorage(posts, users)
	follows := memory.NewFollowMemoryStorage(users)

	cache, err := pagecache.NewMemoryCache(64)
	require.NoError(t, err)
	renderer, err := render.New()
	require.NoError(t, err)
	sessionStore := auth.NewSessionStore("test_session_secret", time.Hour, false)

	h := &Handler{
		Users:       users,
		Groups:      groups,
		Posts:       posts,
		Comments:    comments,
		Follows:     follows,
		Feed:        feed.NewBuilder(posts, groups, users, follows),
		Cache:       cache,
		Renderer:    renderer,
		Sessions:    sessionStore,
		PageSize:    10,
		CacheTTL:    20 * time.Second,
		TokenSecret: testSecret,
		TokenTTL:    time.Hour,
	}

	return &testApp{
		h:        h,
		router:   NewRouter(h, auth.NewMiddleware(testSecret, sessionStore), nil),
		users:    users,
		groups:   groups,
		posts:    posts,
		comments: comments,
		follows:  follows,
		cache:    cache,
	}
}

func (a *testApp) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := a.users.RegisterUser(context.Background(), username, username+"@example.com", "password123")
	require.NoError(t, err)
	return u
}

func (a *testApp) createGroup(t *testing.T, slug string) *models.Group {
	t.Helper()
	g, err := a.groups.CreateGroup(context.Background(), "Тестовая группа", slug, "Тестовое описание")
	require.NoError(t, err)
	return g
}

func (a *testApp) createPost(t *testing.T, author *models.User, text string, groupID *uint) *models.Post {
	t.Helper()
	p, err := a.posts.CreatePost(auth.WithUserID(context.Background(), author.ID), post.Input{Text: text, GroupID: groupID})
	require.NoError(t, err)
	return p
}

func (a *testApp) postCount(t *testing.T) int {
	t.Helper()
	n, err := a.posts.CountPosts(context.Background())
	require.NoError(t, err)
	return n
}

func (a *testApp) commentCount(t *testing.T) int {
	t.Helper()
	n, err := a.comments.CountComments(context.Background())
	require.NoError(t, err)
	return n
}

var csrfInput = regexp.MustCompile(`name="` + auth.CSRFFieldName + `" value="([^"]+)"`)

// csrf открывает страницу входа с переданными cookie и возвращает токен формы
// вместе с cookie, в которой он сохранен.
func (a *testApp) csrf(t *testing.T, cookies []*http.Cookie) (string, []*http.Cookie) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/auth/login/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	m := csrfInput.FindStringSubmatch(w.Body.String())
	require.Len(t, m, 2, "login page has no CSRF field")
	if issued := w.Result().Cookies(); len(issued) > 0 {
		cookies = issued
	}
	return m[1], cookies
}

// do выполняет запрос; если as != nil, запрос авторизован Bearer-токеном этого пользователя.
// Анонимные формы отправляются с CSRF-токеном, как из браузера.
func (a *testApp) do(t *testing.T, method, target string, form url.Values, as *models.User) *httptest.ResponseRecorder {
	t.Helper()

	var cookies []*http.Cookie
	if as == nil && method != http.MethodGet && method != http.MethodHead {
		var token string
		token, cookies = a.csrf(t, nil)
		withToken := url.Values{}
		for k, v := range form {
			withToken[k] = v
		}
		withToken.Set(auth.CSRFFieldName, token)
		form = withToken
	}

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	if as != nil {
		token, err := auth.IssueToken(testSecret, as, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func postPath(id uint, suffix string) string {
	return fmt.Sprintf("/posts/%d/%s", id, suffix)
}

func countPosts(body string) int {
	return strings.Count(body, `class="post"`)
}
