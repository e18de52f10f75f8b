package render

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/VitaminP8/yatube/internal/forms"
	"github.com/VitaminP8/yatube/internal/paginator"
	"github.com/VitaminP8/yatube/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPosts(n int) []*models.Post {
	group := &models.Group{ID: 1, Title: "Тестовая группа", Slug: "test_slug"}
	posts := make([]*models.Post, 0, n)
	for i := n; i > 0; i-- {
		gid := group.ID
		posts = append(posts, &models.Post{
			ID:        uint(i),
			Text:      "Тестовый текст",
			CreatedAt: time.Date(2024, 1, 1, 0, i, 0, 0, time.UTC),
			AuthorID:  1,
			Author:    models.User{ID: 1, Username: "auth"},
			GroupID:   &gid,
			Group:     group,
		})
	}
	return posts
}

func TestNew_ParsesAllPages(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	for _, name := range []string{
		"index", "group_list", "profile", "follow", "post_detail", "create_post",
		"login", "signup", "logged_out", "about_author", "about_tech", "404", "500", "403",
	} {
		assert.True(t, r.has(name), name)
	}
	assert.False(t, r.has("missing"))
}

func TestRenderer_Fragment(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	page := paginator.Paginate(testPosts(15), 10, "2")
	body, err := r.Fragment("posts_list", PageData{Page: page})
	require.NoError(t, err)

	html := string(body)
	assert.Equal(t, 5, strings.Count(html, `class="post"`))
	assert.Contains(t, html, `href="/group/test_slug/"`)
	assert.Contains(t, html, `?page=1`)
	assert.NotContains(t, html, "Следующая")
}

func TestRenderer_Render(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	user := &models.User{ID: 2, Username: "reader"}
	posts := testPosts(1)

	pages := map[string]PageData{
		"index":      {Listing: "<p>listing</p>"},
		"group_list": {Group: posts[0].Group, Page: paginator.Paginate(posts, 10, "")},
		"profile": {
			CurrentUser: user,
			Author:      &posts[0].Author,
			Page:        paginator.Paginate(posts, 10, ""),
			Following:   true,
		},
		"post_detail": {
			CurrentUser: user,
			Post:        posts[0],
			Comments:    []*models.Comment{{ID: 1, Text: "comment", Author: *user}},
			PostsCount:  1,
		},
		"create_post": {
			CurrentUser: user,
			PostForm:    forms.NewPostForm(url.Values{"text": {"draft"}, "group": {"1"}}),
			Groups:      []*models.Group{posts[0].Group},
		},
		"login":  {LoginForm: forms.NewLoginForm(url.Values{"next": {"/create/"}})},
		"signup": {SignupForm: forms.NewSignupForm(url.Values{})},
		"404":    {Path: "/noexisturl/"},
	}

	for name, data := range pages {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.Render(w, http.StatusOK, name, data)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, w.Body.String(), "<!DOCTYPE html>")
		})
	}

	t.Run("profile unfollow button", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.Render(w, http.StatusOK, "profile", pages["profile"])
		assert.Contains(t, w.Body.String(), "/profile/auth/unfollow/")
	})

	t.Run("selected group kept", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.Render(w, http.StatusOK, "create_post", pages["create_post"])
		assert.Contains(t, w.Body.String(), "selected")
		assert.Contains(t, w.Body.String(), "draft")
	})

	t.Run("unknown template", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.Render(w, http.StatusOK, "missing", PageData{})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
