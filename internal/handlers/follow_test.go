package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowFlow(t *testing.T) {
	app := setupApp(t)
	reader := app.createUser(t, "reader")
	author := app.createUser(t, "auth")
	app.createPost(t, author, "followed post", nil)
	ctx := context.Background()

	followers := func() int {
		n, err := app.follows.CountFollowers(ctx, author.ID)
		require.NoError(t, err)
		return n
	}

	t.Run("Empty feed", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/follow/", nil, reader)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, countPosts(w.Body.String()))
	})

	t.Run("Anonymous", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/follow/", nil, nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/auth/login/?next=%2Ffollow%2F", w.Header().Get("Location"))

		w = app.do(t, http.MethodGet, "/profile/auth/follow/", nil, nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, 0, followers())
	})

	t.Run("Follow", func(t *testing.T) {
		before := followers()

		w := app.do(t, http.MethodGet, "/profile/auth/follow/", nil, reader)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/profile/auth/", w.Header().Get("Location"))
		assert.Equal(t, before+1, followers())

		// повторная подписка не создает вторую связь
		app.do(t, http.MethodGet, "/profile/auth/follow/", nil, reader)
		assert.Equal(t, before+1, followers())

		w = app.do(t, http.MethodGet, "/follow/", nil, reader)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "followed post")

		// автор не видит свой пост в избранном
		w = app.do(t, http.MethodGet, "/follow/", nil, author)
		assert.Equal(t, 0, countPosts(w.Body.String()))

		w = app.do(t, http.MethodGet, "/profile/auth/", nil, reader)
		assert.Contains(t, w.Body.String(), "/profile/auth/unfollow/")
	})

	t.Run("Unfollow restores count", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/profile/auth/unfollow/", nil, reader)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, 0, followers())

		// повторная отписка - не ошибка
		w = app.do(t, http.MethodGet, "/profile/auth/unfollow/", nil, reader)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/profile/auth/", w.Header().Get("Location"))
	})

	t.Run("Self follow is ignored", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/profile/reader/follow/", nil, reader)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/profile/reader/", w.Header().Get("Location"))

		n, err := app.follows.CountFollowing(ctx, reader.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("Unknown author", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/profile/nobody/follow/", nil, reader)
		assert.Equal(t, http.StatusNotFound, w.Code)
		w = app.do(t, http.MethodGet, "/profile/nobody/unfollow/", nil, reader)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
