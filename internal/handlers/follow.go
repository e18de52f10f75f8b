package handlers

import (
	"errors"
	"net/http"

	"github.com/VitaminP8/yatube/internal/auth"
	"github.com/VitaminP8/yatube/internal/feed"
	"github.com/VitaminP8/yatube/internal/paginator"
	"github.com/VitaminP8/yatube/internal/storage"
	"github.com/go-chi/chi/v5"
)

// FollowIndex - лента постов авторов, на которых подписан пользователь.
func (h *Handler) FollowIndex(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		redirectToLogin(w, r)
		return
	}

	l, err := h.Feed.Build(r.Context(), feed.FollowedPosts(userID))
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	data := h.pageData(r, "Избранные авторы")
	data.Page = paginator.Paginate(l.Posts, h.PageSize, r.URL.Query().Get("page"))
	h.Renderer.Render(w, http.StatusOK, "follow", data)
}

func (h *Handler) ProfileFollow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		redirectToLogin(w, r)
		return
	}

	author, err := h.Users.GetUserByUsername(ctx, chi.URLParam(r, "username"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	// на себя подписаться нельзя: просто возвращаем в профиль
	if author.ID != userID {
		if _, err := h.Follows.Follow(ctx, author.ID); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	http.Redirect(w, r, profileURL(author.Username), http.StatusFound)
}

func (h *Handler) ProfileUnfollow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := auth.GetUserIDFromContext(ctx); err != nil {
		redirectToLogin(w, r)
		return
	}

	author, err := h.Users.GetUserByUsername(ctx, chi.URLParam(r, "username"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	err = h.Follows.Unfollow(ctx, author.ID)
	if err != nil && !errors.Is(err, storage.ErrFollowNotFound) {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, profileURL(author.Username), http.StatusFound)
}
