// Package handlers - HTTP-обработчики страниц блога.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/VitaminP8/yatube/internal/auth"
	"github.com/VitaminP8/yatube/internal/comment"
	"github.com/VitaminP8/yatube/internal/feed"
	"github.com/VitaminP8/yatube/internal/follow"
	"github.com/VitaminP8/yatube/internal/group"
	"github.com/VitaminP8/yatube/internal/pagecache"
	"github.com/VitaminP8/yatube/internal/post"
	"github.com/VitaminP8/yatube/internal/render"
	"github.com/VitaminP8/yatube/internal/storage"
	"github.com/VitaminP8/yatube/internal/user"
	"github.com/VitaminP8/yatube/models"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	log "github.com/sirupsen/logrus"
)

// Handler держит все зависимости обработчиков. Хранилища и кеш внедряются снаружи.
type Handler struct {
	Users    user.UserStorage
	Groups   group.GroupStorage
	Posts    post.PostStorage
	Comments comment.CommentStorage
	Follows  follow.FollowStorage

	Feed     *feed.Builder
	Cache    pagecache.Cache
	Renderer *render.Renderer
	Sessions sessions.Store

	PageSize    int
	CacheTTL    time.Duration
	TokenSecret string
	TokenTTL    time.Duration
}

// currentUser возвращает пользователя из контекста запроса или nil для анонима.
func (h *Handler) currentUser(ctx context.Context) *models.User {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil
	}
	u, err := h.Users.GetUserByID(ctx, userID)
	if err != nil {
		// токен пережил пользователя
		log.WithError(err).WithField("user_id", userID).Debug("current user lookup failed")
		return nil
	}
	return u
}

func (h *Handler) pageData(r *http.Request, title string) render.PageData {
	return render.PageData{
		Title:       title,
		CurrentUser: h.currentUser(r.Context()),
		Path:        r.URL.Path,
		CSRFToken:   auth.CSRFToken(r.Context()),
	}
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, http.StatusNotFound, "404", h.pageData(r, "Страница не найдена"))
}

// CSRFFailure - ответ на форму без верного CSRF-токена.
func (h *Handler) CSRFFailure(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, http.StatusForbidden, "403", h.pageData(r, "Доступ запрещен"))
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.WithError(err).WithFields(log.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("request failed")
	h.Renderer.Render(w, http.StatusInternalServerError, "500", render.PageData{Title: "Ошибка сервера"})
}

// fail отдает 404 для ненайденных объектов и 500 для остальных ошибок.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if storage.IsNotFound(err) {
		h.NotFound(w, r)
		return
	}
	h.serverError(w, r, err)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, auth.LoginURL(r.URL.RequestURI()), http.StatusFound)
}

func postURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10) + "/"
}

func profileURL(username string) string {
	return "/profile/" + username + "/"
}

// postFromURL читает {id} из пути и загружает пост.
func (h *Handler) postFromURL(r *http.Request) (*models.Post, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return nil, storage.ErrPostNotFound
	}
	return h.Posts.GetPostByID(r.Context(), uint(id))
}

func (h *Handler) invalidateCache(ctx context.Context) {
	if h.Cache == nil {
		return
	}
	pagecache.Invalidate(ctx, h.Cache)
}

func isForbidden(err error) bool {
	return errors.Is(err, storage.ErrForbidden)
}
