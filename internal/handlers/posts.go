package handlers

import (
	"html/template"
	"net/http"

	"github.com/VitaminP8/yatube/internal/auth"
	"github.com/VitaminP8/yatube/internal/feed"
	"github.com/VitaminP8/yatube/internal/forms"
	"github.com/VitaminP8/yatube/internal/pagecache"
	"github.com/VitaminP8/yatube/internal/paginator"
	"github.com/VitaminP8/yatube/internal/post"
	"github.com/VitaminP8/yatube/internal/render"
	"github.com/VitaminP8/yatube/models"
	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

const indexCachePrefix = "index:"

// Index - главная страница. Список постов кешируется целиком по URI запроса,
// навигация рендерится для каждого пользователя заново.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	listing, err := pagecache.Fetch(ctx, h.Cache, indexCachePrefix+r.URL.RequestURI(), h.CacheTTL, func() ([]byte, error) {
		l, err := h.Feed.Build(ctx, feed.AllPosts())
		if err != nil {
			return nil, err
		}
		page := paginator.Paginate(l.Posts, h.PageSize, r.URL.Query().Get("page"))
		return h.Renderer.Fragment("posts_list", render.PageData{Page: page})
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	data := h.pageData(r, "Последние обновления на сайте")
	data.Listing = template.HTML(listing)
	h.Renderer.Render(w, http.StatusOK, "index", data)
}

func (h *Handler) GroupPosts(w http.ResponseWriter, r *http.Request) {
	l, err := h.Feed.Build(r.Context(), feed.GroupPosts(chi.URLParam(r, "slug")))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := h.pageData(r, "Записи сообщества "+l.Group.Title)
	data.Group = l.Group
	data.Page = paginator.Paginate(l.Posts, h.PageSize, r.URL.Query().Get("page"))
	h.Renderer.Render(w, http.StatusOK, "group_list", data)
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	l, err := h.Feed.Build(ctx, feed.AuthorPosts(chi.URLParam(r, "username")))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := h.pageData(r, "Профайл пользователя "+l.Author.Username)
	data.Author = l.Author
	data.Page = paginator.Paginate(l.Posts, h.PageSize, r.URL.Query().Get("page"))

	if data.CurrentUser != nil {
		data.Following, err = h.Follows.IsFollowing(ctx, data.CurrentUser.ID, l.Author.ID)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
	}
	if data.FollowersCount, err = h.Follows.CountFollowers(ctx, l.Author.ID); err != nil {
		h.serverError(w, r, err)
		return
	}
	if data.FollowingCount, err = h.Follows.CountFollowing(ctx, l.Author.ID); err != nil {
		h.serverError(w, r, err)
		return
	}

	h.Renderer.Render(w, http.StatusOK, "profile", data)
}

func (h *Handler) PostDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := h.postFromURL(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	comments, err := h.Comments.GetComments(ctx, p.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	authorPosts, err := h.Posts.ListPosts(ctx, post.Filter{AuthorIDs: []uint{p.AuthorID}})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	data := h.pageData(r, "Пост "+p.String())
	data.Post = p
	data.Comments = comments
	data.PostsCount = len(authorPosts)
	data.IsAuthor = auth.CheckOwner(ctx, p.AuthorID) == auth.Authorized
	h.Renderer.Render(w, http.StatusOK, "post_detail", data)
}

func (h *Handler) renderPostForm(w http.ResponseWriter, r *http.Request, form *forms.PostForm, p *models.Post) {
	groups, err := h.Groups.ListGroups(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	title := "Новый пост"
	if p != nil {
		title = "Редактировать пост"
	}
	data := h.pageData(r, title)
	data.PostForm = form
	data.Groups = groups
	data.IsEdit = p != nil
	data.Post = p
	h.Renderer.Render(w, http.StatusOK, "create_post", data)
}

func (h *Handler) PostCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == http.MethodGet {
		h.renderPostForm(w, r, forms.NewPostForm(nil), nil)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := forms.NewPostForm(r.PostForm)
	in, ok := form.Validate(ctx, h.Groups)
	if !ok {
		log.WithError(form.Errors.Err()).Debug("invalid post form")
		h.renderPostForm(w, r, form, nil)
		return
	}

	p, err := h.Posts.CreatePost(ctx, in)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.invalidateCache(ctx)

	log.WithFields(log.Fields{"post_id": p.ID, "author": p.Author.Username}).Info("post created")
	http.Redirect(w, r, profileURL(p.Author.Username), http.StatusFound)
}

// PostEdit доступен только автору; остальных молча возвращает на страницу поста.
func (h *Handler) PostEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := h.postFromURL(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	switch auth.CheckOwner(ctx, p.AuthorID) {
	case auth.Unauthenticated:
		redirectToLogin(w, r)
		return
	case auth.Forbidden:
		http.Redirect(w, r, postURL(p.ID), http.StatusFound)
		return
	}

	if r.Method == http.MethodGet {
		h.renderPostForm(w, r, forms.PostFormFrom(p), p)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := forms.NewPostForm(r.PostForm)
	in, ok := form.Validate(ctx, h.Groups)
	if !ok {
		log.WithError(form.Errors.Err()).WithField("post_id", p.ID).Debug("invalid post form")
		h.renderPostForm(w, r, form, p)
		return
	}

	_, err = h.Posts.UpdatePost(ctx, p.ID, in)
	if isForbidden(err) {
		http.Redirect(w, r, postURL(p.ID), http.StatusFound)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.invalidateCache(ctx)

	http.Redirect(w, r, postURL(p.ID), http.StatusFound)
}

func (h *Handler) PostDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := h.postFromURL(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	switch auth.CheckOwner(ctx, p.AuthorID) {
	case auth.Unauthenticated:
		redirectToLogin(w, r)
		return
	case auth.Forbidden:
		http.Redirect(w, r, postURL(p.ID), http.StatusFound)
		return
	}

	err = h.Posts.DeletePostByID(ctx, p.ID)
	if isForbidden(err) {
		http.Redirect(w, r, postURL(p.ID), http.StatusFound)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.invalidateCache(ctx)

	log.WithField("post_id", p.ID).Info("post deleted")
	http.Redirect(w, r, profileURL(p.Author.Username), http.StatusFound)
}

// BackToPost отвечает на GET к адресам, которые принимают только формы.
func (h *Handler) BackToPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.postFromURL(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, postURL(p.ID), http.StatusFound)
}

// AddComment молча отбрасывает пустые комментарии и возвращает на страницу поста.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := h.postFromURL(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := forms.NewCommentForm(r.PostForm)
	if !form.Validate() {
		log.WithError(form.Errors.Err()).WithField("post_id", p.ID).Debug("invalid comment dropped")
		http.Redirect(w, r, postURL(p.ID), http.StatusFound)
		return
	}

	if _, err := h.Comments.CreateComment(ctx, p.ID, form.Text); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, postURL(p.ID), http.StatusFound)
}
