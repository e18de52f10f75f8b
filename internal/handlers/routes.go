package handlers

import (
	"net/http"

	"github.com/VitaminP8/yatube/internal/auth"
	"github.com/VitaminP8/yatube/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter собирает маршруты. limiter может быть nil (без ограничения запросов).
func NewRouter(h *Handler, authMiddleware *auth.Middleware, limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	if limiter != nil {
		r.Use(limiter.Middleware)
	}
	r.Use(authMiddleware.Handler)
	r.Use(auth.CSRF(h.Sessions, http.HandlerFunc(h.CSRFFailure)))

	r.NotFound(h.NotFound)

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", h.Index)
	r.Get("/group/{slug}/", h.GroupPosts)
	r.Get("/profile/{username}/", h.Profile)
	r.Get("/posts/{id}/", h.PostDetail)

	r.Get("/about/author/", h.AboutAuthor)
	r.Get("/about/tech/", h.AboutTech)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/signup/", h.Signup)
		r.Post("/signup/", h.Signup)
		r.Get("/login/", h.Login)
		r.Post("/login/", h.Login)
		r.Get("/logout/", h.Logout)
	})

	// страницы только для вошедших пользователей
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireLogin)

		r.Get("/create/", h.PostCreate)
		r.Post("/create/", h.PostCreate)
		r.Get("/posts/{id}/edit/", h.PostEdit)
		r.Post("/posts/{id}/edit/", h.PostEdit)
		r.Post("/posts/{id}/comment/", h.AddComment)
		r.Post("/posts/{id}/delete/", h.PostDelete)
		// сюда ведет next после входа, если форма была отправлена анонимно
		r.Get("/posts/{id}/comment/", h.BackToPost)
		r.Get("/posts/{id}/delete/", h.BackToPost)

		r.Get("/follow/", h.FollowIndex)
		r.Get("/profile/{username}/follow/", h.ProfileFollow)
		r.Get("/profile/{username}/unfollow/", h.ProfileUnfollow)
	})

	return r
}
