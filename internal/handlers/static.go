package handlers

import (
	"net/http"
)

func (h *Handler) AboutAuthor(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, http.StatusOK, "about_author", h.pageData(r, "Об авторе"))
}

func (h *Handler) AboutTech(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, http.StatusOK, "about_tech", h.pageData(r, "Технологии"))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
