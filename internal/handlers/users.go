package handlers

import (
	"errors"
	"net/http"

	"github.com/VitaminP8/yatube/internal/auth"
	"github.com/VitaminP8/yatube/internal/forms"
	"github.com/VitaminP8/yatube/internal/storage"
	"github.com/VitaminP8/yatube/models"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.renderSignup(w, r, forms.NewSignupForm(nil))
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := forms.NewSignupForm(r.PostForm)
	if !form.Validate() {
		log.WithError(form.Errors.Err()).Debug("invalid signup form")
		h.renderSignup(w, r, form)
		return
	}

	u, err := h.Users.RegisterUser(r.Context(), form.Username, form.Email, form.Password)
	if storage.IsConflict(err) {
		form.Errors.Add("username", "Пользователь с таким именем уже существует")
		h.renderSignup(w, r, form)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	if err := h.startSession(w, r, u); err != nil {
		h.serverError(w, r, err)
		return
	}
	log.WithField("username", u.Username).Info("user registered")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) renderSignup(w http.ResponseWriter, r *http.Request, form *forms.SignupForm) {
	data := h.pageData(r, "Регистрация")
	data.SignupForm = form
	h.Renderer.Render(w, http.StatusOK, "signup", data)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.renderLogin(w, r, forms.NewLoginForm(r.URL.Query()))
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := forms.NewLoginForm(r.PostForm)
	if !form.Validate() {
		h.renderLogin(w, r, form)
		return
	}

	u, err := h.Users.LoginUser(r.Context(), form.Username, form.Password)
	if errors.Is(err, storage.ErrInvalidLogin) {
		form.Errors.Add("form", "Неверное имя пользователя или пароль")
		h.renderLogin(w, r, form)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	if err := h.startSession(w, r, u); err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, forms.SafeNext(form.Next), http.StatusFound)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, form *forms.LoginForm) {
	data := h.pageData(r, "Войти")
	data.LoginForm = form
	h.Renderer.Render(w, http.StatusOK, "login", data)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := auth.ClearSession(w, r, h.Sessions); err != nil {
		log.WithError(err).Warn("clear session")
	}
	data := h.pageData(r, "Вы вышли из системы")
	data.CurrentUser = nil
	h.Renderer.Render(w, http.StatusOK, "logged_out", data)
}

// startSession выпускает JWT и кладет его в cookie-сессию.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, u *models.User) error {
	token, err := auth.IssueToken(h.TokenSecret, u, h.TokenTTL)
	if err != nil {
		return err
	}
	return auth.SaveTokenToSession(w, r, h.Sessions, token)
}
