// Package forms разбирает и проверяет данные HTML-форм.
package forms

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/VitaminP8/yatube/internal/group"
	"github.com/VitaminP8/yatube/internal/post"
	"github.com/VitaminP8/yatube/internal/storage"
	"github.com/VitaminP8/yatube/models"
)

const (
	maxUsernameLen    = 150
	minPasswordLength = 8
	maxImageLen       = 500
)

var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors - ошибки формы по полям, по одной на поле.
type Errors map[string]string

func (e Errors) Add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

func (e Errors) Get(field string) string {
	return e[field]
}

func (e Errors) Valid() bool {
	return len(e) == 0
}

// Err возвращает первую по имени поля ошибку как *ValidationError или nil.
func (e Errors) Err() error {
	if e.Valid() {
		return nil
	}
	var first string
	for field := range e {
		if first == "" || field < first {
			first = field
		}
	}
	return &ValidationError{Field: first, Message: e[first]}
}

type PostForm struct {
	Text    string
	GroupID string
	Image   string
	Errors  Errors
}

func NewPostForm(values url.Values) *PostForm {
	return &PostForm{
		Text:    values.Get("text"),
		GroupID: strings.TrimSpace(values.Get("group")),
		Image:   strings.TrimSpace(values.Get("image")),
		Errors:  Errors{},
	}
}

// PostFormFrom заполняет форму текущими значениями поста (для редактирования).
func PostFormFrom(p *models.Post) *PostForm {
	form := &PostForm{Text: p.Text, Image: p.Image, Errors: Errors{}}
	if p.GroupID != nil {
		form.GroupID = strconv.FormatUint(uint64(*p.GroupID), 10)
	}
	return form
}

// Validate проверяет форму; группа должна существовать.
func (f *PostForm) Validate(ctx context.Context, groups group.GroupStorage) (post.Input, bool) {
	in := post.Input{Text: f.Text, Image: f.Image}

	if strings.TrimSpace(f.Text) == "" {
		f.Errors.Add("text", "Введите текст поста")
	}
	if utf8.RuneCountInString(f.Image) > maxImageLen {
		f.Errors.Add("image", "Слишком длинная ссылка на изображение")
	}

	if f.GroupID != "" {
		id, err := strconv.ParseUint(f.GroupID, 10, 64)
		if err != nil {
			f.Errors.Add("group", "Выберите группу из списка")
		} else {
			g, err := groups.GetGroupByID(ctx, uint(id))
			switch {
			case errors.Is(err, storage.ErrGroupNotFound):
				f.Errors.Add("group", "Выберите группу из списка")
			case err != nil:
				f.Errors.Add("group", "Не удалось проверить группу")
			default:
				in.GroupID = &g.ID
			}
		}
	}

	return in, f.Errors.Valid()
}

type CommentForm struct {
	Text   string
	Errors Errors
}

func NewCommentForm(values url.Values) *CommentForm {
	return &CommentForm{Text: values.Get("text"), Errors: Errors{}}
}

func (f *CommentForm) Validate() bool {
	if strings.TrimSpace(f.Text) == "" {
		f.Errors.Add("text", "Введите текст комментария")
	}
	return f.Errors.Valid()
}

type SignupForm struct {
	Username  string
	Email     string
	Password  string
	Password2 string
	Errors    Errors
}

func NewSignupForm(values url.Values) *SignupForm {
	return &SignupForm{
		Username:  strings.TrimSpace(values.Get("username")),
		Email:     strings.TrimSpace(values.Get("email")),
		Password:  values.Get("password1"),
		Password2: values.Get("password2"),
		Errors:    Errors{},
	}
}

func (f *SignupForm) Validate() bool {
	switch {
	case f.Username == "":
		f.Errors.Add("username", "Обязательное поле")
	case utf8.RuneCountInString(f.Username) > maxUsernameLen:
		f.Errors.Add("username", fmt.Sprintf("Не больше %d символов", maxUsernameLen))
	case !usernameRe.MatchString(f.Username):
		f.Errors.Add("username", "Допустимы буквы, цифры и символы @/./+/-/_")
	}

	if f.Email != "" && !strings.Contains(f.Email, "@") {
		f.Errors.Add("email", "Введите правильный адрес электронной почты")
	}

	if utf8.RuneCountInString(f.Password) < minPasswordLength {
		f.Errors.Add("password1", fmt.Sprintf("Пароль должен содержать минимум %d символов", minPasswordLength))
	}
	if f.Password != f.Password2 {
		f.Errors.Add("password2", "Пароли не совпадают")
	}

	return f.Errors.Valid()
}

type LoginForm struct {
	Username string
	Password string
	Next     string
	Errors   Errors
}

func NewLoginForm(values url.Values) *LoginForm {
	return &LoginForm{
		Username: strings.TrimSpace(values.Get("username")),
		Password: values.Get("password"),
		Next:     values.Get("next"),
		Errors:   Errors{},
	}
}

func (f *LoginForm) Validate() bool {
	if f.Username == "" {
		f.Errors.Add("username", "Обязательное поле")
	}
	if f.Password == "" {
		f.Errors.Add("password", "Обязательное поле")
	}
	return f.Errors.Valid()
}

// SafeNext возвращает путь для редиректа после входа.
// Принимаются только локальные пути, иначе "/".
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	return next
}
