package render

import (
	"html/template"

	"github.com/VitaminP8/yatube/internal/forms"
	"github.com/VitaminP8/yatube/internal/paginator"
	"github.com/VitaminP8/yatube/models"
)

// PageData - общий набор данных для всех страниц. Каждый шаблон читает свою часть.
type PageData struct {
	Title       string
	CurrentUser *models.User
	Path        string
	CSRFToken   string

	// ленты
	Page    paginator.Page[*models.Post]
	Listing template.HTML
	Group   *models.Group
	Author  *models.User

	// профиль
	Following      bool
	FollowersCount int
	FollowingCount int

	// пост
	Post       *models.Post
	Comments   []*models.Comment
	PostsCount int
	IsAuthor   bool

	// формы
	PostForm   *forms.PostForm
	Groups     []*models.Group
	IsEdit     bool
	LoginForm  *forms.LoginForm
	SignupForm *forms.SignupForm
}
