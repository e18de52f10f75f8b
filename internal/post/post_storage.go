package post

import (
	"context"

	"github.com/VitaminP8/yatube/models"
)

// Input - изменяемые поля поста.
type Input struct {
	Text    string
	GroupID *uint
	Image   string
}

// Filter ограничивает выборку постов. Пустой фильтр - все посты.
// AuthorIDs == nil не ограничивает авторов, пустой (не nil) срез дает пустую выборку.
type Filter struct {
	GroupID   *uint
	AuthorIDs []uint
}

type PostStorage interface {
	CreatePost(ctx context.Context, in Input) (*models.Post, error)
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	UpdatePost(ctx context.Context, id uint, in Input) (*models.Post, error)
	DeletePostByID(ctx context.Context, id uint) error
	ListPosts(ctx context.Context, filter Filter) ([]*models.Post, error)
	CountPosts(ctx context.Context) (int, error)
}
