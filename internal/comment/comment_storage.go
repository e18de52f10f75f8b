package comment

import (
	"context"

	"github.com/VitaminP8/yatube/models"
)

type CommentStorage interface {
	CreateComment(ctx context.Context, postID uint, text string) (*models.Comment, error)
	GetComments(ctx context.Context, postID uint) ([]*models.Comment, error)
	CountComments(ctx context.Context) (int, error)
}
