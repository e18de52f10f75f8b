package group

import (
	"context"

	"github.com/VitaminP8/yatube/models"
)

type GroupStorage interface {
	CreateGroup(ctx context.Context, title, slug, description string) (*models.Group, error)
	GetGroupByID(ctx context.Context, id uint) (*models.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)
}
