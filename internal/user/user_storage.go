package user

import (
	"context"

	"github.com/VitaminP8/yatube/models"
)

type UserStorage interface {
	RegisterUser(ctx context.Context, username, email, password string) (*models.User, error)
	LoginUser(ctx context.Context, username, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}
