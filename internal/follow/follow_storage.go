package follow

import (
	"context"

	"github.com/VitaminP8/yatube/models"
)

// FollowStorage хранит связи подписчик -> автор. Подписчик берется из контекста.
type FollowStorage interface {
	// Follow идемпотентен: повторный вызов возвращает существующую связь.
	Follow(ctx context.Context, authorID uint) (*models.Follow, error)
	// Unfollow возвращает storage.ErrFollowNotFound, если связи нет.
	Unfollow(ctx context.Context, authorID uint) error
	IsFollowing(ctx context.Context, userID, authorID uint) (bool, error)
	FollowedAuthorIDs(ctx context.Context, userID uint) ([]uint, error)
	CountFollowers(ctx context.Context, authorID uint) (int, error)
	CountFollowing(ctx context.Context, userID uint) (int, error)
}
