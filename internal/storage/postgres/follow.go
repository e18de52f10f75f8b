package postgres

import (
	"context"
	"fmt"

	"github.com/VitaminP8/yatube/internal/auth"
	"github.com/VitaminP8/yatube/internal/storage"
	"github.com/VitaminP8/yatube/models"
	"github.com/jinzhu/gorm"
)

type FollowPostgresStorage struct {
	db *gorm.DB
}

func NewFollowPostgresStorage(db *gorm.DB) *FollowPostgresStorage {
	return &FollowPostgresStorage{db: db}
}

func (s *FollowPostgresStorage) Follow(ctx context.Context, authorID uint) (*models.Follow, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}
	if userID == authorID {
		return nil, storage.ErrSelfFollow
	}

	var author models.User
	err = s.db.Select("id").First(&author, authorID).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("author %d: %w", authorID, storage.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get author: %w", err)
	}

	where := models.Follow{UserID: userID, AuthorID: authorID}
	var follow models.Follow
	err = s.db.FirstOrCreate(&follow, where).Error
	if isUniqueViolation(err) {
		// параллельный запрос успел создать ту же связь
		err = s.db.Where(where).First(&follow).Error
	}
	if err != nil {
		return nil, fmt.Errorf("could not follow: %w", err)
	}
	return &follow, nil
}

func (s *FollowPostgresStorage) Unfollow(ctx context.Context, authorID uint) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	res := s.db.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&models.Follow{})
	if res.Error != nil {
		return fmt.Errorf("could not unfollow: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrFollowNotFound
	}
	return nil
}

func (s *FollowPostgresStorage) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int
	err := s.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("could not check follow: %w", err)
	}
	return count > 0, nil
}

func (s *FollowPostgresStorage) FollowedAuthorIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := s.db.Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Order("author_id").
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("could not get followed authors: %w", err)
	}
	return ids, nil
}

func (s *FollowPostgresStorage) CountFollowers(ctx context.Context, authorID uint) (int, error) {
	var count int
	err := s.db.Model(&models.Follow{}).Where("author_id = ?", authorID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("could not count followers: %w", err)
	}
	return count, nil
}

func (s *FollowPostgresStorage) CountFollowing(ctx context.Context, userID uint) (int, error) {
	var count int
	err := s.db.Model(&models.Follow{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("could not count following: %w", err)
	}
	return count, nil
}
