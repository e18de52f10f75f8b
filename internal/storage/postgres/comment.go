package postgres

import (
	"context"
	"fmt"

	"github.com/VitaminP8/yatube/internal/auth"
	"github.com/VitaminP8/yatube/internal/storage"
	"github.com/VitaminP8/yatube/models"
	"github.com/jinzhu/gorm"
)

type CommentPostgresStorage struct {
	db *gorm.DB
}

func NewCommentPostgresStorage(db *gorm.DB) *CommentPostgresStorage {
	return &CommentPostgresStorage{db: db}
}

func (s *CommentPostgresStorage) CreateComment(ctx context.Context, postID uint, text string) (*models.Comment, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	var count int
	err = s.db.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("could not check post: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("post %d: %w", postID, storage.ErrPostNotFound)
	}

	comment := &models.Comment{
		Text:     text,
		PostID:   postID,
		AuthorID: userID,
	}
	err = s.db.Set("gorm:save_associations", false).Create(comment).Error
	if err != nil {
		return nil, fmt.Errorf("could not create comment: %w", err)
	}

	var result models.Comment
	err = s.db.Preload("Author").First(&result, comment.ID).Error
	if err != nil {
		return nil, fmt.Errorf("could not load comment: %w", err)
	}
	return &result, nil
}

func (s *CommentPostgresStorage) GetComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := s.db.Preload("Author").Where("post_id = ?", postID).Order(newestFirst).Find(&comments).Error
	if err != nil && !gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("could not get comments: %w", err)
	}
	return comments, nil
}

func (s *CommentPostgresStorage) CountComments(ctx context.Context) (int, error) {
	var count int
	if err := s.db.Model(&models.Comment{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("could not count comments: %w", err)
	}
	return count, nil
}
