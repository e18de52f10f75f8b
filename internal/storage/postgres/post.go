package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/VitaminP8/yatube/internal/auth"
	"github.com/VitaminP8/yatube/internal/post"
	"github.com/VitaminP8/yatube/internal/storage"
	"github.com/VitaminP8/yatube/models"
	"github.com/jinzhu/gorm"
)

const newestFirst = "created_at desc, id desc"

type PostPostgresStorage struct {
	db *gorm.DB
}

func NewPostPostgresStorage(db *gorm.DB) *PostPostgresStorage {
	return &PostPostgresStorage{db: db}
}

func (s *PostPostgresStorage) CreatePost(ctx context.Context, in post.Input) (*models.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}
	if err := s.checkGroup(in.GroupID); err != nil {
		return nil, err
	}

	p := &models.Post{
		Text:     in.Text,
		AuthorID: userID,
		GroupID:  in.GroupID,
		Image:    in.Image,
	}

	err = s.db.Set("gorm:save_associations", false).Create(p).Error
	if err != nil {
		return nil, fmt.Errorf("could not create post: %w", err)
	}

	return s.GetPostByID(ctx, p.ID)
}

func (s *PostPostgresStorage) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	err := s.db.Preload("Author").Preload("Group").First(&p, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, storage.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not get post by id: %w", err)
	}
	return &p, nil
}

func (s *PostPostgresStorage) UpdatePost(ctx context.Context, id uint, in post.Input) (*models.Post, error) {
	if err := s.checkAuthor(ctx, id); err != nil {
		return nil, err
	}
	if err := s.checkGroup(in.GroupID); err != nil {
		return nil, err
	}

	// map, чтобы обнулялись и пустые значения (снятие группы)
	err := s.db.Model(&models.Post{}).Where("id = ?", id).Updates(map[string]interface{}{
		"text":       in.Text,
		"group_id":   in.GroupID,
		"image":      in.Image,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, fmt.Errorf("could not update post: %w", err)
	}

	return s.GetPostByID(ctx, id)
}

func (s *PostPostgresStorage) DeletePostByID(ctx context.Context, id uint) error {
	if err := s.checkAuthor(ctx, id); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Post{}).Error
	})
	if err != nil {
		return fmt.Errorf("could not delete post: %w", err)
	}
	return nil
}

func (s *PostPostgresStorage) ListPosts(ctx context.Context, filter post.Filter) ([]*models.Post, error) {
	posts := []*models.Post{}
	if filter.AuthorIDs != nil && len(filter.AuthorIDs) == 0 {
		return posts, nil
	}

	q := s.db.Preload("Author").Preload("Group").Order(newestFirst)
	if filter.GroupID != nil {
		q = q.Where("group_id = ?", *filter.GroupID)
	}
	if filter.AuthorIDs != nil {
		q = q.Where("author_id IN (?)", filter.AuthorIDs)
	}

	if err := q.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("could not get posts: %w", err)
	}
	return posts, nil
}

func (s *PostPostgresStorage) CountPosts(ctx context.Context) (int, error) {
	var count int
	if err := s.db.Model(&models.Post{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("could not count posts: %w", err)
	}
	return count, nil
}

// checkAuthor проверяет, что пост существует и принадлежит пользователю из контекста
func (s *PostPostgresStorage) checkAuthor(ctx context.Context, id uint) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	var p models.Post
	err = s.db.Select("id, author_id").First(&p, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return storage.ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("could not get post: %w", err)
	}

	if p.AuthorID != userID {
		return storage.ErrForbidden
	}
	return nil
}

func (s *PostPostgresStorage) checkGroup(groupID *uint) error {
	if groupID == nil {
		return nil
	}

	var count int
	err := s.db.Model(&models.Group{}).Where("id = ?", *groupID).Count(&count).Error
	if err != nil {
		return fmt.Errorf("could not check group: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("group %d: %w", *groupID, storage.ErrGroupNotFound)
	}
	return nil
}
