package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/yatube/internal/auth"
	"github.com/VitaminP8/yatube/internal/storage"
	"github.com/VitaminP8/yatube/models"
)

type CommentMemoryStorage struct {
	mu       sync.Mutex
	comments map[uint]*models.Comment
	nextID   uint

	// удаленные посты; id постов не переиспользуются
	deletedPosts map[uint]struct{}

	postStorage *PostMemoryStorage // Хранилище постов (внедрение зависимости (DI))
	users       *UserMemoryStorage
	now         func() time.Time
}

func NewCommentMemoryStorage(postStore *PostMemoryStorage, users *UserMemoryStorage) *CommentMemoryStorage {
	s := &CommentMemoryStorage{
		comments:     make(map[uint]*models.Comment),
		nextID:       1,
		deletedPosts: make(map[uint]struct{}),
		postStorage:  postStore,
		users:        users,
		now:          time.Now,
	}
	// Комментарии удаляются вместе с постом
	postStore.OnDelete(s.deletePostComments)
	return s
}

func (s *CommentMemoryStorage) CreateComment(ctx context.Context, postID uint, text string) (*models.Comment, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	// пост проверяем до захвата своего мьютекса, чтобы не брать блокировки в обратном порядке
	if _, err := s.postStorage.GetPostByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("post %d: %w", postID, err)
	}

	s.mu.Lock()
	// пост мог быть удален между проверкой и захватом мьютекса
	if _, deleted := s.deletedPosts[postID]; deleted {
		s.mu.Unlock()
		return nil, fmt.Errorf("post %d: %w", postID, storage.ErrPostNotFound)
	}
	comment := &models.Comment{
		ID:        s.nextID,
		Text:      text,
		CreatedAt: s.now(),
		PostID:    postID,
		AuthorID:  userID,
	}
	s.nextID++
	s.comments[comment.ID] = comment
	result := *comment
	s.mu.Unlock()

	s.resolve(ctx, &result)
	return &result, nil
}

// GetComments возвращает комментарии поста, новые первыми.
func (s *CommentMemoryStorage) GetComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	s.mu.Lock()
	var result []*models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			comment := *c
			result = append(result, &comment)
		}
	}
	s.mu.Unlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	for _, c := range result {
		s.resolve(ctx, c)
	}
	return result, nil
}

func (s *CommentMemoryStorage) CountComments(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.comments), nil
}

func (s *CommentMemoryStorage) deletePostComments(postID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deletedPosts[postID] = struct{}{}
	for id, c := range s.comments {
		if c.PostID == postID {
			delete(s.comments, id)
		}
	}
}

func (s *CommentMemoryStorage) resolve(ctx context.Context, c *models.Comment) {
	if author, err := s.users.GetUserByID(ctx, c.AuthorID); err == nil {
		c.Author = *author
	}
}
