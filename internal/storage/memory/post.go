package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/yatube/internal/auth"
	"github.com/VitaminP8/yatube/internal/post"
	"github.com/VitaminP8/yatube/internal/storage"
	"github.com/VitaminP8/yatube/models"
)

type PostMemoryStorage struct {
	mu     sync.Mutex
	posts  map[uint]*models.Post
	nextID uint

	users  *UserMemoryStorage
	groups *GroupMemoryStorage

	// вызываются после удаления поста (каскад для комментариев)
	onDelete []func(postID uint)
	now      func() time.Time
}

func NewPostMemoryStorage(users *UserMemoryStorage, groups *GroupMemoryStorage) *PostMemoryStorage {
	return &PostMemoryStorage{
		posts:  make(map[uint]*models.Post),
		nextID: 1,
		users:  users,
		groups: groups,
		now:    time.Now,
	}
}

// OnDelete регистрирует обработчик удаления поста.
func (s *PostMemoryStorage) OnDelete(fn func(postID uint)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDelete = append(s.onDelete, fn)
}

func (s *PostMemoryStorage) CreatePost(ctx context.Context, in post.Input) (*models.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	p := &models.Post{
		ID:        s.nextID,
		Text:      in.Text,
		CreatedAt: s.now(),
		AuthorID:  userID,
		GroupID:   copyID(in.GroupID),
		Image:     in.Image,
	}
	p.UpdatedAt = p.CreatedAt
	s.nextID++
	s.posts[p.ID] = p
	result := *p
	s.mu.Unlock()

	return s.resolve(ctx, &result), nil
}

func (s *PostMemoryStorage) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	s.mu.Lock()
	p, exists := s.posts[id]
	var result models.Post
	if exists {
		result = *p
	}
	s.mu.Unlock()

	if !exists {
		return nil, storage.ErrPostNotFound
	}
	return s.resolve(ctx, &result), nil
}

func (s *PostMemoryStorage) UpdatePost(ctx context.Context, id uint, in post.Input) (*models.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	p, exists := s.posts[id]
	if !exists {
		s.mu.Unlock()
		return nil, storage.ErrPostNotFound
	}
	if p.AuthorID != userID {
		s.mu.Unlock()
		return nil, storage.ErrForbidden
	}

	p.Text = in.Text
	p.GroupID = copyID(in.GroupID)
	p.Image = in.Image
	p.UpdatedAt = s.now()
	result := *p
	s.mu.Unlock()

	return s.resolve(ctx, &result), nil
}

func (s *PostMemoryStorage) DeletePostByID(ctx context.Context, id uint) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	s.mu.Lock()
	p, exists := s.posts[id]
	if !exists {
		s.mu.Unlock()
		return storage.ErrPostNotFound
	}
	if p.AuthorID != userID {
		s.mu.Unlock()
		return storage.ErrForbidden
	}
	delete(s.posts, id)
	hooks := append([]func(uint){}, s.onDelete...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(id)
	}
	return nil
}

func (s *PostMemoryStorage) ListPosts(ctx context.Context, filter post.Filter) ([]*models.Post, error) {
	if filter.AuthorIDs != nil && len(filter.AuthorIDs) == 0 {
		return []*models.Post{}, nil
	}

	authors := make(map[uint]struct{}, len(filter.AuthorIDs))
	for _, id := range filter.AuthorIDs {
		authors[id] = struct{}{}
	}

	s.mu.Lock()
	posts := make([]*models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if filter.GroupID != nil && (p.GroupID == nil || *p.GroupID != *filter.GroupID) {
			continue
		}
		if filter.AuthorIDs != nil {
			if _, ok := authors[p.AuthorID]; !ok {
				continue
			}
		}
		result := *p
		posts = append(posts, &result)
	}
	s.mu.Unlock()

	sortNewestFirst(posts)
	for _, p := range posts {
		s.resolve(ctx, p)
	}
	return posts, nil
}

func (s *PostMemoryStorage) CountPosts(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts), nil
}

// resolve подставляет автора и группу, как это делает Preload в SQL-хранилище.
func (s *PostMemoryStorage) resolve(ctx context.Context, p *models.Post) *models.Post {
	if author, err := s.users.GetUserByID(ctx, p.AuthorID); err == nil {
		p.Author = *author
	}
	p.Group = nil
	if p.GroupID != nil {
		if group, err := s.groups.GetGroupByID(ctx, *p.GroupID); err == nil {
			p.Group = group
		}
	}
	return p
}

func (s *PostMemoryStorage) checkGroup(ctx context.Context, groupID *uint) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.groups.GetGroupByID(ctx, *groupID); err != nil {
		return fmt.Errorf("group %d: %w", *groupID, err)
	}
	return nil
}

func sortNewestFirst(posts []*models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
}

func copyID(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
