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

type followKey struct {
	userID   uint
	authorID uint
}

// FollowMemoryStorage хранит не больше одной связи на пару (подписчик, автор).
type FollowMemoryStorage struct {
	mu      sync.Mutex
	follows map[followKey]*models.Follow
	nextID  uint
	users   *UserMemoryStorage
}

func NewFollowMemoryStorage(users *UserMemoryStorage) *FollowMemoryStorage {
	return &FollowMemoryStorage{
		follows: make(map[followKey]*models.Follow),
		nextID:  1,
		users:   users,
	}
}

func (s *FollowMemoryStorage) Follow(ctx context.Context, authorID uint) (*models.Follow, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}
	if userID == authorID {
		return nil, storage.ErrSelfFollow
	}
	if _, err := s.users.GetUserByID(ctx, authorID); err != nil {
		return nil, fmt.Errorf("author %d: %w", authorID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := followKey{userID: userID, authorID: authorID}
	if existing, ok := s.follows[key]; ok {
		result := *existing
		return &result, nil
	}

	f := &models.Follow{
		ID:        s.nextID,
		UserID:    userID,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.follows[key] = f

	result := *f
	return &result, nil
}

func (s *FollowMemoryStorage) Unfollow(ctx context.Context, authorID uint) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := followKey{userID: userID, authorID: authorID}
	if _, ok := s.follows[key]; !ok {
		return storage.ErrFollowNotFound
	}
	delete(s.follows, key)
	return nil
}

func (s *FollowMemoryStorage) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.follows[followKey{userID: userID, authorID: authorID}]
	return ok, nil
}

func (s *FollowMemoryStorage) FollowedAuthorIDs(ctx context.Context, userID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := []uint{}
	for key := range s.follows {
		if key.userID == userID {
			ids = append(ids, key.authorID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *FollowMemoryStorage) CountFollowers(ctx context.Context, authorID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for key := range s.follows {
		if key.authorID == authorID {
			count++
		}
	}
	return count, nil
}

func (s *FollowMemoryStorage) CountFollowing(ctx context.Context, userID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for key := range s.follows {
		if key.userID == userID {
			count++
		}
	}
	return count, nil
}
