package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/VitaminP8/yatube/internal/storage"
	"github.com/VitaminP8/yatube/models"
)

type GroupMemoryStorage struct {
	mu     sync.Mutex
	groups map[uint]*models.Group
	bySlug map[string]uint
	nextID uint
}

func NewGroupMemoryStorage() *GroupMemoryStorage {
	return &GroupMemoryStorage{
		groups: make(map[uint]*models.Group),
		bySlug: make(map[string]uint),
		nextID: 1,
	}
}

func (s *GroupMemoryStorage) CreateGroup(ctx context.Context, title, slug, description string) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bySlug[slug]; exists {
		return nil, fmt.Errorf("group %s: %w", slug, storage.ErrSlugTaken)
	}

	group := &models.Group{
		ID:          s.nextID,
		Title:       title,
		Slug:        slug,
		Description: description,
	}
	s.nextID++

	s.groups[group.ID] = group
	s.bySlug[slug] = group.ID

	result := *group
	return &result, nil
}

func (s *GroupMemoryStorage) GetGroupByID(ctx context.Context, id uint) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, exists := s.groups[id]
	if !exists {
		return nil, storage.ErrGroupNotFound
	}
	result := *group
	return &result, nil
}

func (s *GroupMemoryStorage) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, exists := s.bySlug[slug]
	if !exists {
		return nil, storage.ErrGroupNotFound
	}
	result := *s.groups[id]
	return &result, nil
}

func (s *GroupMemoryStorage) ListGroups(ctx context.Context) ([]*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := make([]*models.Group, 0, len(s.groups))
	for _, group := range s.groups {
		g := *group
		groups = append(groups, &g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Title < groups[j].Title
	})
	return groups, nil
}
