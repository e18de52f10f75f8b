package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VitaminP8/yatube/internal/storage"
	"github.com/VitaminP8/yatube/models"
	"golang.org/x/crypto/bcrypt"
)

type UserMemoryStorage struct {
	mu         sync.Mutex
	users      map[uint]*models.User
	byUsername map[string]uint
	nextID     uint
}

func NewUserMemoryStorage() *UserMemoryStorage {
	return &UserMemoryStorage{
		users:      make(map[uint]*models.User),
		byUsername: make(map[string]uint),
		nextID:     1,
	}
}

func (s *UserMemoryStorage) RegisterUser(ctx context.Context, username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[username]; exists {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrUsernameTaken)
	}

	user := &models.User{
		ID:        s.nextID,
		Username:  username,
		Email:     email,
		Password:  string(hashedPassword),
		CreatedAt: time.Now(),
	}
	s.nextID++

	s.users[user.ID] = user
	s.byUsername[username] = user.ID

	result := *user
	return &result, nil
}

func (s *UserMemoryStorage) LoginUser(ctx context.Context, username, password string) (*models.User, error) {
	s.mu.Lock()
	id, exists := s.byUsername[username]
	var user models.User
	if exists {
		user = *s.users[id]
	}
	s.mu.Unlock()

	if !exists {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrInvalidLogin)
	}

	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrInvalidLogin)
	}

	return &user, nil
}

func (s *UserMemoryStorage) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[id]
	if !exists {
		return nil, storage.ErrUserNotFound
	}
	result := *user
	return &result, nil
}

func (s *UserMemoryStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, exists := s.byUsername[username]
	if !exists {
		return nil, storage.ErrUserNotFound
	}
	result := *s.users[id]
	return &result, nil
}
