package postgres

import (
	"context"
	"fmt"

	"github.com/VitaminP8/yatube/internal/storage"
	"github.com/VitaminP8/yatube/models"
	"github.com/jinzhu/gorm"
	"golang.org/x/crypto/bcrypt"
)

type UserPostgresStorage struct {
	db *gorm.DB
}

func NewUserPostgresStorage(db *gorm.DB) *UserPostgresStorage {
	return &UserPostgresStorage{db: db}
}

func (s *UserPostgresStorage) RegisterUser(ctx context.Context, username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
	}

	// уникальность имени гарантирует индекс, отдельная проверка не нужна
	err = s.db.Create(user).Error
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrUsernameTaken)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *UserPostgresStorage) LoginUser(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrInvalidLogin)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrInvalidLogin)
	}

	return &user, nil
}

func (s *UserPostgresStorage) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}
	return &user, nil
}

func (s *UserPostgresStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user by username: %w", err)
	}
	return &user, nil
}
