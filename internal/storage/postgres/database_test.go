package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/VitaminP8/yatube/internal/auth"
	"github.com/VitaminP8/yatube/internal/config"
	"github.com/VitaminP8/yatube/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite" // Импортируем драйвер SQLite
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Создает контекст с ID пользователя
func createUserContext(userID uint) context.Context {
	ctx := context.Background()
	return auth.WithUserID(ctx, userID)
}

// setupTestDB создает тестовую БД в памяти и выполняет миграции
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err, "Failed to connect to in-memory SQLite")
	// у каждого соединения своя база в памяти
	db.DB().SetMaxOpenConns(1)
	// Отключаем логирование запросов для тестов
	db.LogMode(false)

	require.NoError(t, Migrate(db), "Failed to migrate database schema")

	t.Cleanup(func() {
		_ = CloseDB(db)
	})
	return db
}

// createTestUser создает тестового пользователя и возвращает его
func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
	}
	require.NoError(t, db.Create(user).Error, "Failed to create test user")
	return user
}

func createTestGroup(t *testing.T, db *gorm.DB, slug string) *models.Group {
	t.Helper()

	group := &models.Group{Title: "Группа " + slug, Slug: slug, Description: "Тестовое описание"}
	require.NoError(t, db.Create(group).Error, "Failed to create test group")
	return group
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.Database{
		Host:     "db",
		User:     "yatube",
		Password: "secret",
		Name:     "yatube",
		Port:     "5432",
		SSLMode:  "disable",
	})
	assert.Equal(t, "host=db user=yatube password=secret dbname=yatube port=5432 sslmode=disable", dsn)
}

func TestInitDB_UnknownDriver(t *testing.T) {
	_, err := InitDB(config.Database{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown database driver")
}

func TestCloseDB_Nil(t *testing.T) {
	assert.NoError(t, CloseDB(nil))
}

func TestMigrate_SQLite(t *testing.T) {
	db := setupTestDB(t)

	for _, table := range []interface{}{
		&models.User{}, &models.Group{}, &models.Post{}, &models.Comment{}, &models.Follow{},
	} {
		assert.True(t, db.HasTable(table))
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))

	t.Run("sqlite", func(t *testing.T) {
		db := setupTestDB(t)
		createTestUser(t, db, "dup")

		err := db.Create(&models.User{Username: "dup", Password: "x"}).Error
		require.Error(t, err)
		assert.True(t, isUniqueViolation(err))
	})
}
