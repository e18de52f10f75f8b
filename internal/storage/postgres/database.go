package postgres

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/VitaminP8/yatube/internal/config"
	"github.com/VitaminP8/yatube/models"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/pressly/goose/v3"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DSN собирает строку подключения в формате key=value, ее понимают и lib/pq, и pgx.
func DSN(cfg config.Database) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.Port,
		cfg.SSLMode,
	)
}

// InitDB подключается к PostgreSQL через lib/pq (DB_DRIVER=postgres) или pgx (DB_DRIVER=pgx)
func InitDB(cfg config.Database) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case "pgx":
		var sqlDB *sql.DB
		sqlDB, err = sql.Open("pgx", DSN(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to open pgx connection: %w", err)
		}
		db, err = gorm.Open("postgres", sqlDB)
	case "", "postgres":
		db, err = gorm.Open("postgres", DSN(cfg))
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	log.WithField("driver", cfg.Driver).Info("Successfully connected to the database.")
	return db, nil
}

// CloseDB закрывает соединение с базой данных
func CloseDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	err := db.Close()
	if err != nil {
		return fmt.Errorf("failed to close the database connection: %w", err)
	}

	log.Info("Database connection closed.")
	return nil
}

// Migrate применяет goose-миграции для PostgreSQL.
// Для остальных диалектов (sqlite в тестах) схема создается через AutoMigrate.
func Migrate(db *gorm.DB) error {
	if db.Dialect().GetName() != "postgres" {
		err := db.AutoMigrate(
			&models.User{},
			&models.Group{},
			&models.Post{},
			&models.Comment{},
			&models.Follow{},
		).Error
		if err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		return nil
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(log.StandardLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(db.DB(), "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
