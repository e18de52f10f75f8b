package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VitaminP8/yatube/internal/auth"
	"github.com/VitaminP8/yatube/internal/comment"
	"github.com/VitaminP8/yatube/internal/config"
	"github.com/VitaminP8/yatube/internal/feed"
	"github.com/VitaminP8/yatube/internal/follow"
	"github.com/VitaminP8/yatube/internal/group"
	"github.com/VitaminP8/yatube/internal/handlers"
	"github.com/VitaminP8/yatube/internal/middleware"
	"github.com/VitaminP8/yatube/internal/pagecache"
	"github.com/VitaminP8/yatube/internal/post"
	"github.com/VitaminP8/yatube/internal/render"
	"github.com/VitaminP8/yatube/internal/storage/memory"
	"github.com/VitaminP8/yatube/internal/storage/postgres"
	"github.com/VitaminP8/yatube/internal/user"
	"github.com/jinzhu/gorm"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const rateLimitClients = 10000

type stores struct {
	users    user.UserStorage
	groups   group.GroupStorage
	posts    post.PostStorage
	comments comment.CommentStorage
	follows  follow.FollowStorage
}

func main() {
	storageType := flag.String("storage", "memory", "Тип хранилища: memory или postgres")
	cacheType := flag.String("cache", "memory", "Кэш страниц: memory или redis")
	var seeds group.SeedFlag
	flag.Var(&seeds, "seed-group", "Создать группу при старте: slug:title[:description] (можно повторять)")
	flag.Parse()

	// загружаем .env из нашего config.go
	config.LoadEnv()
	cfg := config.Load()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
	}

	var db *gorm.DB
	var s stores

	switch *storageType {
	case "postgres":
		var err error
		db, err = postgres.InitDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		if err := postgres.Migrate(db); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}

		log.Info("Используется PostgreSQL хранилище")
		s = stores{
			users:    postgres.NewUserPostgresStorage(db),
			groups:   postgres.NewGroupPostgresStorage(db),
			posts:    postgres.NewPostPostgresStorage(db),
			comments: postgres.NewCommentPostgresStorage(db),
			follows:  postgres.NewFollowPostgresStorage(db),
		}

	case "memory":
		log.Info("Используется in-memory хранилище")
		users := memory.NewUserMemoryStorage()
		groups := memory.NewGroupMemoryStorage()
		posts := memory.NewPostMemoryStorage(users, groups)
		s = stores{
			users:    users,
			groups:   groups,
			posts:    posts,
			comments: memory.NewCommentMemoryStorage(posts, users),
			follows:  memory.NewFollowMemoryStorage(users),
		}

	default:
		log.Fatalf("неизвестный тип хранилища: %s", *storageType)
	}

	if len(seeds) > 0 {
		if _, err := group.Apply(context.Background(), s.groups, seeds); err != nil {
			log.Fatalf("failed to seed groups: %v", err)
		}
	}

	var cache pagecache.Cache
	var redisClient *redis.Client
	switch *cacheType {
	case "redis":
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Fatalf("failed to connect to redis at %s: %v", cfg.Cache.RedisAddr, err)
		}
		log.WithField("addr", cfg.Cache.RedisAddr).Info("Кэш страниц в Redis")
		cache = pagecache.NewRedisCache(redisClient, pagecache.DefaultRedisPrefix)

	case "memory":
		memCache, err := pagecache.NewMemoryCache(cfg.Cache.Size)
		if err != nil {
			log.Fatalf("failed to create page cache: %v", err)
		}
		cache = memCache

	default:
		log.Fatalf("неизвестный тип кэша: %s", *cacheType)
	}

	renderer, err := render.New()
	if err != nil {
		log.Fatalf("failed to parse templates: %v", err)
	}

	limiter, err := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, rateLimitClients)
	if err != nil {
		log.Fatalf("failed to create rate limiter: %v", err)
	}

	sessionStore := auth.NewSessionStore(cfg.SessionSecret, cfg.TokenTTL, cfg.CookieSecure)

	h := &handlers.Handler{
		Users:       s.users,
		Groups:      s.groups,
		Posts:       s.posts,
		Comments:    s.comments,
		Follows:     s.follows,
		Feed:        feed.NewBuilder(s.posts, s.groups, s.users, s.follows),
		Cache:       cache,
		Renderer:    renderer,
		Sessions:    sessionStore,
		PageSize:    cfg.PageSize,
		CacheTTL:    cfg.Cache.TTL,
		TokenSecret: cfg.JWTSecret,
		TokenTTL:    cfg.TokenTTL,
	}

	// HTTP сервер
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handlers.NewRouter(h, auth.NewMiddleware(cfg.JWTSecret, sessionStore), limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// запуск HTTP сервер
	go func() {
		log.Infof("Сервер запущен на %s", cfg.HTTPAddr)
		// ListenAndServe блокирует до server.Shutdown() или фатальной ошибки
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // ждет сигнал

	log.Info("Завершение...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Ошибка при завершении сервера: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warnf("failed to close redis client: %v", err)
		}
	}
	if err := postgres.CloseDB(db); err != nil {
		log.Warnf("failed to close database: %v", err)
	}

	log.Info("Сервер остановлен корректно")
}
