// Package pagecache хранит отрендеренные страницы ленты с ограниченным временем жизни.
package pagecache

import (
	"context"
	"time"

	"github.com/VitaminP8/yatube/internal/monitoring"
	log "github.com/sirupsen/logrus"
)

// Cache - хранилище ключ -> байты с TTL. Реализации безопасны для конкурентного доступа.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// Fetch возвращает закешированное значение или рендерит его через fill и сохраняет.
// Ошибки кеша не прерывают запрос: страница просто рендерится без кеша.
func Fetch(ctx context.Context, c Cache, key string, ttl time.Duration, fill func() ([]byte, error)) ([]byte, error) {
	value, ok, err := c.Get(ctx, key)
	switch {
	case err != nil:
		monitoring.PageCacheRequests.WithLabelValues("error").Inc()
		log.WithError(err).WithField("key", key).Warn("page cache lookup failed")
	case ok:
		monitoring.PageCacheRequests.WithLabelValues("hit").Inc()
		return value, nil
	default:
		monitoring.PageCacheRequests.WithLabelValues("miss").Inc()
	}

	value, err = fill()
	if err != nil {
		return nil, err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		log.WithError(err).WithField("key", key).Warn("page cache store failed")
	}
	return value, nil
}

// Invalidate очищает кеш после изменения постов.
func Invalidate(ctx context.Context, c Cache) {
	monitoring.PageCacheInvalidations.Inc()
	if err := c.Clear(ctx); err != nil {
		log.WithError(err).Error("page cache invalidation failed")
	}
}
